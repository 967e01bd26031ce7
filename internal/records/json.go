package records

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// JSONParser reads an array of flat objects. JSON is a subset of YAML, so
// the document is parsed into a goccy/go-yaml syntax tree. Walking the tree
// keeps key order and the literal text of numbers, which a decode into Go
// values would lose.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Name() string {
	return "json"
}

func (p *JSONParser) CanHandle(extension string) bool {
	return extension == "json"
}

func (p *JSONParser) Parse(r io.Reader) ([]types.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, formatErrorf("failed to read JSON: %v", err)
	}
	// The YAML parser is more lenient than JSON; reject anything that is not JSON first.
	if !json.Valid(data) {
		return nil, formatErrorf("malformed JSON")
	}

	// Repeated keys follow the XML rule: last value wins, first position kept.
	file, err := parser.ParseBytes(data, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return nil, formatErrorf("failed to decode JSON: %v", err)
	}
	if len(file.Docs) != 1 {
		return nil, formatErrorf("top-level JSON value must be an array of objects")
	}

	seq, ok := file.Docs[0].Body.(*ast.SequenceNode)
	if !ok {
		return nil, formatErrorf("top-level JSON value must be an array of objects")
	}

	recs := make([]types.Record, 0, len(seq.Values))
	for i, item := range seq.Values {
		pairs, ok := objectPairs(item)
		if !ok {
			return nil, formatErrorf("record %d is not an object", i+1)
		}

		rec := types.Record{Index: i + 1}
		for _, kv := range pairs {
			name := scalarKey(kv.Key)
			value, err := scalarText(kv.Value)
			if err != nil {
				return nil, formatErrorf("record %d field %q: %v", i+1, name, err)
			}
			rec.Set(name, value)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

// objectPairs returns the key/value pairs of a mapping node. The parser
// represents a single-pair object as a bare MappingValueNode.
func objectPairs(n ast.Node) ([]*ast.MappingValueNode, bool) {
	switch t := n.(type) {
	case *ast.MappingNode:
		return t.Values, true
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{t}, true
	default:
		return nil, false
	}
}

func scalarKey(k ast.MapKeyNode) string {
	if s, ok := k.(*ast.StringNode); ok {
		return s.Value
	}
	return k.GetToken().Value
}

// scalarText renders a JSON scalar as a field value. Numbers keep their
// source form ("1.50" stays "1.50").
func scalarText(n ast.Node) (string, error) {
	switch t := n.(type) {
	case nil, *ast.NullNode:
		return "", nil
	case *ast.StringNode:
		return t.Value, nil
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode:
		return t.GetToken().Value, nil
	default:
		return "", fmt.Errorf("nested value of type %s is not allowed; records must be flat", n.Type())
	}
}

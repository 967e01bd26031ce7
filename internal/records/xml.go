package records

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// RecordElement is the only tag allowed directly below the root of an XML input file.
const RecordElement = "record"

// XMLParser reads <record> elements from an XML document.
type XMLParser struct{}

func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

func (p *XMLParser) Name() string {
	return "xml"
}

func (p *XMLParser) CanHandle(extension string) bool {
	return extension == "xml"
}

func (p *XMLParser) Parse(r io.Reader) ([]types.Record, error) {
	dec := xml.NewDecoder(r)

	if err := skipToRoot(dec); err != nil {
		return nil, err
	}

	var recs []types.Record
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, formatErrorf("malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != RecordElement {
				return nil, formatErrorf("element <%s> found where <%s> was expected (record %d)",
					t.Name.Local, RecordElement, len(recs)+1)
			}
			rec, err := readRecord(dec, len(recs)+1)
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)

		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return nil, formatErrorf("unexpected text %q between records", strings.TrimSpace(string(t)))
			}

		case xml.EndElement:
			// End of the root element.
			return recs, nil
		}
	}
}

// skipToRoot consumes the prolog up to and including the root start tag.
func skipToRoot(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return formatErrorf("document has no root element")
		}
		if err != nil {
			return formatErrorf("malformed XML: %v", err)
		}
		if _, ok := tok.(xml.StartElement); ok {
			return nil
		}
	}
}

// readRecord reads the fields of one <record> element. The start tag has
// already been consumed; the matching end tag is consumed here.
func readRecord(dec *xml.Decoder, index int) (types.Record, error) {
	rec := types.Record{Index: index}
	for {
		tok, err := dec.Token()
		if err != nil {
			return rec, formatErrorf("malformed XML in record %d: %v", index, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			value, err := readText(dec)
			if err != nil {
				return rec, formatErrorf("malformed XML in record %d field <%s>: %v", index, t.Name.Local, err)
			}
			rec.Set(t.Name.Local, value)
		case xml.EndElement:
			return rec, nil
		}
	}
}

// readText returns the concatenated character data of the current element,
// including that of any nested elements, and consumes its end tag.
func readText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String(), nil
}

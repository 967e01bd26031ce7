// =============================================================================
// CONTENTdm Catcher Client - Record Source
// =============================================================================
//
// This module turns an input file into an ordered sequence of flat records.
// Two formats are accepted, selected by file extension:
//
//   .xml  - the root element's children must all be <record> elements; each
//           child of a <record> becomes a field (tag -> text content).
//
//             <records>
//               <record>
//                 <title>Main Street, 1910</title>
//                 <type>Photograph</type>
//               </record>
//             </records>
//
//   .json - an array of flat objects; keys become fields in document order.
//
//             [{"title": "Main Street, 1910", "type": "Photograph"}]
//
// Any structural problem rejects the whole file (types.ErrFormat); nothing is
// partially consumed.
//
// =============================================================================

package records

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// =============================================================================
// PARSER REGISTRY
// =============================================================================

// Parser decodes one input format.
type Parser interface {
	// Name is the format name used in log and error messages.
	Name() string

	// CanHandle reports whether the parser accepts files with this extension
	// (lower case, without the dot).
	CanHandle(extension string) bool

	// Parse decodes all records from r.
	Parse(r io.Reader) ([]types.Record, error)
}

// defaultParsers lists the accepted formats.
func defaultParsers() []Parser {
	return []Parser{
		NewXMLParser(),
		NewJSONParser(),
	}
}

// AllowedExtensions are the input file extensions accepted by Parse.
var AllowedExtensions = []string{"json", "xml"}

// Extension returns the lower-case extension of path without the dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// selectParser returns the first registered parser that can handle the extension.
func selectParser(extension string) (Parser, error) {
	for _, p := range defaultParsers() {
		if p.CanHandle(extension) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported file extension %q (want .%s)",
		types.ErrFormat, extension, strings.Join(AllowedExtensions, " or ."))
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads an input file and returns its records in file order.
//
// PARAMETERS:
//   - path: The path to a .xml or .json file.
//
// RETURNS:
//   - The records, each with a 1-based Index.
//   - An error wrapping types.ErrFormat when the extension is not accepted,
//     the file does not exist or the content is malformed.
func Parse(path string) ([]types.Record, error) {
	parser, err := selectParser(Extension(path))
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", types.ErrFormat, path, err)
	}
	defer file.Close()

	recs, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s parser failed on %s: %w", parser.Name(), path, err)
	}
	return recs, nil
}

// formatErrorf builds an error wrapping types.ErrFormat.
func formatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", types.ErrFormat, fmt.Sprintf(format, args...))
}

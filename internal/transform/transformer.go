// =============================================================================
// CONTENTdm Catcher Client - Record Transformer
// =============================================================================
//
// This module converts a validated record into the ordered field/value list
// sent with processCONTENTdm.
//
// FIELD PRIORITY:
//   The server processes the identifying field first, so one field is moved
//   to the front of the payload depending on the operation:
//   - add:          the title field (title by default)
//   - edit, delete: the identifier field (dmrecord by default)
//   All other fields keep the order they had in the input file.
//
// VALUE NORMALIZATION:
//   Multi-term values are rewritten in canonical form:
//     "Streets ;Automobiles;" -> "Streets; Automobiles"
//
// =============================================================================

package transform

import (
	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer builds submission payloads from records.
type Transformer struct {
	// IdentifierField is moved first for edit and delete.
	IdentifierField string

	// TitleField is moved first for add.
	TitleField string
}

// NewTransformer creates a Transformer with the given field roles.
func NewTransformer(identifierField, titleField string) *Transformer {
	return &Transformer{
		IdentifierField: identifierField,
		TitleField:      titleField,
	}
}

// PriorityField returns the field that leads the payload for op.
func (t *Transformer) PriorityField(op types.Operation) string {
	if op == types.OpAdd {
		return t.TitleField
	}
	return t.IdentifierField
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// Transform returns the payload for record under op. The record is not
// modified.
//
// PARAMETERS:
//   - record: The source record.
//   - op: The submission kind; selects the priority field.
//
// RETURNS:
//   - A new payload with one entry per record field.
func (t *Transformer) Transform(record types.Record, op types.Operation) types.Payload {
	priority := t.PriorityField(op)
	payload := make(types.Payload, 0, len(record.Fields))

	if value, ok := record.Get(priority); ok {
		payload = append(payload, types.Metadata{Field: priority, Value: NormalizeValue(value)})
	}
	for _, f := range record.Fields {
		if f.Name != priority {
			payload = append(payload, types.Metadata{Field: f.Name, Value: NormalizeValue(f.Value)})
		}
	}

	return payload
}

// NormalizeValue trims every term of a value and re-joins the non-empty ones.
//
// EXAMPLE:
//   "  Photograph ;; Postcard " -> "Photograph; Postcard"
func NormalizeValue(value string) string {
	return types.JoinTerms(types.SplitTerms(value))
}

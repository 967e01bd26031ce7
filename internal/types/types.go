// =============================================================================
// CONTENTdm Catcher Client - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - records     (produces Records)
//   - vocab       (collection aliases)
//   - validation  (consumes Records)
//   - transform   (produces Payloads)
//   - catcher     (submits Payloads)
//   - batch       (drives all of the above)
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Field is a single field/value pair read from an input file.
type Field struct {
	// Name is the field nickname as known to the collection (e.g. "title", "subjec").
	Name string

	// Value is the raw value. It may hold several terms separated by TermSeparator.
	Value string
}

// Record represents one metadata item from an input file.
// Fields keep the order in which they appeared in the file.
type Record struct {
	// Index is the 1-based position of the record in its source file.
	Index int

	// Fields contains the field/value pairs in file order.
	Fields []Field
}

// Get returns the value of the named field.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set assigns a value to a field. An existing field keeps its position;
// a new field is appended.
func (r *Record) Set(name, value string) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// =============================================================================
// FIELD VALUE LISTS
// =============================================================================

// TermSeparator delimits the terms of a multi-valued field.
const TermSeparator = ";"

// SplitTerms splits a field value on TermSeparator and trims every term.
// Empty terms are dropped.
//
// EXAMPLE:
//   "Photograph ; Postcard;;" -> ["Photograph", "Postcard"]
func SplitTerms(value string) []string {
	parts := strings.Split(value, TermSeparator)
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		term := strings.TrimSpace(part)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// JoinTerms is the inverse of SplitTerms and produces the canonical
// "term; term" form submitted to the server.
func JoinTerms(terms []string) string {
	return strings.Join(terms, TermSeparator+" ")
}

// =============================================================================
// PAYLOAD TYPES
// =============================================================================

// Metadata is one entry of a submission payload.
type Metadata struct {
	Field string `xml:"field"`
	Value string `xml:"value"`
}

// Payload is the ordered field/value list sent with an add, edit or delete.
type Payload []Metadata

// Fields returns the field names of the payload in order.
func (p Payload) Fields() []string {
	names := make([]string, len(p))
	for i, m := range p {
		names[i] = m.Field
	}
	return names
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Operation is the kind of record submission.
// The set is closed: only the constants below are valid.
type Operation int

const (
	// OpAdd creates new records.
	OpAdd Operation = iota + 1

	// OpEdit changes existing records identified by the identifier field.
	OpEdit

	// OpDelete removes records identified by the identifier field.
	OpDelete
)

// String returns the wire name of the operation.
func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpEdit:
		return "edit"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Valid reports whether o is one of the declared operations.
func (o Operation) Valid() bool {
	return o >= OpAdd && o <= OpDelete
}

// =============================================================================
// COLLECTION ALIASES
// =============================================================================

// AliasSeparator is the leading character of a canonical collection alias.
const AliasSeparator = "/"

// NormalizeAlias returns the canonical form of a collection alias.
//
// EXAMPLE:
//   "p17176coll1"  -> "/p17176coll1"
//   "/p17176coll1" -> "/p17176coll1"
func NormalizeAlias(alias string) string {
	alias = strings.TrimSpace(alias)
	if alias == "" || strings.HasPrefix(alias, AliasSeparator) {
		return alias
	}
	return AliasSeparator + alias
}

// AliasSlug returns the alias without its separator, for use in file names.
func AliasSlug(alias string) string {
	return strings.ReplaceAll(alias, AliasSeparator, "")
}

package vocab

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// =============================================================================
// COLLECTION CONFIGURATION
// =============================================================================

// FieldConfig describes one field of a collection as reported by
// getCONTENTdmCollectionConfig.
type FieldConfig struct {
	Name       string `xml:"name"`
	Nick       string `xml:"nick"`
	Type       string `xml:"type"`
	Size       string `xml:"size"`
	Find       string `xml:"find"`
	Required   string `xml:"req"`
	Searchable string `xml:"search"`
	Hidden     string `xml:"hide"`
	Vocab      string `xml:"vocab"`
	DC         string `xml:"dc"`
	Admin      string `xml:"admin"`
	ReadOnly   string `xml:"readonly"`
}

// Controlled reports whether the field is under controlled vocabulary.
func (f FieldConfig) Controlled() bool {
	return flag(f.Vocab)
}

// CollectionConfig is the parsed field configuration of a collection.
type CollectionConfig struct {
	Fields []FieldConfig
}

// Field looks a field up by nickname, falling back to a case-insensitive
// match on the display name.
func (c *CollectionConfig) Field(name string) (FieldConfig, bool) {
	for _, f := range c.Fields {
		if f.Nick == name {
			return f, true
		}
	}
	for _, f := range c.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return FieldConfig{}, false
}

// ControlledFields returns the nicknames of all controlled fields.
func (c *CollectionConfig) ControlledFields() []string {
	var nicks []string
	for _, f := range c.Fields {
		if f.Controlled() {
			nicks = append(nicks, f.Nick)
		}
	}
	return nicks
}

// ParseCollectionConfig reads every <field> element (at any depth) that has a
// <nick> child.
func ParseCollectionConfig(doc string) (*CollectionConfig, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))
	cfg := &CollectionConfig{}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed collection configuration: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Local != "field" {
			continue
		}

		var f FieldConfig
		if err := dec.DecodeElement(&f, &start); err != nil {
			return nil, fmt.Errorf("malformed collection configuration field: %w", err)
		}
		f.Nick = strings.TrimSpace(f.Nick)
		if f.Nick == "" {
			continue
		}
		f.Name = strings.TrimSpace(f.Name)
		cfg.Fields = append(cfg.Fields, f)
	}

	if !sawRoot {
		return nil, errors.New("collection configuration is not an XML document")
	}
	return cfg, nil
}

// flag interprets the boolean-like values used in collection configurations.
func flag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// =============================================================================
// TERM SETS
// =============================================================================

// TermSet is the set of allowed terms of one field.
type TermSet map[string]struct{}

// NewTermSet builds a set from terms.
func NewTermSet(terms ...string) TermSet {
	set := make(TermSet, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// Contains reports whether term is allowed.
func (s TermSet) Contains(term string) bool {
	_, ok := s[term]
	return ok
}

// Sorted returns the terms in lexical order.
func (s TermSet) Sorted() []string {
	terms := make([]string, 0, len(s))
	for t := range s {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// ParseTerms reads the text of every <term> element of a
// getCONTENTdmControlledVocabTerms document.
func ParseTerms(doc string) (TermSet, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))
	set := TermSet{}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed term list: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Local != "term" {
			continue
		}

		var term string
		if err := dec.DecodeElement(&term, &start); err != nil {
			return nil, fmt.Errorf("malformed term: %w", err)
		}
		if term = strings.TrimSpace(term); term != "" {
			set[term] = struct{}{}
		}
	}

	if !sawRoot {
		return nil, errors.New("term list is not an XML document")
	}
	return set, nil
}

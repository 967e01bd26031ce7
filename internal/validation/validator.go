// =============================================================================
// CONTENTdm Catcher Client - Record Validator
// =============================================================================
//
// This module checks every record against the controlled vocabularies of the
// target collection before anything is submitted.
//
// VALIDATION STRATEGY:
//   1. Every field value is split on ";" into terms; terms are trimmed and
//      empty terms are dropped.
//   2. The Vocabulary Cache says whether the field is controlled and, if so,
//      which terms it allows.
//   3. Every term outside the allowed set is collected for that field.
//   4. A record with at least one offending term is rejected as a whole.
//      Valid fields of a rejected record are never submitted on their own.
//
// SKIPPED FIELDS:
//   - The identifier field (dmrecord by default) is never checked.
//   - Delete records are not checked at all; only the identifier matters.
//
// =============================================================================

package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/ginjaninja78/cdm-catcher/internal/transform"
	"github.com/ginjaninja78/cdm-catcher/internal/types"
	"github.com/ginjaninja78/cdm-catcher/internal/vocab"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError lists the terms of one field that are not in its vocabulary.
type ValidationError struct {
	// Field is the nickname of the offending field.
	Field string

	// Terms are the offending terms in the order they appeared in the value.
	Terms []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q has terms outside its controlled vocabulary: %s",
		e.Field, strings.Join(e.Terms, ", "))
}

// =============================================================================
// VALIDATION VERDICT
// =============================================================================

// Verdict is the outcome of validating one record.
type Verdict struct {
	// Accepted is true when no field produced offending terms.
	Accepted bool

	// Payload is the transformed record. Set only when Accepted.
	Payload types.Payload

	// Rejections holds one entry per offending field, in record field order.
	Rejections []*ValidationError
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Vocabulary is the lookup the validator needs from the Vocabulary Cache.
type Vocabulary interface {
	Ensure(ctx context.Context, field string) (vocab.TermSet, bool, error)
}

// Validator validates records and transforms the accepted ones.
type Validator struct {
	vocabulary  Vocabulary
	transformer *transform.Transformer
}

// NewValidator creates a Validator. Field roles come from the transformer.
func NewValidator(vocabulary Vocabulary, transformer *transform.Transformer) *Validator {
	return &Validator{
		vocabulary:  vocabulary,
		transformer: transformer,
	}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks a record for the given operation.
//
// PARAMETERS:
//   - ctx: Passed to vocabulary lookups.
//   - record: The record to check. It is not modified.
//   - op: The submission kind.
//
// RETURNS:
//   - The verdict. An accepted verdict carries the payload to submit.
//   - An error only when a vocabulary is unavailable and the run must stop.
func (v *Validator) Validate(ctx context.Context, record types.Record, op types.Operation) (*Verdict, error) {
	verdict := &Verdict{}

	if op != types.OpDelete {
		for _, field := range record.Fields {
			if field.Name == v.transformer.IdentifierField {
				continue
			}

			rejection, err := v.validateField(ctx, field)
			if err != nil {
				return nil, err
			}
			if rejection != nil {
				verdict.Rejections = append(verdict.Rejections, rejection)
			}
		}
	}

	if len(verdict.Rejections) > 0 {
		return verdict, nil
	}

	verdict.Accepted = true
	verdict.Payload = v.transformer.Transform(record, op)
	return verdict, nil
}

// validateField returns nil when every term of the field is allowed.
func (v *Validator) validateField(ctx context.Context, field types.Field) (*ValidationError, error) {
	terms := types.SplitTerms(field.Value)
	if len(terms) == 0 {
		return nil, nil
	}

	allowed, controlled, err := v.vocabulary.Ensure(ctx, field.Name)
	if err != nil {
		return nil, err
	}
	if !controlled {
		return nil, nil
	}

	var offending []string
	for _, term := range terms {
		if !allowed.Contains(term) {
			offending = append(offending, term)
		}
	}
	if len(offending) == 0 {
		return nil, nil
	}
	return &ValidationError{Field: field.Name, Terms: offending}, nil
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatRejections renders the rejections of one record on a single line.
//
// EXAMPLE:
//   type: Bogus; subjec: Cars, Trucks
func FormatRejections(rejections []*ValidationError) string {
	parts := make([]string, len(rejections))
	for i, r := range rejections {
		parts[i] = r.Field + ": " + strings.Join(r.Terms, ", ")
	}
	return strings.Join(parts, "; ")
}

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

func record(pairs ...string) types.Record {
	rec := types.Record{Index: 1}
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Set(pairs[i], pairs[i+1])
	}
	return rec
}

func TestTransform_PriorityField(t *testing.T) {
	tr := NewTransformer("dmrecord", "title")
	rec := record("type", "Photograph", "title", "Main Street", "dmrecord", "42", "subjec", "Streets")

	tests := []struct {
		op   types.Operation
		want []string
	}{
		{types.OpAdd, []string{"title", "type", "dmrecord", "subjec"}},
		{types.OpEdit, []string{"dmrecord", "type", "title", "subjec"}},
		{types.OpDelete, []string{"dmrecord", "type", "title", "subjec"}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Transform(rec, tt.op).Fields())
		})
	}
}

func TestTransform_NoPriorityFieldKeepsOrder(t *testing.T) {
	tr := NewTransformer("dmrecord", "title")
	rec := record("subjec", "Streets", "type", "Photograph")

	assert.Equal(t, []string{"subjec", "type"}, tr.Transform(rec, types.OpAdd).Fields())
	assert.Equal(t, []string{"subjec", "type"}, tr.Transform(rec, types.OpEdit).Fields())
}

func TestTransform_DoesNotMutateRecord(t *testing.T) {
	tr := NewTransformer("dmrecord", "title")
	rec := record("type", " Photograph ;; Postcard ", "dmrecord", "7")
	before := append([]types.Field(nil), rec.Fields...)

	payload := tr.Transform(rec, types.OpEdit)

	assert.Equal(t, before, rec.Fields)
	assert.Equal(t, types.Payload{
		{Field: "dmrecord", Value: "7"},
		{Field: "type", Value: "Photograph; Postcard"},
	}, payload)
}

func TestTransform_CustomFieldRoles(t *testing.T) {
	tr := NewTransformer("id", "name")
	rec := record("a", "1", "name", "x", "id", "9")

	assert.Equal(t, "name", tr.Transform(rec, types.OpAdd)[0].Field)
	assert.Equal(t, "id", tr.Transform(rec, types.OpDelete)[0].Field)
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "Streets; Automobiles", NormalizeValue("Streets ;Automobiles;"))
	assert.Equal(t, "", NormalizeValue(" ; "))
	assert.Equal(t, "Main Street", NormalizeValue("Main Street"))
}

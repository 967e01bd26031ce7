// =============================================================================
// CONTENTdm Catcher Client - XLSX Export
// =============================================================================
//
// This module writes the documents returned by the lookup commands as
// spreadsheets, for catalogers who plan a batch in Excel.
//
// FIELD SHEET ("Fields"):
//
//   | Name    | Nickname | Type | Size | Required | Searchable | Hidden | Controlled | DC Mapping | Admin | Read-only |
//   |---------|----------|------|------|----------|------------|--------|------------|------------|-------|-----------|
//   | Title   | title    | TEXT | 0    | yes      | yes        | no     | no         | Title      | no    | no        |
//   | Type    | type     | TEXT | 0    | no       | yes        | no     | yes        | Type       | no    | no        |
//
// TERM SHEET ("Terms"): one column headed by the field nickname, terms in
// lexical order below it.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/cdm-catcher/internal/vocab"
)

const (
	// FieldSheet is the sheet name of a collection field export.
	FieldSheet = "Fields"

	// TermSheet is the sheet name of a term list export.
	TermSheet = "Terms"
)

// column is one column of the field sheet.
type column struct {
	Header string
	Value  func(vocab.FieldConfig) string
}

// fieldColumns defines the field sheet layout.
var fieldColumns = []column{
	{"Name", func(f vocab.FieldConfig) string { return f.Name }},
	{"Nickname", func(f vocab.FieldConfig) string { return f.Nick }},
	{"Type", func(f vocab.FieldConfig) string { return f.Type }},
	{"Size", func(f vocab.FieldConfig) string { return f.Size }},
	{"Required", func(f vocab.FieldConfig) string { return yesNo(f.Required) }},
	{"Searchable", func(f vocab.FieldConfig) string { return yesNo(f.Searchable) }},
	{"Hidden", func(f vocab.FieldConfig) string { return yesNo(f.Hidden) }},
	{"Controlled", func(f vocab.FieldConfig) string { return yesNo(f.Vocab) }},
	{"DC Mapping", func(f vocab.FieldConfig) string { return f.DC }},
	{"Admin", func(f vocab.FieldConfig) string { return yesNo(f.Admin) }},
	{"Read-only", func(f vocab.FieldConfig) string { return yesNo(f.ReadOnly) }},
}

// Headers returns the field sheet headers in column order.
func Headers() []string {
	headers := make([]string, len(fieldColumns))
	for i, c := range fieldColumns {
		headers[i] = c.Header
	}
	return headers
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// WriteFields writes the field configuration of a collection as a workbook.
//
// PARAMETERS:
//   - w: Destination of the .xlsx bytes.
//   - cfg: The parsed collection configuration.
//
// RETURNS:
//   - An error if the workbook cannot be built or written.
func WriteFields(w io.Writer, cfg *vocab.CollectionConfig) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), FieldSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, FieldSheet, 1, Headers()); err != nil {
		return err
	}
	for i, field := range cfg.Fields {
		row := make([]string, len(fieldColumns))
		for j, c := range fieldColumns {
			row[j] = c.Value(field)
		}
		if err := setRow(f, FieldSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := freezeHeader(f, FieldSheet); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteTerms writes the allowed terms of one field as a workbook.
func WriteTerms(w io.Writer, field string, terms vocab.TermSet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TermSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := append([]string{field}, terms.Sorted()...)
	for i, value := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(TermSheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}

	if err := freezeHeader(f, TermSheet); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// yesNo renders a configuration flag. Empty stays empty.
func yesNo(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return ""
	case "1", "true", "yes", "y":
		return "yes"
	default:
		return "no"
	}
}

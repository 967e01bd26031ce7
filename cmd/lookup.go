// =============================================================================
// CONTENTdm Catcher Client - Lookup Commands
// =============================================================================
//
// This file defines the read-only commands. Each one makes a single call
// and emits the document returned by the server verbatim.
//
// COMMAND USAGE:
//   catcher catalog
//   catcher collection <alias>
//   catcher terms <alias> <field>
//
// With --output ending in .xlsx, collection and terms write a spreadsheet
// instead of the raw document.
//
// =============================================================================

package cmd

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
	"github.com/ginjaninja78/cdm-catcher/internal/vocab"
	"github.com/ginjaninja78/cdm-catcher/internal/xlsxwriter"
	"github.com/ginjaninja78/cdm-catcher/pkg/utils"
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the collections on the CONTENTdm server",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

var collectionCmd = &cobra.Command{
	Use:   "collection <alias>",
	Short: "Show the field configuration of a collection",
	Long: `Show the field configuration of a collection, including which fields are
under controlled vocabulary and their nicknames.

With --output fields.xlsx the configuration is written as a spreadsheet.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollection,
}

var termsCmd = &cobra.Command{
	Use:   "terms <alias> <field>",
	Short: "List the controlled vocabulary terms of a field",
	Long: `List the controlled vocabulary terms of a field. The field is given by its
nickname (for example "subjec").

With --output terms.xlsx the terms are written as a spreadsheet.`,
	Args: cobra.ExactArgs(2),
	RunE: runTerms,
}

func init() {
	rootCmd.AddCommand(catalogCmd, collectionCmd, termsCmd)
}

// =============================================================================
// HANDLERS
// =============================================================================

func runCatalog(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	doc, err := a.client.Catalog(cmd.Context())
	if err != nil {
		return err
	}
	return a.write(cmd, utils.OutputFileName("catalog", "", "xml"), []byte(doc))
}

func runCollection(cmd *cobra.Command, args []string) error {
	alias := types.NormalizeAlias(args[0])
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	doc, err := a.client.CollectionConfig(cmd.Context(), alias)
	if err != nil {
		return err
	}

	if !wantsSpreadsheet() {
		return a.write(cmd, utils.OutputFileName("collection", alias, "xml"), []byte(doc))
	}

	cfg, err := vocab.ParseCollectionConfig(doc)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := xlsxwriter.WriteFields(&buf, cfg); err != nil {
		return err
	}
	return a.write(cmd, utils.OutputFileName("collection", alias, "xlsx"), buf.Bytes())
}

func runTerms(cmd *cobra.Command, args []string) error {
	alias, field := types.NormalizeAlias(args[0]), args[1]
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	doc, err := a.client.ControlledVocabTerms(cmd.Context(), alias, field)
	if err != nil {
		return err
	}

	if !wantsSpreadsheet() {
		return a.write(cmd, utils.OutputFileName("terms", alias, "xml"), []byte(doc))
	}

	terms, err := vocab.ParseTerms(doc)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := xlsxwriter.WriteTerms(&buf, field, terms); err != nil {
		return err
	}
	return a.write(cmd, utils.OutputFileName("terms", alias, "xlsx"), buf.Bytes())
}

// wantsSpreadsheet reports whether --output names an .xlsx file.
func wantsSpreadsheet() bool {
	return strings.EqualFold(filepath.Ext(outputPath), ".xlsx")
}

// =============================================================================
// CONTENTdm Catcher Client - Process Commands
// =============================================================================
//
// This file defines the add, edit and delete commands. They share one
// handler; each command is bound explicitly to its operation.
//
// COMMAND USAGE:
//   catcher add    <alias> <file> [--vocab altAlias [field...]]
//   catcher edit   <alias> <file> [--vocab altAlias [field...]]
//   catcher delete <alias> <file>
//
// PROCESSING PIPELINE:
//   1. Check the input file (extension, existence)
//   2. Load configuration and credentials
//   3. Parse the file into records
//   4. Validate each record against the controlled vocabularies
//   5. Submit accepted records one at a time
//   6. Write the report to stdout or --output
//
// Steps 1 and 2 fail before anything is sent to the server. A fatal error
// in step 3 or 4 leaves --output untouched.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cdm-catcher/internal/batch"
	"github.com/ginjaninja78/cdm-catcher/internal/records"
	"github.com/ginjaninja78/cdm-catcher/internal/transform"
	"github.com/ginjaninja78/cdm-catcher/internal/types"
	"github.com/ginjaninja78/cdm-catcher/internal/validation"
	"github.com/ginjaninja78/cdm-catcher/internal/vocab"
	"github.com/ginjaninja78/cdm-catcher/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// vocabAlias redirects vocabulary lookups to another collection. Extra
// positional arguments name fields checked against it.
var vocabAlias string

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var addCmd = &cobra.Command{
	Use:   "add <alias> <file> [field...]",
	Short: "Add the records of an XML or JSON file to a collection",
	Args:  processArgs,
	RunE:  processHandler(types.OpAdd),
}

var editCmd = &cobra.Command{
	Use:   "edit <alias> <file> [field...]",
	Short: "Edit existing records; each record carries its dmrecord pointer",
	Args:  processArgs,
	RunE:  processHandler(types.OpEdit),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <alias> <file>",
	Short: "Delete the records whose dmrecord pointers are listed in a file",
	Long: `Delete the records whose dmrecord pointers are listed in a file.

Delete records are not checked against controlled vocabularies: every
record in the file is submitted as given.`,
	Args: cobra.ExactArgs(2),
	RunE: processHandler(types.OpDelete),
}

const vocabUsage = "Check controlled vocabulary against this collection instead. " +
	"Fields listed after <file> are checked even if not controlled in the target collection"

func init() {
	addCmd.Flags().StringVar(&vocabAlias, "vocab", "", vocabUsage)
	editCmd.Flags().StringVar(&vocabAlias, "vocab", "", vocabUsage)

	rootCmd.AddCommand(addCmd, editCmd, deleteCmd)
}

// processArgs accepts <alias> <file>, plus field names only with --vocab.
func processArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(2)(cmd, args); err != nil {
		return err
	}
	if len(args) > 2 && vocabAlias == "" {
		return fmt.Errorf("%w: extra arguments %v require --vocab", types.ErrConfiguration, args[2:])
	}
	return nil
}

// =============================================================================
// HANDLER
// =============================================================================

func processHandler(op types.Operation) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, op, args)
	}
}

// runProcess runs one batch and writes its report.
func runProcess(cmd *cobra.Command, op types.Operation, args []string) error {
	alias, path := types.NormalizeAlias(args[0]), args[1]

	if err := utils.ValidateInputFile(path, records.AllowedExtensions); err != nil {
		return err
	}
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	policy, err := vocab.ParsePolicy(a.config.Vocabulary.OnUnavailable)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfiguration, err)
	}

	override := vocab.Override{}
	if op != types.OpDelete && vocabAlias != "" {
		override = vocab.Override{Alias: vocabAlias, Fields: args[2:]}
	}

	cache := vocab.NewCache(a.client, vocab.Options{
		Alias:    alias,
		Override: override,
		Policy:   policy,
		Prompter: &vocab.TerminalPrompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()},
		Logger:   a.logger,
	})
	validator := validation.NewValidator(cache,
		transform.NewTransformer(a.config.Fields.Identifier, a.config.Fields.Title))
	orchestrator := batch.New(a.client, validator, batch.Options{Logger: a.logger})

	report, err := orchestrator.Run(cmd.Context(), path, op, alias)
	if err != nil {
		return err
	}

	return a.write(cmd, utils.OutputFileName(op.String(), alias, "txt"), []byte(report.String()))
}

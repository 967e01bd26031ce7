// =============================================================================
// CONTENTdm Catcher Client - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (catcher)
//   ├── catalogCmd    (catcher catalog)
//   ├── collectionCmd (catcher collection <alias>)
//   ├── termsCmd      (catcher terms <alias> <field>)
//   ├── addCmd        (catcher add <alias> <file> [--vocab altAlias field...])
//   ├── editCmd       (catcher edit <alias> <file> [--vocab altAlias field...])
//   ├── deleteCmd     (catcher delete <alias> <file>)
//   └── versionCmd    (catcher version)
//
// GLOBAL FLAGS:
//   --config   catcher.yaml by default; a missing default file is fine
//   --output   write the result to a file (or into a directory) instead of stdout
//   --verbose  debug logging on stderr
//   --version  print the Catcher service version first
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty means
// config.DefaultPath, which may be absent.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// outputPath redirects command output from stdout to a file or directory.
var outputPath string

// showVersion prints the Catcher service version before the command runs.
var showVersion bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "catcher",
	Short: "CONTENTdm Catcher client - validate and submit metadata batches",
	Long: `catcher talks to the OCLC CONTENTdm Catcher web service.

It lists collections and their field configuration, fetches controlled
vocabulary term lists, and adds, edits or deletes records in bulk from XML
or JSON files. Every record is checked against the collection's controlled
vocabularies before it is submitted; records with unknown terms are skipped
and reported.

Example Usage:
  catcher catalog
  catcher collection p17176coll1 --output fields.xlsx
  catcher terms p17176coll1 subjec
  catcher add p17176coll1 records.xml --output report.txt
  catcher edit /p17176coll1 records.json --vocab p17176coll9 subjec type
  catcher delete p17176coll1 records.xml`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !showVersion || cmd == versionCmd {
			return nil
		}
		return printServiceVersion(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		if !showVersion {
			cmd.Help()
		}
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default catcher.yaml, optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging on stderr",
	)

	rootCmd.PersistentFlags().StringVarP(
		&outputPath,
		"output",
		"o",
		"",
		"Write output to this file (overwritten) or directory instead of stdout",
	)

	rootCmd.PersistentFlags().BoolVar(
		&showVersion,
		"version",
		false,
		"Print the Catcher service version",
	)
}

// =============================================================================
// CONTENTdm Catcher Client - Main Entry Point
// =============================================================================
//
// This is the main entry point for the catcher CLI. It delegates to the
// Cobra commands in the cmd package.
//
// USAGE:
//   catcher catalog                      - List the collections on the server
//   catcher collection <alias>           - Show a collection's field configuration
//   catcher terms <alias> <field>        - List a field's controlled vocabulary
//   catcher add|edit|delete <alias> <file> - Submit the records of a file
//   catcher version                      - Display the client version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : the record pipeline and the Catcher SOAP client
//   - pkg/       : file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/cdm-catcher/cmd"
)

func main() {
	cmd.Execute()
}

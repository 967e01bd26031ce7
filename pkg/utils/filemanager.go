// =============================================================================
// CONTENTdm Catcher Client - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a run:
//   - Pre-flight checks of the input file (existence, extension)
//   - Output naming for the lookup and batch commands
//   - Writing the output to stdout or a file
//
// OUTPUT STRATEGY:
//   - Without --output, output goes to stdout.
//   - With --output naming a file, the file is replaced (overwrite semantics).
//   - With --output naming an existing directory, the default name for the
//     command is used inside that directory.
//   - Empty output writes nothing and creates no file.
//   - Files are written to a temporary sibling and renamed into place, so a
//     failed write never leaves a truncated report behind.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// =============================================================================
// INPUT FILE CHECKS
// =============================================================================

// ValidateInputFile checks that path exists, is a regular file, and has one
// of the allowed extensions (compared case-insensitively, without the dot).
//
// RETURNS:
//   - An error wrapping types.ErrConfiguration, or nil.
func ValidateInputFile(path string, allowed []string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	extensionOK := false
	for _, a := range allowed {
		if ext == a {
			extensionOK = true
			break
		}
	}
	if !extensionOK {
		return fmt.Errorf("%w: filename must have a %s extension: %s",
			types.ErrConfiguration, joinExtensions(allowed), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: file does not exist: %s", types.ErrConfiguration, path)
		}
		return fmt.Errorf("%w: cannot read %s: %v", types.ErrConfiguration, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", types.ErrConfiguration, path)
	}
	return nil
}

// joinExtensions renders ["json", "xml"] as ".json or .xml".
func joinExtensions(exts []string) string {
	dotted := make([]string, len(exts))
	for i, e := range exts {
		dotted[i] = "." + e
	}
	if len(dotted) <= 1 {
		return strings.Join(dotted, "")
	}
	return strings.Join(dotted[:len(dotted)-1], ", ") + " or " + dotted[len(dotted)-1]
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputFileName returns the default file name for a command's output.
//
// PARAMETERS:
//   - kind: "catalog", "collection", "terms" or an operation name.
//   - alias: The collection alias, if any.
//   - ext: The extension without the dot.
//
// EXAMPLE:
//   ("catalog", "", "xml")           -> "Catalog.xml"
//   ("collection", "/coll1", "xml")  -> "Collection_coll1.xml"
//   ("terms", "/coll1", "xlsx")      -> "Vocabulary_coll1.xlsx"
//   ("add", "/coll1", "txt")         -> "Process_add_coll1.txt"
func OutputFileName(kind, alias, ext string) string {
	slug := types.AliasSlug(alias)
	var base string
	switch kind {
	case "catalog":
		base = "Catalog"
	case "collection":
		base = "Collection_" + slug
	case "terms":
		base = "Vocabulary_" + slug
	default:
		base = "Process_" + kind + "_" + slug
	}
	return base + "." + ext
}

// ResolveOutputPath returns where output should go. An existing directory
// gets defaultName appended; anything else is used as is.
func ResolveOutputPath(output, defaultName string) string {
	if output == "" {
		return ""
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, defaultName)
	}
	return output
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// WriteOutput writes body to path, or to stdout when path is empty.
// An empty body writes nothing.
func WriteOutput(path string, stdout io.Writer, body []byte) error {
	if len(body) == 0 {
		return nil
	}
	if path == "" {
		_, err := stdout.Write(body)
		return err
	}
	return replaceFile(path, body)
}

// replaceFile writes data to a temporary file next to path and renames it
// over path.
func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

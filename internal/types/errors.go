package types

import "errors"

// Error kinds shared by every stage. Callers wrap them with fmt.Errorf("%w: ...")
// and test with errors.Is.
var (
	// ErrConfiguration is a pre-flight failure: bad input file, bad extension,
	// missing credentials. Nothing has been sent to the server.
	ErrConfiguration = errors.New("configuration error")

	// ErrFormat means the input file is structurally invalid. The whole batch is rejected.
	ErrFormat = errors.New("format error")

	// ErrVocabularyUnavailable means a controlled vocabulary could not be fetched
	// and the active policy refused to continue without it.
	ErrVocabularyUnavailable = errors.New("vocabulary unavailable")
)

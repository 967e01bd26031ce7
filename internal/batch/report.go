package batch

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout of the banner that precedes every entry.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// =============================================================================
// REPORT ENTRIES
// =============================================================================

// EntryKind classifies a report entry.
type EntryKind int

const (
	// EntrySubmitted holds the server's result text for a submitted record.
	EntrySubmitted EntryKind = iota

	// EntryRejected is a validation warning; the record was not submitted.
	EntryRejected

	// EntryFailed holds the error of a submission that failed remotely.
	EntryFailed
)

func (k EntryKind) String() string {
	switch k {
	case EntrySubmitted:
		return "submitted"
	case EntryRejected:
		return "rejected"
	case EntryFailed:
		return "failed"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// Entry is the outcome of one record.
type Entry struct {
	Time        time.Time
	Kind        EntryKind
	RecordIndex int
	Text        string
}

// =============================================================================
// REPORT
// =============================================================================

// Report is the outcome of one batch, one entry per record in input order.
type Report struct {
	RunID     string
	Operation string
	Alias     string
	Source    string
	Entries   []Entry
}

// Count returns the number of entries of the given kind.
func (r *Report) Count(kind EntryKind) int {
	n := 0
	for _, e := range r.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// String renders the report. A report without entries renders as "".
//
// FORMAT:
//   Process add /p17176coll1 from records.xml (run 5f0c...)
//
//   ******** 2026-10-18 09:30:00.123456 ********
//   Record added ...
//
//   ******** 2026-10-18 09:30:00.456789 ********
//   Record 2 skipped: type: Bogus
func (r *Report) String() string {
	if len(r.Entries) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Process %s %s from %s (run %s)\n", r.Operation, r.Alias, r.Source, r.RunID)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "\n******** %s ********\n%s\n", e.Time.Format(TimestampLayout), strings.TrimRight(e.Text, "\n"))
	}
	return b.String()
}

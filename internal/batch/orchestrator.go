// =============================================================================
// CONTENTdm Catcher Client - Batch Orchestrator
// =============================================================================
//
// This module drives one input file through the whole pipeline.
//
// PROCESSING PIPELINE:
//   1. Parse the input file into records (fatal on failure)
//   2. Validate every record against the controlled vocabularies
//   3. For each record, in file order:
//      a. Rejected: add a warning entry and move on
//      b. Accepted: submit the transformed payload
//      c. Add the server's answer, or the submission error, as an entry
//   4. Return the report
//
// Records are submitted one at a time. A failed submission is never retried
// and never stops the batch. Only a parse failure or an unavailable
// vocabulary under a fail-closed policy aborts the run. Both happen before
// the first submission, and then no report is returned at all.
//
// =============================================================================

package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/cdm-catcher/internal/logging"
	"github.com/ginjaninja78/cdm-catcher/internal/records"
	"github.com/ginjaninja78/cdm-catcher/internal/types"
	"github.com/ginjaninja78/cdm-catcher/internal/validation"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Submitter sends one record to the server.
type Submitter interface {
	Process(ctx context.Context, alias string, op types.Operation, payload types.Payload) (string, error)
}

// RecordValidator decides whether a record may be submitted.
type RecordValidator interface {
	Validate(ctx context.Context, record types.Record, op types.Operation) (*validation.Verdict, error)
}

// Options configure an Orchestrator. Zero values get defaults.
type Options struct {
	Logger logging.Logger

	// Now stamps report entries. Defaults to time.Now.
	Now func() time.Time

	// RunID identifies the run in the report header and log lines.
	// Defaults to a random UUID.
	RunID string
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs batches. One Orchestrator serves one invocation.
type Orchestrator struct {
	submitter Submitter
	validator RecordValidator
	logger    logging.Logger
	now       func() time.Time
	runID     string
}

// New creates an Orchestrator.
func New(submitter Submitter, validator RecordValidator, opts Options) *Orchestrator {
	o := &Orchestrator{
		submitter: submitter,
		validator: validator,
		logger:    opts.Logger,
		now:       opts.Now,
		runID:     opts.RunID,
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o
}

// RunID returns the identifier stamped into reports.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run processes every record of the file at path.
//
// PARAMETERS:
//   - ctx: Passed to every remote call.
//   - path: The input file (.xml or .json).
//   - op: The submission kind.
//   - alias: The target collection, with or without its leading "/".
//
// RETURNS:
//   - The report, one entry per record in file order.
//   - An error wrapping types.ErrFormat or types.ErrVocabularyUnavailable
//     when the batch is aborted. No report is returned in that case, and no
//     record has been submitted: every record is validated before the first
//     submission.
func (o *Orchestrator) Run(ctx context.Context, path string, op types.Operation, alias string) (*Report, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("invalid operation %v", op)
	}
	alias = types.NormalizeAlias(alias)
	logger := o.logger

	recs, err := records.Parse(path)
	if err != nil {
		return nil, err
	}
	logger.Info("batch started", "run", o.runID, "operation", op, "alias", alias, "file", path, "records", len(recs))

	// Step 1: validate everything. This fills the vocabulary cache, so an
	// aborting lookup failure surfaces before any remote change is made.
	verdicts := make([]*validation.Verdict, len(recs))
	for i, rec := range recs {
		verdict, err := o.validator.Validate(ctx, rec, op)
		if err != nil {
			return nil, err
		}
		verdicts[i] = verdict
	}

	// Step 2: submit accepted records in file order.
	report := &Report{
		RunID:     o.runID,
		Operation: op.String(),
		Alias:     alias,
		Source:    filepath.Base(path),
		Entries:   make([]Entry, 0, len(recs)),
	}
	for i, rec := range recs {
		report.Entries = append(report.Entries, o.processRecord(ctx, rec, verdicts[i], op, alias))
	}

	logger.Info("batch finished",
		"run", o.runID,
		"submitted", report.Count(EntrySubmitted),
		"rejected", report.Count(EntryRejected),
		"failed", report.Count(EntryFailed),
	)
	return report, nil
}

// processRecord reports a rejected record or submits an accepted one.
// Submission errors are recorded in the entry and never stop the batch.
func (o *Orchestrator) processRecord(ctx context.Context, rec types.Record, verdict *validation.Verdict, op types.Operation, alias string) Entry {
	if !verdict.Accepted {
		text := fmt.Sprintf("Record %d skipped, terms outside controlled vocabulary: %s",
			rec.Index, validation.FormatRejections(verdict.Rejections))
		o.logger.Warn("record rejected", "run", o.runID, "record", rec.Index, "fields", len(verdict.Rejections))
		return o.entry(EntryRejected, rec.Index, text)
	}

	result, err := o.submitter.Process(ctx, alias, op, verdict.Payload)
	if err != nil {
		o.logger.Error("submission failed", "run", o.runID, "record", rec.Index, "error", err)
		return o.entry(EntryFailed, rec.Index, fmt.Sprintf("Record %d failed: %v", rec.Index, err))
	}

	o.logger.Debug("record submitted", "run", o.runID, "record", rec.Index)
	return o.entry(EntrySubmitted, rec.Index, result)
}

func (o *Orchestrator) entry(kind EntryKind, index int, text string) Entry {
	return Entry{Time: o.now(), Kind: kind, RecordIndex: index, Text: text}
}

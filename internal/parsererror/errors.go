// Package parsererror defines the error taxonomy for the import pipeline.
// Document-level failures are fatal to the operation in progress; individual
// line or row rejections are not errors and never surface here.
package parsererror

import "fmt"

// DocumentUnreadableError indicates the uploaded document is not of the
// expected type, is encrypted, or yielded no extractable text or rows.
// No draft set is created when this is returned.
type DocumentUnreadableError struct {
	Source string // "pdf" or "xlsx"
	Reason string
	Err    error
}

func (e *DocumentUnreadableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s document unreadable: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s document unreadable: %s", e.Source, e.Reason)
}

func (e *DocumentUnreadableError) Unwrap() error {
	return e.Err
}

// NoTransactionsError indicates extraction succeeded but no line or row
// matched any transaction pattern. Distinct from DocumentUnreadableError so
// the caller can tell a readable-but-unparseable file apart from a bad one.
type NoTransactionsError struct {
	Source string
}

func (e *NoTransactionsError) Error() string {
	return fmt.Sprintf("no transactions found in %s document", e.Source)
}

// ParseError represents a failure while parsing a specific field or unit.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v", e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReviewIncompleteError is returned when a commit is attempted while zero
// ledger entries are eligible.
type ReviewIncompleteError struct {
	NeedsReview int
}

func (e *ReviewIncompleteError) Error() string {
	return fmt.Sprintf("no transactions ready to import: %d entries still need review", e.NeedsReview)
}

// CommitError wraps a failure reported by the external persistence sink.
// The ledger is retained unmodified so the caller can retry.
type CommitError struct {
	Attempted int
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("bulk insert of %d transactions failed: %v", e.Attempted, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

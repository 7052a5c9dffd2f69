// Package session orchestrates one import flow end to end: extract drafts
// from an uploaded document, hold them in the review ledger, and commit the
// eligible ones to the store in a single batch.
package session

import (
	"context"
	"fmt"
	"io"

	"financeapp/statement-import/internal/categorizer"
	"financeapp/statement-import/internal/ledger"
	"financeapp/statement-import/internal/logging"
	"financeapp/statement-import/internal/models"
	"financeapp/statement-import/internal/parsererror"
	"financeapp/statement-import/internal/pdfparser"
	"financeapp/statement-import/internal/store"
	"financeapp/statement-import/internal/xlsxparser"
)

// Source identifies the uploaded document kind.
type Source string

const (
	SourcePDF  Source = "pdf"
	SourceXLSX Source = "xlsx"
)

// ImportSession drives a single extract-review-commit cycle. It is not safe
// for concurrent use.
type ImportSession struct {
	store  store.Store
	pdf    *pdfparser.Parser
	xlsx   *xlsxparser.Parser
	ledger *ledger.Ledger
	logger logging.Logger

	// Reference data captured at extraction time so the review surface can
	// populate its selection options without another store round trip.
	categories []models.Category
	accounts   []models.Account
}

// Option configures an ImportSession.
type Option func(*ImportSession)

// WithPDFParser substitutes the PDF parser, mainly for tests.
func WithPDFParser(p *pdfparser.Parser) Option {
	return func(s *ImportSession) {
		s.pdf = p
	}
}

// WithXLSXParser substitutes the spreadsheet parser.
func WithXLSXParser(p *xlsxparser.Parser) Option {
	return func(s *ImportSession) {
		s.xlsx = p
	}
}

// New creates an ImportSession backed by the given store.
func New(st store.Store, logger logging.Logger, opts ...Option) *ImportSession {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	cat := categorizer.New(nil, logger)
	s := &ImportSession{
		store:  st,
		pdf:    pdfparser.New(cat, logger),
		xlsx:   xlsxparser.New(cat, logger),
		ledger: ledger.New(logger),
		logger: logger.WithField("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ledger exposes the review ledger for field updates, edits and deletes.
func (s *ImportSession) Ledger() *ledger.Ledger {
	return s.ledger
}

// Accounts returns the account list captured at extraction time.
func (s *ImportSession) Accounts() []models.Account {
	return s.accounts
}

// CategoryOptions returns the top-level categories offered for assignment
// during review.
func (s *ImportSession) CategoryOptions() []models.Category {
	return models.TopLevelCategories(s.categories)
}

// SubcategoryOptions returns the children of one category, for the
// sub-category picker shown once a parent is assigned.
func (s *ImportSession) SubcategoryOptions(parentID string) []models.Category {
	return models.Subcategories(s.categories, parentID)
}

// Extract parses the uploaded document and loads the resulting drafts into
// the ledger, replacing any previous extraction. On a parse failure the
// ledger is left untouched.
func (s *ImportSession) Extract(ctx context.Context, r io.Reader, source Source) (ledger.Summary, error) {
	categories, err := s.store.ListCategories()
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("failed to load categories: %w", err)
	}
	accounts, err := s.store.ListAccounts()
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	var drafts []models.DraftTransaction
	switch source {
	case SourcePDF:
		drafts, err = s.pdf.Parse(ctx, r, categories, accounts)
	case SourceXLSX:
		drafts, err = s.xlsx.Parse(ctx, r, categories, accounts)
	default:
		return ledger.Summary{}, fmt.Errorf("unsupported source %q", source)
	}
	if err != nil {
		return ledger.Summary{}, err
	}

	s.categories = categories
	s.accounts = accounts
	s.ledger.Load(drafts)
	summary := s.ledger.Summary()
	s.logger.WithFields(
		logging.Field{Key: "source", Value: string(source)},
		logging.Field{Key: "total", Value: summary.Total},
		logging.Field{Key: "needs_review", Value: summary.NeedsReviewCount},
	).Info("Extraction complete")
	return summary, nil
}

// Commit writes every eligible ledger entry to the store in one batch and
// returns the number committed. With zero eligible entries it refuses with a
// ReviewIncompleteError. On a sink failure the ledger is retained unmodified
// so the commit can be retried; on success it is cleared.
func (s *ImportSession) Commit() (int, error) {
	eligible := s.ledger.Eligible()
	if len(eligible) == 0 {
		return 0, &parsererror.ReviewIncompleteError{
			NeedsReview: s.ledger.Summary().NeedsReviewCount,
		}
	}

	batch := make([]models.CanonicalTransaction, 0, len(eligible))
	for i := range eligible {
		batch = append(batch, eligible[i].Canonical())
	}

	if err := s.store.BulkInsertTransactions(batch); err != nil {
		s.logger.WithError(err).Error("Bulk insert failed, ledger retained")
		return 0, &parsererror.CommitError{Attempted: len(batch), Err: err}
	}

	s.ledger.Clear()
	s.logger.Info("Committed transactions",
		logging.Field{Key: "count", Value: len(batch)})
	return len(batch), nil
}

// Cancel discards the ledger without committing anything.
func (s *ImportSession) Cancel() {
	s.ledger.Clear()
	s.logger.Info("Import cancelled")
}

// Package pdfparser extracts draft transactions from text-based PDF bank
// statements. Extraction is heuristic and fails open: unmatched lines are
// dropped, never fatal.
package pdfparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"financeapp/statement-import/internal/categorizer"
	"financeapp/statement-import/internal/dateutils"
	"financeapp/statement-import/internal/logging"
	"financeapp/statement-import/internal/models"
	"financeapp/statement-import/internal/parsererror"
)

// A document shorter than this after extraction is treated as unreadable
// (scanned or empty PDF).
const minDocumentLength = 100

// DefaultMinLineLength is the shortest line considered for pattern matching.
const DefaultMinLineLength = 10

// Parser turns PDF statement text into draft transactions.
type Parser struct {
	extractor          Extractor
	categorizer        *categorizer.Categorizer
	logger             logging.Logger
	minLineLength      int
	transfersAsExpense bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithExtractor substitutes the text extractor, mainly for tests.
func WithExtractor(e Extractor) Option {
	return func(p *Parser) {
		p.extractor = e
	}
}

// WithMinLineLength overrides the minimum line length skip rule.
func WithMinLineLength(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.minLineLength = n
		}
	}
}

// WithTransfersAsExpense controls how transfer/internal lines are typed.
// True (the default) keeps them as expenses with the skip flag set; false
// surfaces them as the distinct transfer type, matching the spreadsheet
// pipeline.
func WithTransfersAsExpense(v bool) Option {
	return func(p *Parser) {
		p.transfersAsExpense = v
	}
}

// New creates a Parser. A nil categorizer uses the default mapping table;
// a nil logger uses the default adapter.
func New(cat *categorizer.Categorizer, logger logging.Logger, opts ...Option) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if cat == nil {
		cat = categorizer.New(nil, logger)
	}
	p := &Parser{
		extractor:          NewRealExtractor(),
		categorizer:        cat,
		logger:             logger.WithField("component", "pdfparser"),
		minLineLength:      DefaultMinLineLength,
		transfersAsExpense: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts draft transactions from the PDF supplied on r. The caller's
// categories drive keyword matching; drafts default to the first account.
func (p *Parser) Parse(ctx context.Context, r io.Reader, categories []models.Category, accounts []models.Account) ([]models.DraftTransaction, error) {
	text, err := p.extractText(r)
	if err != nil {
		return nil, err
	}

	if len(text) < minDocumentLength {
		return nil, &parsererror.DocumentUnreadableError{
			Source: "pdf",
			Reason: "no extractable text; the file may be scanned or empty",
		}
	}

	drafts := p.parseText(ctx, text, categories, accounts)
	if len(drafts) == 0 {
		return nil, &parsererror.NoTransactionsError{Source: "pdf"}
	}

	p.logger.Info("Extracted transactions from PDF",
		logging.Field{Key: "count", Value: len(drafts)})
	return drafts, nil
}

// extractText spools the reader to a temporary file for the extractor.
func (p *Parser) extractText(r io.Reader) (string, error) {
	tempFile, err := os.CreateTemp("", "*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			p.logger.WithError(err).Warn("Failed to remove temporary file",
				logging.Field{Key: "file", Value: tempFile.Name()})
		}
	}()

	if _, err := io.Copy(tempFile, r); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	text, err := p.extractor.ExtractText(tempFile.Name())
	if err != nil {
		return "", &parsererror.DocumentUnreadableError{
			Source: "pdf",
			Reason: "not a valid or readable PDF",
			Err:    err,
		}
	}
	return text, nil
}

// parseText runs the line pipeline: clean, skip noise, match patterns,
// normalize dates, categorize.
func (p *Parser) parseText(ctx context.Context, text string, categories []models.Category, accounts []models.Account) []models.DraftTransaction {
	currentYear := time.Now().Year()
	accountID := ""
	if len(accounts) > 0 {
		accountID = accounts[0].ID
	}

	var drafts []models.DraftTransaction
	for _, raw := range strings.Split(text, "\n") {
		line := collapseWhitespace(strings.TrimSpace(raw))
		if len(line) <= 5 {
			continue
		}
		if isNoiseLine(line, p.minLineLength) {
			continue
		}

		parsed, ok := parseLine(line)
		if !ok {
			continue
		}

		draft := p.buildDraft(ctx, parsed, currentYear, categories, accountID)
		p.logger.WithFields(
			logging.Field{Key: "description", Value: draft.Note},
			logging.Field{Key: "amount", Value: draft.Amount.String()},
			logging.Field{Key: "type", Value: draft.Type},
		).Debug("Parsed statement line")
		drafts = append(drafts, draft)
	}
	return drafts
}

// buildDraft normalizes the date and categorizes the parsed line. Income
// lines skip categorization entirely.
func (p *Parser) buildDraft(ctx context.Context, parsed parsedLine, fallbackYear int, categories []models.Category, accountID string) models.DraftTransaction {
	draft := models.DraftTransaction{
		ID:        models.NewDraftID(),
		Note:      parsed.description,
		Amount:    parsed.amount,
		Type:      parsed.txType,
		AccountID: accountID,
	}

	if parsed.dateToken == "" {
		draft.Date = time.Now().Format(dateutils.DateLayoutISO)
		draft.DateGuessed = true
	} else {
		draft.Date, draft.DateGuessed = dateutils.Normalize(parsed.dateToken, fallbackYear)
	}

	if draft.Type == models.TypeIncome {
		draft.Confidence = models.ConfidenceHigh
		draft.NeedsReview = false
		return draft
	}

	result := p.categorizer.Categorize(ctx, draft.Note, categories)
	if result.Category != nil {
		draft.CategoryID = result.Category.ID
	}
	draft.SuggestedName = result.Suggestion
	draft.Confidence = result.Confidence
	draft.SkipCategory = result.SkipCategory
	draft.SuggestNewCategory = result.SuggestNewCategory
	if result.SkipCategory && !p.transfersAsExpense {
		draft.Type = models.TypeTransfer
		draft.IsTransfer = true
		draft.SkipCategory = false
	}
	draft.RecomputeNeedsReview()
	return draft
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package xlsxparser extracts draft transactions from spreadsheet bank
// statement exports. The first sheet is read; the header row must name at
// least Date, Description and Amount columns. A Type column, if present, is
// not authoritative: direction is inferred from the description.
package xlsxparser

import (
	"context"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"financeapp/statement-import/internal/categorizer"
	"financeapp/statement-import/internal/dateutils"
	"financeapp/statement-import/internal/logging"
	"financeapp/statement-import/internal/models"
	"financeapp/statement-import/internal/parsererror"
)

// Parser turns spreadsheet rows into draft transactions.
type Parser struct {
	categorizer *categorizer.Categorizer
	logger      logging.Logger
}

// New creates a Parser. A nil categorizer uses the default mapping table;
// a nil logger uses the default adapter.
func New(cat *categorizer.Categorizer, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if cat == nil {
		cat = categorizer.New(nil, logger)
	}
	return &Parser{
		categorizer: cat,
		logger:      logger.WithField("component", "xlsxparser"),
	}
}

// Parse extracts draft transactions from the workbook supplied on r.
func (p *Parser) Parse(ctx context.Context, r io.Reader, categories []models.Category, accounts []models.Account) ([]models.DraftTransaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &parsererror.DocumentUnreadableError{
			Source: "xlsx",
			Reason: "not a valid workbook",
			Err:    err,
		}
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &parsererror.DocumentUnreadableError{Source: "xlsx", Reason: "workbook has no sheets"}
	}

	// Raw cell values keep serial dates numeric instead of style-formatted.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &parsererror.DocumentUnreadableError{
			Source: "xlsx",
			Reason: "failed to read first sheet",
			Err:    err,
		}
	}
	if len(rows) < 2 {
		return nil, &parsererror.DocumentUnreadableError{Source: "xlsx", Reason: "no data rows under the header"}
	}

	cols := headerColumns(rows[0])
	accountID := ""
	if len(accounts) > 0 {
		accountID = accounts[0].ID
	}

	var drafts []models.DraftTransaction
	for _, row := range rows[1:] {
		draft, ok := p.parseRow(ctx, row, cols, categories, accountID)
		if !ok {
			continue
		}
		drafts = append(drafts, draft)
	}

	if len(drafts) == 0 {
		return nil, &parsererror.NoTransactionsError{Source: "xlsx"}
	}

	p.logger.Info("Extracted transactions from workbook",
		logging.Field{Key: "count", Value: len(drafts)})
	return drafts, nil
}

// columnIndex maps the named columns to their positions; -1 means absent.
type columnIndex struct {
	date, description, amount int
}

func headerColumns(header []string) columnIndex {
	cols := columnIndex{date: -1, description: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "description":
			cols.description = i
		case "amount":
			cols.amount = i
		}
	}
	return cols
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow applies the rejection rules and maps one row to a draft.
// Rejected rows are silently excluded, they are not errors.
func (p *Parser) parseRow(ctx context.Context, row []string, cols columnIndex, categories []models.Category, accountID string) (models.DraftTransaction, bool) {
	dateCell := cell(row, cols.date)
	amountCell := cell(row, cols.amount)
	description := cell(row, cols.description)

	if dateCell == "" || amountCell == "" {
		return models.DraftTransaction{}, false
	}
	descLower := strings.ToLower(description)
	if strings.Contains(descLower, "beginning balance") || strings.Contains(descLower, "ending balance") {
		return models.DraftTransaction{}, false
	}

	// Direction comes from categorization, never from the sign of the
	// source value: the magnitude is stored absolute.
	amount, err := decimal.NewFromString(strings.NewReplacer("$", "", ",", "").Replace(amountCell))
	if err != nil {
		parseErr := &parsererror.ParseError{Parser: "xlsx", Field: "amount", Value: amountCell, Err: err}
		p.logger.WithError(parseErr).Debug("Dropping row with unparseable amount")
		return models.DraftTransaction{}, false
	}

	date, ok := dateutils.ParseCell(dateCell)
	if !ok {
		p.logger.Debug("Dropping row with unresolvable date",
			logging.Field{Key: "date", Value: dateCell})
		return models.DraftTransaction{}, false
	}

	draft := models.DraftTransaction{
		ID:        models.NewDraftID(),
		Note:      description,
		Amount:    amount.Abs(),
		Date:      date,
		AccountID: accountID,
	}

	switch p.categorizer.DetectKind(description) {
	case categorizer.KindIncome:
		draft.Type = models.TypeIncome
		draft.Confidence = models.ConfidenceHigh
		return draft, true
	case categorizer.KindTransfer:
		draft.Type = models.TypeTransfer
		draft.IsTransfer = true
		draft.Confidence = models.ConfidenceLow
		draft.SuggestedName = models.SuggestionTransferInternal
		return draft, true
	}

	draft.Type = models.TypeExpense
	result := p.categorizer.Categorize(ctx, description, categories)
	if result.Category != nil {
		draft.CategoryID = result.Category.ID
	}
	draft.SuggestedName = result.Suggestion
	draft.Confidence = result.Confidence
	draft.SkipCategory = result.SkipCategory
	draft.SuggestNewCategory = result.SuggestNewCategory
	draft.RecomputeNeedsReview()
	return draft, true
}

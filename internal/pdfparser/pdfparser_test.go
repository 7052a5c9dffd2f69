package pdfparser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeapp/statement-import/internal/dateutils"
	"financeapp/statement-import/internal/models"
	"financeapp/statement-import/internal/parsererror"
)

const sampleStatement = `FIRST NATIONAL BANK
Statement Period: Sep 1 - Sep 30
Date Description Withdrawal Deposit Balance
TIM HORTONS 5.99 SEP02
UBER TRIP TORONTO 12.50 SEP03
E-TRANSFER RECEIVED 500.00 SEP15
UNKNOWN MERCHANT LTD 42.00 SEP05
BALANCE FORWARD 1,000.00
Page 1
`

func testCategories() []models.Category {
	return []models.Category{
		{ID: "cat-food", Name: "Food"},
		{ID: "cat-transport", Name: "Transport"},
	}
}

func testAccounts() []models.Account {
	return []models.Account{{ID: "acc-1", Name: "Chequing"}}
}

func newTestParser(text string, err error) *Parser {
	return New(nil, nil, WithExtractor(NewMockExtractor(text, err)))
}

func TestParseSampleStatement(t *testing.T) {
	p := newTestParser(sampleStatement, nil)

	drafts, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4"), testCategories(), testAccounts())
	require.NoError(t, err)
	require.Len(t, drafts, 4)

	year := time.Now().Year()

	coffee := drafts[0]
	assert.Equal(t, "TIM HORTONS", coffee.Note)
	assert.Equal(t, "5.99", coffee.Amount.String())
	assert.Equal(t, fmt.Sprintf("%d-09-02", year), coffee.Date)
	assert.Equal(t, models.TypeExpense, coffee.Type)
	assert.Equal(t, "cat-food", coffee.CategoryID)
	assert.Equal(t, models.ConfidenceHigh, coffee.Confidence)
	assert.Equal(t, "acc-1", coffee.AccountID)
	assert.False(t, coffee.NeedsReview)
	assert.False(t, coffee.DateGuessed)
	assert.NotEmpty(t, coffee.ID)

	ride := drafts[1]
	assert.Equal(t, "cat-transport", ride.CategoryID)
	assert.False(t, ride.NeedsReview)

	payout := drafts[2]
	assert.Equal(t, models.TypeIncome, payout.Type)
	assert.Equal(t, "500", payout.Amount.String())
	assert.Equal(t, models.ConfidenceHigh, payout.Confidence)
	assert.Empty(t, payout.CategoryID)
	assert.False(t, payout.NeedsReview)

	unknown := drafts[3]
	assert.Equal(t, models.TypeExpense, unknown.Type)
	assert.Empty(t, unknown.CategoryID)
	assert.Equal(t, models.SuggestionUncategorized, unknown.SuggestedName)
	assert.True(t, unknown.NeedsReview)
}

func TestParseMissingDateIsGuessed(t *testing.T) {
	text := sampleStatement + "GROCERY MART SPECIAL ORDER 33.10\n"
	p := newTestParser(text, nil)

	drafts, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4"), testCategories(), testAccounts())
	require.NoError(t, err)

	last := drafts[len(drafts)-1]
	assert.Equal(t, "GROCERY MART SPECIAL ORDER", last.Note)
	assert.True(t, last.DateGuessed)
	assert.Equal(t, time.Now().Format(dateutils.DateLayoutISO), last.Date)
}

func TestParseShortDocumentUnreadable(t *testing.T) {
	p := newTestParser("only a few words", nil)

	_, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4"), testCategories(), testAccounts())
	var docErr *parsererror.DocumentUnreadableError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, "pdf", docErr.Source)
}

func TestParseExtractorFailure(t *testing.T) {
	cause := errors.New("encrypted document")
	p := newTestParser("", cause)

	_, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4"), testCategories(), testAccounts())
	var docErr *parsererror.DocumentUnreadableError
	require.ErrorAs(t, err, &docErr)
	assert.ErrorIs(t, err, cause)
}

func TestParseNoTransactions(t *testing.T) {
	noise := strings.Repeat("Statement Period: Sep 1 - Sep 30\n", 5)
	p := newTestParser(noise, nil)

	_, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4"), testCategories(), testAccounts())
	var noTxErr *parsererror.NoTransactionsError
	require.ErrorAs(t, err, &noTxErr)
}

func TestParseTransferTyping(t *testing.T) {
	text := sampleStatement + "TRANSFER TO SAVINGS 200.00 SEP10\n"

	t.Run("default keeps transfers as skip-category expenses", func(t *testing.T) {
		p := newTestParser(text, nil)
		drafts, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4"), testCategories(), testAccounts())
		require.NoError(t, err)

		transfer := drafts[len(drafts)-1]
		assert.Equal(t, models.TypeExpense, transfer.Type)
		assert.True(t, transfer.SkipCategory)
		assert.False(t, transfer.IsTransfer)
		assert.False(t, transfer.NeedsReview)
		assert.Equal(t, models.SuggestionTransferInternal, transfer.SuggestedName)
	})

	t.Run("opt-in distinct transfer type", func(t *testing.T) {
		p := New(nil, nil,
			WithExtractor(NewMockExtractor(text, nil)),
			WithTransfersAsExpense(false))
		drafts, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4"), testCategories(), testAccounts())
		require.NoError(t, err)

		transfer := drafts[len(drafts)-1]
		assert.Equal(t, models.TypeTransfer, transfer.Type)
		assert.True(t, transfer.IsTransfer)
		assert.False(t, transfer.SkipCategory)
		assert.True(t, transfer.Eligible())
	})
}

func TestParseWithoutAccountsLeavesAccountEmpty(t *testing.T) {
	p := newTestParser(sampleStatement, nil)

	drafts, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4"), testCategories(), nil)
	require.NoError(t, err)
	assert.Empty(t, drafts[0].AccountID)
}

package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeapp/statement-import/internal/ledger"
	"financeapp/statement-import/internal/models"
	"financeapp/statement-import/internal/parsererror"
	"financeapp/statement-import/internal/pdfparser"
	"financeapp/statement-import/internal/store"
)

const sampleStatement = `FIRST NATIONAL BANK
Statement Period: Sep 1 - Sep 30
TIM HORTONS 5.99 SEP02
UBER TRIP TORONTO 12.50 SEP03
E-TRANSFER RECEIVED 500.00 SEP15
UNKNOWN MERCHANT LTD 42.00 SEP05
`

const unreviewableStatement = `FIRST NATIONAL BANK
Statement Period: Sep 1 - Sep 30
Statement Period: Sep 1 - Sep 30
ZZGADGET EMPORIUM 45.00 SEP02
`

func newTestStore() *store.MockStore {
	st := store.NewMockStore()
	st.Categories = []models.Category{
		{ID: "cat-food", Name: "Food"},
		{ID: "cat-transport", Name: "Transport"},
		{ID: "cat-coffee", Name: "Coffee", ParentID: "cat-food"},
	}
	st.Accounts = []models.Account{{ID: "acc-1", Name: "Chequing"}}
	return st
}

func newTestSession(st store.Store, statementText string) *ImportSession {
	parser := pdfparser.New(nil, nil,
		pdfparser.WithExtractor(pdfparser.NewMockExtractor(statementText, nil)))
	return New(st, nil, WithPDFParser(parser))
}

func extract(t *testing.T, s *ImportSession) {
	t.Helper()
	_, err := s.Extract(context.Background(), strings.NewReader("%PDF-1.4"), SourcePDF)
	require.NoError(t, err)
}

func TestExtractLoadsLedger(t *testing.T) {
	s := newTestSession(newTestStore(), sampleStatement)

	summary, err := s.Extract(context.Background(), strings.NewReader("%PDF-1.4"), SourcePDF)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.ReadyCount)
	assert.Equal(t, 1, summary.NeedsReviewCount)
	assert.Equal(t, 4, s.Ledger().Len())
}

func TestExtractCapturesReferenceData(t *testing.T) {
	s := newTestSession(newTestStore(), sampleStatement)
	extract(t, s)

	options := s.CategoryOptions()
	require.Len(t, options, 2)
	assert.Equal(t, "cat-food", options[0].ID)
	assert.Equal(t, "cat-transport", options[1].ID)

	subs := s.SubcategoryOptions("cat-food")
	require.Len(t, subs, 1)
	assert.Equal(t, "cat-coffee", subs[0].ID)
	assert.Empty(t, s.SubcategoryOptions("cat-transport"))

	accounts := s.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, "acc-1", accounts[0].ID)
}

func TestExtractUnsupportedSource(t *testing.T) {
	s := newTestSession(newTestStore(), sampleStatement)

	_, err := s.Extract(context.Background(), strings.NewReader(""), Source("csv"))
	assert.Error(t, err)
}

func TestExtractParseFailureLeavesLedgerUntouched(t *testing.T) {
	st := newTestStore()
	s := newTestSession(st, sampleStatement)
	extract(t, s)

	// Re-extract with an unreadable document; the previous drafts survive.
	failing := pdfparser.New(nil, nil,
		pdfparser.WithExtractor(pdfparser.NewMockExtractor("", errors.New("encrypted"))))
	WithPDFParser(failing)(s)

	_, err := s.Extract(context.Background(), strings.NewReader("%PDF-1.4"), SourcePDF)
	assert.Error(t, err)
	assert.Equal(t, 4, s.Ledger().Len())
}

func TestCommitEligibleOnly(t *testing.T) {
	st := newTestStore()
	s := newTestSession(st, sampleStatement)
	extract(t, s)

	count, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, st.Inserted, 3)

	// The needs-review draft was excluded and the ledger cleared.
	assert.Equal(t, 0, s.Ledger().Len())

	var incomeCount int
	for _, tx := range st.Inserted {
		if tx.Type == models.TypeIncome {
			incomeCount++
			assert.Empty(t, tx.Category)
		}
		assert.Equal(t, "acc-1", tx.AccountID)
	}
	assert.Equal(t, 1, incomeCount)
}

func TestCommitRefusesWithZeroEligible(t *testing.T) {
	st := newTestStore()
	s := newTestSession(st, unreviewableStatement)
	extract(t, s)

	_, err := s.Commit()
	var reviewErr *parsererror.ReviewIncompleteError
	require.ErrorAs(t, err, &reviewErr)
	assert.Equal(t, 1, reviewErr.NeedsReview)
	assert.Equal(t, 0, st.InsertCalls)
	assert.Equal(t, 1, s.Ledger().Len())
}

func TestCommitAfterResolvingReview(t *testing.T) {
	st := newTestStore()
	s := newTestSession(st, unreviewableStatement)
	extract(t, s)

	entries := s.Ledger().Entries()
	require.Len(t, entries, 1)

	category := "cat-food"
	require.NoError(t, s.Ledger().UpdateField(entries[0].ID, ledger.Patch{CategoryID: &category}))

	count, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, st.Inserted, 1)
	assert.Equal(t, "cat-food", st.Inserted[0].Category)
}

func TestCommitSinkFailureRetainsLedger(t *testing.T) {
	st := newTestStore()
	st.InsertErr = errors.New("backend unavailable")
	s := newTestSession(st, sampleStatement)
	extract(t, s)

	_, err := s.Commit()
	var commitErr *parsererror.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, 3, commitErr.Attempted)
	assert.Equal(t, 4, s.Ledger().Len())

	// The commit is retryable once the backend recovers.
	st.InsertErr = nil
	count, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, s.Ledger().Len())
}

func TestCancelDiscardsLedger(t *testing.T) {
	st := newTestStore()
	s := newTestSession(st, sampleStatement)
	extract(t, s)

	s.Cancel()
	assert.Equal(t, 0, s.Ledger().Len())
	assert.Equal(t, 0, st.InsertCalls)
}

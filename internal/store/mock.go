package store

import (
	"financeapp/statement-import/internal/models"
)

// MockStore is an in-memory Store for tests. InsertErr, when set, is returned
// by BulkInsertTransactions without recording the batch.
type MockStore struct {
	Categories []models.Category
	Accounts   []models.Account
	Inserted   []models.CanonicalTransaction

	CategoriesErr error
	AccountsErr   error
	InsertErr     error

	InsertCalls int
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// ListCategories returns the canned category list.
func (m *MockStore) ListCategories() ([]models.Category, error) {
	if m.CategoriesErr != nil {
		return nil, m.CategoriesErr
	}
	return m.Categories, nil
}

// ListAccounts returns the canned account list.
func (m *MockStore) ListAccounts() ([]models.Account, error) {
	if m.AccountsErr != nil {
		return nil, m.AccountsErr
	}
	return m.Accounts, nil
}

// BulkInsertTransactions records the batch, or fails atomically when
// InsertErr is set.
func (m *MockStore) BulkInsertTransactions(transactions []models.CanonicalTransaction) error {
	m.InsertCalls++
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Inserted = append(m.Inserted, transactions...)
	return nil
}

package models

import "github.com/shopspring/decimal"

// CanonicalTransaction is the shape handed to the external persistence
// collaborator on bulk insert. Category is empty for income and
// transfer/internal rows.
type CanonicalTransaction struct {
	Type      string          `csv:"type" yaml:"type"`
	Amount    decimal.Decimal `csv:"amount" yaml:"amount"`
	Date      string          `csv:"date" yaml:"date"`
	Note      string          `csv:"note" yaml:"note"`
	AccountID string          `csv:"account_id" yaml:"account_id"`
	Category  string          `csv:"category" yaml:"category"`
}

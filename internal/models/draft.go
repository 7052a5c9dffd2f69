// Package models provides the data structures shared across the import
// pipeline: draft transactions under review, the canonical transaction shape
// handed to the persistence sink, and the read-only reference entities.
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftTransaction is a parsed, not-yet-committed transaction held in the
// review ledger until commit or discard. Amount is always a non-negative
// magnitude; direction is a function of Type alone.
type DraftTransaction struct {
	ID   string
	Note string

	Amount decimal.Decimal
	Date   string // YYYY-MM-DD
	Type   string // income, expense or transfer

	AccountID     string
	CategoryID    string
	SubCategoryID string

	// SuggestedName is the human-readable label for the categorizer's guess,
	// shown when no existing category matched ("Food", "Transfer/Internal",
	// "Uncategorized").
	SuggestedName string
	Confidence    string

	// SkipCategory marks transfer/internal rows that never require a
	// category. IsTransfer is the spreadsheet path's explicit transfer tag;
	// both feed the same eligibility rule.
	SkipCategory bool
	IsTransfer   bool

	// SuggestNewCategory means a merchant pattern was recognized but no
	// matching category exists in the caller's list.
	SuggestNewCategory bool

	// DateGuessed is set when the normalizer fell back to the current date.
	DateGuessed bool

	NeedsReview bool
}

// NewDraftID returns a session-unique identifier for a draft.
func NewDraftID() string {
	return uuid.NewString()
}

// RecomputeNeedsReview derives the review flag from the current type and
// category assignment. Income and skip/transfer rows never need review.
func (d *DraftTransaction) RecomputeNeedsReview() {
	d.NeedsReview = d.Type == TypeExpense &&
		!d.SkipCategory && !d.IsTransfer &&
		d.CategoryID == ""
}

// Eligible reports whether the draft may enter a bulk commit: income rows,
// skip-category/transfer rows, and reviewed expenses with a category.
func (d *DraftTransaction) Eligible() bool {
	if d.Type == TypeIncome || d.SkipCategory || d.IsTransfer {
		return true
	}
	return d.CategoryID != "" && !d.NeedsReview
}

// SignedAmount returns the amount with direction applied: positive for
// income, negative otherwise.
func (d *DraftTransaction) SignedAmount() decimal.Decimal {
	if d.Type == TypeIncome {
		return d.Amount
	}
	return d.Amount.Neg()
}

// Canonical maps the draft to the minimal shape handed to the persistence
// sink. The sub-category, where present, takes precedence over the parent.
func (d *DraftTransaction) Canonical() CanonicalTransaction {
	category := ""
	if d.Type == TypeExpense && !d.SkipCategory {
		category = d.CategoryID
		if d.SubCategoryID != "" {
			category = d.SubCategoryID
		}
	}
	return CanonicalTransaction{
		Type:      d.Type,
		Amount:    d.Amount,
		Date:      d.Date,
		Note:      d.Note,
		AccountID: d.AccountID,
		Category:  category,
	}
}

package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecomputeNeedsReview(t *testing.T) {
	tests := []struct {
		name  string
		draft DraftTransaction
		want  bool
	}{
		{"uncategorized expense", DraftTransaction{Type: TypeExpense}, true},
		{"categorized expense", DraftTransaction{Type: TypeExpense, CategoryID: "cat-food"}, false},
		{"skip category expense", DraftTransaction{Type: TypeExpense, SkipCategory: true}, false},
		{"transfer row", DraftTransaction{Type: TypeTransfer, IsTransfer: true}, false},
		{"income", DraftTransaction{Type: TypeIncome}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.draft.RecomputeNeedsReview()
			assert.Equal(t, tt.want, tt.draft.NeedsReview)
		})
	}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name  string
		draft DraftTransaction
		want  bool
	}{
		{"income always eligible", DraftTransaction{Type: TypeIncome}, true},
		{"skip category eligible", DraftTransaction{Type: TypeExpense, SkipCategory: true}, true},
		{"transfer eligible", DraftTransaction{Type: TypeTransfer, IsTransfer: true}, true},
		{"categorized expense eligible", DraftTransaction{Type: TypeExpense, CategoryID: "cat-food"}, true},
		{"uncategorized expense not eligible", DraftTransaction{Type: TypeExpense, NeedsReview: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.draft.Eligible())
		})
	}
}

func TestSignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("10.50")

	income := DraftTransaction{Type: TypeIncome, Amount: amount}
	assert.Equal(t, "10.5", income.SignedAmount().String())

	expense := DraftTransaction{Type: TypeExpense, Amount: amount}
	assert.Equal(t, "-10.5", expense.SignedAmount().String())
}

func TestCanonicalSubCategoryPrecedence(t *testing.T) {
	d := DraftTransaction{
		Type:          TypeExpense,
		Amount:        decimal.RequireFromString("5.99"),
		Date:          "2025-09-02",
		Note:          "TIM HORTONS",
		AccountID:     "acc-1",
		CategoryID:    "cat-food",
		SubCategoryID: "cat-coffee",
	}

	tx := d.Canonical()
	assert.Equal(t, "cat-coffee", tx.Category)
	assert.Equal(t, "acc-1", tx.AccountID)
}

func TestCanonicalClearsCategoryForNonExpenses(t *testing.T) {
	income := DraftTransaction{Type: TypeIncome, CategoryID: "cat-food"}
	assert.Empty(t, income.Canonical().Category)

	skipped := DraftTransaction{Type: TypeExpense, SkipCategory: true, CategoryID: "cat-food"}
	assert.Empty(t, skipped.Canonical().Category)
}

func TestNewDraftIDUnique(t *testing.T) {
	assert.NotEqual(t, NewDraftID(), NewDraftID())
	assert.NotEmpty(t, NewDraftID())
}

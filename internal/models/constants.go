package models

// Transaction types. Direction is carried by the type, never by the sign of
// the stored amount.
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

// Confidence levels attached to a categorization guess.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Category budget types.
const (
	CategoryTypeNeed = "need"
	CategoryTypeWant = "want"
)

// SuggestionUncategorized is the label used when no keyword mapping matched.
const SuggestionUncategorized = "Uncategorized"

// SuggestionTransferInternal is the label used for transfer/internal rows
// that never require a category.
const SuggestionTransferInternal = "Transfer/Internal"

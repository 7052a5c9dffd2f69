// Package ledger holds parsed draft transactions during review. Entries are
// keyed by id with an auxiliary ordered list so edits are O(1) while display
// order is preserved. At most one entry is in edit mode at a time; edits are
// staged in a scratch copy and applied only on commit.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"financeapp/statement-import/internal/logging"
	"financeapp/statement-import/internal/models"
)

// Patch is a partial update to one entry; nil fields are left unchanged.
type Patch struct {
	Note          *string
	Amount        *decimal.Decimal
	Date          *string
	Type          *string
	CategoryID    *string
	SubCategoryID *string
	AccountID     *string
}

// Summary aggregates the current ledger state for the review screen.
// NetAmount spans all entries, not just ready ones.
type Summary struct {
	Total            int
	ReadyCount       int
	NeedsReviewCount int
	GuessedDateCount int
	NetAmount        decimal.Decimal
}

// Ledger is the in-memory review collection. It is not safe for concurrent
// use; the review flow is single-user and sequential.
type Ledger struct {
	entries map[string]*models.DraftTransaction
	order   []string

	editingID string
	scratch   *models.DraftTransaction

	logger logging.Logger
}

// New creates an empty ledger.
func New(logger logging.Logger) *Ledger {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Ledger{
		entries: make(map[string]*models.DraftTransaction),
		logger:  logger.WithField("component", "ledger"),
	}
}

// Load replaces the ledger contents with the given drafts, preserving their
// order. Any active edit is discarded.
func (l *Ledger) Load(drafts []models.DraftTransaction) {
	l.entries = make(map[string]*models.DraftTransaction, len(drafts))
	l.order = make([]string, 0, len(drafts))
	l.editingID = ""
	l.scratch = nil
	for i := range drafts {
		d := drafts[i]
		l.entries[d.ID] = &d
		l.order = append(l.order, d.ID)
	}
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Entries returns copies of all entries in display order.
func (l *Ledger) Entries() []models.DraftTransaction {
	out := make([]models.DraftTransaction, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.entries[id])
	}
	return out
}

// Get returns a copy of one entry.
func (l *Ledger) Get(id string) (models.DraftTransaction, bool) {
	entry, ok := l.entries[id]
	if !ok {
		return models.DraftTransaction{}, false
	}
	return *entry, true
}

// UpdateField merges a partial update into one entry. When the type or
// category changes, the review flag is recomputed; an explicit category
// change also clears the new-category suggestion and resets the
// sub-category unless the same patch sets one.
func (l *Ledger) UpdateField(id string, patch Patch) error {
	entry, ok := l.entries[id]
	if !ok {
		return fmt.Errorf("no draft transaction with id %s", id)
	}
	applyPatch(entry, patch)
	l.logger.WithField("id", id).Debug("Updated draft transaction")
	return nil
}

// Delete removes one entry. Deleting the entry under edit cancels the edit.
func (l *Ledger) Delete(id string) error {
	if _, ok := l.entries[id]; !ok {
		return fmt.Errorf("no draft transaction with id %s", id)
	}
	delete(l.entries, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	if l.editingID == id {
		l.editingID = ""
		l.scratch = nil
	}
	return nil
}

// StartEdit opens edit mode for one entry, staging a scratch copy. Only one
// entry may be edited at a time.
func (l *Ledger) StartEdit(id string) error {
	if l.editingID != "" {
		return fmt.Errorf("draft %s is already being edited", l.editingID)
	}
	entry, ok := l.entries[id]
	if !ok {
		return fmt.Errorf("no draft transaction with id %s", id)
	}
	scratch := *entry
	l.editingID = id
	l.scratch = &scratch
	return nil
}

// EditingID returns the id under edit, or empty.
func (l *Ledger) EditingID() string {
	return l.editingID
}

// UpdateEdit merges a patch into the scratch copy. The ledger entry is not
// touched until CommitEdit.
func (l *Ledger) UpdateEdit(patch Patch) error {
	if l.scratch == nil {
		return fmt.Errorf("no edit in progress")
	}
	applyPatch(l.scratch, patch)
	return nil
}

// CommitEdit applies the staged copy to the ledger and leaves edit mode.
func (l *Ledger) CommitEdit() error {
	if l.scratch == nil {
		return fmt.Errorf("no edit in progress")
	}
	if entry, ok := l.entries[l.editingID]; ok {
		*entry = *l.scratch
		entry.RecomputeNeedsReview()
	}
	l.editingID = ""
	l.scratch = nil
	return nil
}

// CancelEdit discards the staged copy and leaves edit mode.
func (l *Ledger) CancelEdit() {
	l.editingID = ""
	l.scratch = nil
}

// Eligible returns copies of the entries allowed into a bulk commit, in
// display order.
func (l *Ledger) Eligible() []models.DraftTransaction {
	var out []models.DraftTransaction
	for _, id := range l.order {
		if l.entries[id].Eligible() {
			out = append(out, *l.entries[id])
		}
	}
	return out
}

// Summary computes the review screen aggregates.
func (l *Ledger) Summary() Summary {
	s := Summary{Total: len(l.order), NetAmount: decimal.Zero}
	for _, id := range l.order {
		entry := l.entries[id]
		if entry.NeedsReview {
			s.NeedsReviewCount++
		} else {
			s.ReadyCount++
		}
		if entry.DateGuessed {
			s.GuessedDateCount++
		}
		s.NetAmount = s.NetAmount.Add(entry.SignedAmount())
	}
	return s
}

// Clear drops all entries, e.g. when the review is cancelled or after a
// successful commit.
func (l *Ledger) Clear() {
	l.Load(nil)
}

func applyPatch(entry *models.DraftTransaction, patch Patch) {
	if patch.Note != nil {
		entry.Note = *patch.Note
	}
	if patch.Amount != nil {
		entry.Amount = patch.Amount.Abs()
	}
	if patch.Date != nil {
		entry.Date = *patch.Date
		entry.DateGuessed = false
	}
	if patch.AccountID != nil {
		entry.AccountID = *patch.AccountID
	}
	if patch.Type != nil {
		entry.Type = *patch.Type
	}
	if patch.CategoryID != nil {
		entry.CategoryID = *patch.CategoryID
		entry.SuggestNewCategory = false
		if patch.SubCategoryID == nil {
			entry.SubCategoryID = ""
		}
	}
	if patch.SubCategoryID != nil {
		entry.SubCategoryID = *patch.SubCategoryID
	}
	if patch.Type != nil || patch.CategoryID != nil {
		entry.RecomputeNeedsReview()
	}
}

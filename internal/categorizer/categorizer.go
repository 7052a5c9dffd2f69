// Package categorizer classifies transaction descriptions against the
// caller's category list using an ordered keyword mapping table, with an
// optional AI fallback for descriptions no keyword covers.
package categorizer

import (
	"context"
	"regexp"
	"strings"

	"financeapp/statement-import/internal/logging"
	"financeapp/statement-import/internal/models"
)

// Result is the outcome of categorizing one description.
type Result struct {
	// Category is the matched top-level category, nil when none matched.
	Category *models.Category

	Confidence string
	Suggestion string

	// SkipCategory marks transfer/internal descriptions that never require
	// a category; no lookup is performed for them.
	SkipCategory bool

	// SuggestNewCategory means a merchant pattern was recognized but no
	// matching category exists in the supplied list.
	SuggestNewCategory bool
}

// Kind is the transaction direction inferred from a description alone, used
// by the spreadsheet pipeline where the source carries no reliable type.
type Kind string

const (
	KindIncome   Kind = models.TypeIncome
	KindTransfer Kind = models.TypeTransfer
	KindExpense  Kind = models.TypeExpense
)

// Internal-movement markers checked before any category lookup.
var (
	transferSubstrings = []string{"e-transfer", "e-tfr", "transfer", "deposit", "pts to"}
	transferCode       = regexp.MustCompile(`^(hx|hr)\d+`)

	incomeSubstrings  = []string{"deposit", "e-transfer", "claimsecure", "mobile deposit"}
	transferWordCodes = regexp.MustCompile(`\b(hx|hr)\d+\b`)
)

// Categorizer matches descriptions against an immutable mapping table.
type Categorizer struct {
	mappings []Mapping
	ai       AIClient
	logger   logging.Logger
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithAIClient enables the AI fallback strategy for descriptions that no
// keyword mapping covers.
func WithAIClient(client AIClient) Option {
	return func(c *Categorizer) {
		c.ai = client
	}
}

// New creates a Categorizer with the given mapping table. A nil table uses
// DefaultMappings; a nil logger uses the default adapter.
func New(mappings []Mapping, logger logging.Logger, opts ...Option) *Categorizer {
	if mappings == nil {
		mappings = DefaultMappings()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	c := &Categorizer{
		mappings: mappings,
		logger:   logger.WithField("component", "categorizer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categorize classifies a description against the supplied category list.
// The same description with the same list always yields the same result.
func (c *Categorizer) Categorize(ctx context.Context, description string, categories []models.Category) Result {
	descLower := strings.ToLower(strings.TrimSpace(description))

	if isTransferDescription(descLower) {
		return Result{
			Confidence:   models.ConfidenceLow,
			Suggestion:   models.SuggestionTransferInternal,
			SkipCategory: true,
		}
	}

	for _, mapping := range c.mappings {
		for _, keyword := range mapping.Keywords {
			if !strings.Contains(descLower, keyword) {
				continue
			}
			c.logger.WithFields(
				logging.Field{Key: "keyword", Value: keyword},
				logging.Field{Key: "target", Value: mapping.Target},
			).Debug("Description matched keyword mapping")

			if matched := findTopLevel(categories, mapping.Target); matched != nil {
				return Result{
					Category:   matched,
					Confidence: mapping.Confidence,
					Suggestion: mapping.Suggestion,
				}
			}
			return Result{
				Confidence:         mapping.Confidence,
				Suggestion:         mapping.Suggestion,
				SuggestNewCategory: true,
			}
		}
	}

	if c.ai != nil {
		if result, ok := c.categorizeWithAI(ctx, description, categories); ok {
			return result
		}
	}

	return Result{
		Confidence: models.ConfidenceLow,
		Suggestion: models.SuggestionUncategorized,
	}
}

// DetectKind infers the transaction direction from the description for the
// spreadsheet pipeline. Income keywords win over transfer codes.
func (c *Categorizer) DetectKind(description string) Kind {
	descLower := strings.ToLower(strings.TrimSpace(description))
	for _, kw := range incomeSubstrings {
		if strings.Contains(descLower, kw) {
			return KindIncome
		}
	}
	if transferWordCodes.MatchString(descLower) || strings.Contains(descLower, "tfr") {
		return KindTransfer
	}
	return KindExpense
}

// categorizeWithAI asks the AI client for a suggestion label and resolves it
// against the category list. AI results are clamped to medium confidence.
func (c *Categorizer) categorizeWithAI(ctx context.Context, description string, categories []models.Category) (Result, bool) {
	labels := make([]string, 0, len(c.mappings))
	for _, m := range c.mappings {
		labels = append(labels, m.Suggestion)
	}

	suggestion, err := c.ai.SuggestCategory(ctx, description, labels)
	if err != nil {
		c.logger.WithError(err).Warn("AI categorization failed, falling through to uncategorized")
		return Result{}, false
	}
	if suggestion == "" {
		return Result{}, false
	}

	if matched := findTopLevel(categories, suggestion); matched != nil {
		return Result{
			Category:   matched,
			Confidence: models.ConfidenceMedium,
			Suggestion: suggestion,
		}, true
	}
	return Result{
		Confidence:         models.ConfidenceMedium,
		Suggestion:         suggestion,
		SuggestNewCategory: true,
	}, true
}

func isTransferDescription(descLower string) bool {
	for _, kw := range transferSubstrings {
		if strings.Contains(descLower, kw) {
			return true
		}
	}
	return transferCode.MatchString(descLower)
}

// findTopLevel returns the first top-level category whose name contains the
// target, case-insensitively. Sub-categories are never matched directly.
func findTopLevel(categories []models.Category, target string) *models.Category {
	targetLower := strings.ToLower(target)
	parents := models.TopLevelCategories(categories)
	for i := range parents {
		if strings.Contains(strings.ToLower(parents[i].Name), targetLower) {
			return &parents[i]
		}
	}
	return nil
}

package models

import "github.com/shopspring/decimal"

// Category is reference data owned by the persistence backend. The import
// core only reads categories to populate selection options and to drive
// keyword matching; it never mutates them.
type Category struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Icon     string          `yaml:"icon"`
	Color    string          `yaml:"color"`
	Type     string          `yaml:"type"` // need or want
	Budget   decimal.Decimal `yaml:"budget"`
	ParentID string          `yaml:"parent_id"`
}

// IsSub reports whether the category is a sub-category of another.
func (c Category) IsSub() bool {
	return c.ParentID != ""
}

// Account is reference data owned by the persistence backend.
type Account struct {
	ID      string          `yaml:"id"`
	Name    string          `yaml:"name"`
	Balance decimal.Decimal `yaml:"balance"`
	Color   string          `yaml:"color"`
	Type    string          `yaml:"type"`
}

// TopLevelCategories filters out sub-categories, preserving order.
func TopLevelCategories(categories []Category) []Category {
	var parents []Category
	for _, c := range categories {
		if !c.IsSub() {
			parents = append(parents, c)
		}
	}
	return parents
}

// Subcategories returns the children of the given parent, preserving order.
func Subcategories(categories []Category, parentID string) []Category {
	if parentID == "" {
		return nil
	}
	var subs []Category
	for _, c := range categories {
		if c.ParentID == parentID {
			subs = append(subs, c)
		}
	}
	return subs
}

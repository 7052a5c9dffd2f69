package pdfparser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"financeapp/statement-import/internal/models"
)

// parsedLine is the structured result of matching one statement line before
// date normalization and categorization.
type parsedLine struct {
	description string
	amount      decimal.Decimal
	dateToken   string // empty when the line carried no date
	txType      string
}

// linePattern pairs a compiled pattern with an extractor so new bank layouts
// can be added to the table without touching the matching loop.
type linePattern struct {
	name    string
	re      *regexp.Regexp
	extract func(m []string) (parsedLine, bool)
}

// amountFromMatch strips thousands separators and converts. The patterns
// guarantee the \d[,\d]*\.\d{2} shape, so conversion cannot fail on a match.
func amountFromMatch(raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// linePatterns is the ordered pattern table. First match wins. The income
// and transfer marker patterns run before the positional ones so marker
// lines that also end in a date token keep their direction; later patterns
// are intentionally looser as a fallback net.
var linePatterns = []linePattern{
	{
		// "MOBILE DEPOSIT 500.00 OCT15" and similar income markers
		name: "income-marker",
		re:   regexp.MustCompile(`(?i)^(MOBILE DEPOSIT|E-TRANSFER|E-TFR|DEPOSIT|INTEREST|CREDIT)\s*(.*?)\s+([\d,]+\.\d{2})\s*([A-Z]{3}\d{1,2})?`),
		extract: func(m []string) (parsedLine, bool) {
			amount, ok := amountFromMatch(m[3])
			if !ok {
				return parsedLine{}, false
			}
			description := strings.TrimSpace(m[1])
			if extra := strings.TrimSpace(m[2]); extra != "" {
				description += " " + extra
			}
			return parsedLine{
				description: description,
				amount:      amount,
				dateToken:   m[4],
				txType:      models.TypeIncome,
			}, true
		},
	},
	{
		// "TRANSFER TO SAVINGS 200.00 OCT01"; emitted as expense by default,
		// the categorizer tags these SkipCategory downstream.
		name: "transfer-marker",
		re:   regexp.MustCompile(`(?i)^(TRANSFER|TFR|WIRE|SEND)\s*(.*?)\s+([\d,]+\.\d{2})\s*([A-Z]{3}\d{1,2})?`),
		extract: func(m []string) (parsedLine, bool) {
			amount, ok := amountFromMatch(m[3])
			if !ok {
				return parsedLine{}, false
			}
			description := strings.TrimSpace(m[1])
			if extra := strings.TrimSpace(m[2]); extra != "" {
				description += " " + extra
			}
			return parsedLine{
				description: description,
				amount:      amount,
				dateToken:   m[4],
				txType:      models.TypeExpense,
			}, true
		},
	},
	{
		// "TIM HORTONS 5.99 SEP02"
		name: "description-amount-monthday",
		re:   regexp.MustCompile(`(?i)^(.+?)\s+([\d,]+\.\d{2})\s+([A-Z]{3}\d{1,2})$`),
		extract: func(m []string) (parsedLine, bool) {
			amount, ok := amountFromMatch(m[2])
			if !ok {
				return parsedLine{}, false
			}
			return parsedLine{
				description: strings.TrimSpace(m[1]),
				amount:      amount,
				dateToken:   m[3],
				txType:      models.TypeExpense,
			}, true
		},
	},
	{
		// "SEP 02 TIM HORTONS 5.99"
		name: "monthday-description-amount",
		re:   regexp.MustCompile(`(?i)^([A-Z]{3}\s*\d{1,2})\s+(.+?)\s+([\d,]+\.\d{2})$`),
		extract: func(m []string) (parsedLine, bool) {
			amount, ok := amountFromMatch(m[3])
			if !ok {
				return parsedLine{}, false
			}
			return parsedLine{
				description: strings.TrimSpace(m[2]),
				amount:      amount,
				dateToken:   strings.ReplaceAll(m[1], " ", ""),
				txType:      models.TypeExpense,
			}, true
		},
	},
	{
		// "09/02/2025 TIM HORTONS 5.99"
		name: "numericdate-description-amount",
		re:   regexp.MustCompile(`^(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})\s+(.+?)\s+([\d,]+\.\d{2})$`),
		extract: func(m []string) (parsedLine, bool) {
			amount, ok := amountFromMatch(m[3])
			if !ok {
				return parsedLine{}, false
			}
			return parsedLine{
				description: strings.TrimSpace(m[2]),
				amount:      amount,
				dateToken:   m[1],
				txType:      models.TypeExpense,
			}, true
		},
	},
	{
		// "5.99 SEP02 TIM HORTONS"
		name: "amount-first",
		re:   regexp.MustCompile(`(?i)^([\d,]+\.\d{2})\s+([A-Z]{3}\d{1,2})\s+(.+)$`),
		extract: func(m []string) (parsedLine, bool) {
			amount, ok := amountFromMatch(m[1])
			if !ok {
				return parsedLine{}, false
			}
			return parsedLine{
				description: strings.TrimSpace(m[3]),
				amount:      amount,
				dateToken:   m[2],
				txType:      models.TypeExpense,
			}, true
		},
	},
	{
		// Fallback net: any "text amount" line with a meaningful text part.
		// No date token was found, so the draft gets a guessed date.
		name: "flexible",
		re:   regexp.MustCompile(`^(.+?)\s+([\d,]+\.\d{2})`),
		extract: func(m []string) (parsedLine, bool) {
			if len(m[1]) <= 3 {
				return parsedLine{}, false
			}
			amount, ok := amountFromMatch(m[2])
			if !ok {
				return parsedLine{}, false
			}
			return parsedLine{
				description: strings.TrimSpace(m[1]),
				amount:      amount,
				txType:      models.TypeExpense,
			}, true
		},
	},
}

// parseLine tries the ordered pattern table against one cleaned line.
func parseLine(line string) (parsedLine, bool) {
	for _, pattern := range linePatterns {
		m := pattern.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if parsed, ok := pattern.extract(m); ok {
			return parsed, true
		}
	}
	return parsedLine{}, false
}

// Non-transaction markers. A line matching any of these is rejected before
// pattern matching.
var (
	skipSubstrings = []string{
		"balance forward",
		"ending balance",
		"starting balance",
		"statement period",
		"account number",
		"statement date",
		"continued on",
		"withdrawal",
	}
	pageNumberLine = regexp.MustCompile(`(?i)^page\s*\d+$`)
	bareDigitsLine = regexp.MustCompile(`^\d+$`)
)

// isNoiseLine reports whether a line is a header, footer or balance line.
// "deposit" alone does not disqualify a line (deposits are income rows); it
// only does so on a column-header row that also says "description".
func isNoiseLine(line string, minLength int) bool {
	if len(line) < minLength {
		return true
	}
	lower := strings.ToLower(line)
	for _, marker := range skipSubstrings {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	if strings.Contains(lower, "deposit") && strings.Contains(lower, "description") {
		return true
	}
	return pageNumberLine.MatchString(line) || bareDigitsLine.MatchString(line)
}

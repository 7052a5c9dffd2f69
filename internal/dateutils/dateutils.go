// Package dateutils normalizes the date tokens found in bank statements to
// canonical ISO calendar dates (YYYY-MM-DD).
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayoutISO is the canonical output layout.
const DateLayoutISO = "2006-01-02"

// Spreadsheet serial day 25569 is 1970-01-01, i.e. serial day 0 is the
// 1899-12-30 epoch used by Excel-compatible tools.
const serialUnixOffset = 25569

var (
	monthDayPattern = regexp.MustCompile(`(?i)([A-Z]{3})\s?(\d{1,2})`)
	numericPattern  = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`)
	isoPattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var monthTable = map[string]string{
	"JAN": "01", "FEB": "02", "MAR": "03", "APR": "04",
	"MAY": "05", "JUN": "06", "JUL": "07", "AUG": "08",
	"SEP": "09", "OCT": "10", "NOV": "11", "DEC": "12",
}

// commonLayouts are tried, in order, for any other parseable date string.
var commonLayouts = []string{
	DateLayoutISO,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	"2006/01/02",
}

// Normalize converts a raw date token to YYYY-MM-DD, combining
// month-abbreviation tokens with the supplied fallback year. When the token
// cannot be resolved it falls back to the current date and reports
// guessed=true so callers can surface the substitution during review.
func Normalize(token string, fallbackYear int) (date string, guessed bool) {
	token = strings.TrimSpace(token)

	if m := monthDayPattern.FindStringSubmatch(token); m != nil {
		if month, ok := monthTable[strings.ToUpper(m[1])]; ok {
			candidate := strconv.Itoa(fallbackYear) + "-" + month + "-" + padDay(m[2])
			if validISO(candidate) {
				return candidate, false
			}
		}
	}

	// Numeric D[/-]D[/-]Y: first group is taken as the month, second as the
	// day. Two-digit years are assumed to be 20YY.
	if m := numericPattern.FindStringSubmatch(token); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		candidate := year + "-" + padDay(m[1]) + "-" + padDay(m[2])
		if validISO(candidate) {
			return candidate, false
		}
	}

	if isoPattern.MatchString(token) && validISO(token) {
		return token, false
	}

	for _, layout := range commonLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t.Format(DateLayoutISO), false
		}
	}

	return time.Now().Format(DateLayoutISO), true
}

// FromSerial converts a spreadsheet serial date number to a calendar date
// using the standard epoch offset.
func FromSerial(serial float64) string {
	secs := int64((serial - serialUnixOffset) * 86400)
	return time.Unix(secs, 0).UTC().Format(DateLayoutISO)
}

// ParseCell resolves a spreadsheet cell value to YYYY-MM-DD. Serial numbers,
// ISO strings and common date strings are accepted; anything else reports
// ok=false so the caller can drop the row.
func ParseCell(value string) (date string, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if isoPattern.MatchString(value) {
		if !validISO(value) {
			return "", false
		}
		return value, true
	}

	// Serial dates surface from spreadsheet readers as bare numbers. The
	// range guard keeps ordinary amounts from being mistaken for dates
	// (20000 is 1954-09-19, 80000 is 2119-01-16).
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= 20000 && serial <= 80000 {
			return FromSerial(serial), true
		}
		return "", false
	}

	if m := numericPattern.FindStringSubmatch(value); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		candidate := year + "-" + padDay(m[1]) + "-" + padDay(m[2])
		if !validISO(candidate) {
			return "", false
		}
		return candidate, true
	}

	for _, layout := range commonLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DateLayoutISO), true
		}
	}

	return "", false
}

// validISO reports whether date is a real calendar date, not just a string
// shaped like one. time.Parse rejects out-of-range days such as 2025-09-99.
func validISO(date string) bool {
	_, err := time.Parse(DateLayoutISO, date)
	return err == nil
}

func padDay(d string) string {
	if len(d) == 1 {
		return "0" + d
	}
	return d
}

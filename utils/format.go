package utils

import (
	"fmt"
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// FormatMoney keeps consistent two-decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// Today returns the current calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(layoutDate)
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(layoutDate, strings.TrimSpace(s))
}

// NormalizeSearch lowercases a search term the way the list filter expects.
// Whitespace is kept: a padded term only matches text containing that padding.
func NormalizeSearch(s string) string {
	return strings.ToLower(s)
}

// ContainsFold reports whether text contains term, case-insensitively. An
// empty term matches everything.
func ContainsFold(text, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}

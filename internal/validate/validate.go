package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"appliancestore/internal/domain"
)

var (
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)
	// site-relative path or http(s) URL
	reLink = regexp.MustCompile(`^(/[^\s]*|https?://[^\s]+)$`)
)

// ID parses a positive integer row id.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Q trims a search query and caps it at 100 runes. Control characters are rejected.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > 100 {
		s = string([]rune(s)[:100])
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", false
		}
	}
	return s, true
}

// Name validates a displayable name (category, product, filter, option).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 200 {
		return "", false
	}
	return s, true
}

// Text trims free text and caps its length.
func Text(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return s
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Price accepts an empty string as "no price". Digit-group spaces and a comma
// decimal separator are tolerated. Negative amounts are rejected.
func Price(s string) (decimal.NullDecimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		case ',':
			return '.'
		}
		return r
	}, s)
	if s == "" {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

// Page parses a 1-based page number; anything unusable becomes 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Int parses an optional integer with a fallback.
func Int(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func FilterType(s string) (domain.FilterType, bool) {
	t := domain.FilterType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Link validates an optional image or link target.
func Link(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) > 500 {
		return "", false
	}
	return s, reLink.MatchString(s)
}

// Checkbox reads an HTML checkbox value.
func Checkbox(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

// Package normalize holds the cell and row transforms used to clean a table.
//
// Every cell operator is a plain func(string) string with no state, so they
// compose freely and are safe to call from any goroutine.
package normalize

import (
	"strings"
)

// CellFunc transforms a single cell value.
type CellFunc func(string) string

// TrimWhitespace strips leading and trailing spaces and tabs.
func TrimWhitespace(s string) string {
	return strings.Trim(s, " \t")
}

// HasEdgeWhitespace reports whether s starts or ends with a space or tab.
func HasEdgeWhitespace(s string) bool {
	if s == "" {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return first == ' ' || first == '\t' || last == ' ' || last == '\t'
}

// ToUpperASCII upper-cases a-z only. Other bytes, including multi-byte
// UTF-8 sequences, pass through untouched.
func ToUpperASCII(s string) string {
	return mapASCII(s, 'a', 'z', 'A'-'a')
}

// ToLowerASCII lower-cases A-Z only.
func ToLowerASCII(s string) string {
	return mapASCII(s, 'A', 'Z', 'a'-'A')
}

func mapASCII(s string, lo, hi byte, delta int) string {
	i := 0
	for i < len(s) && (s[i] < lo || s[i] > hi) {
		i++
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if b[i] >= lo && b[i] <= hi {
			b[i] = byte(int(b[i]) + delta)
		}
	}
	return string(b)
}

// nullTokens is the closed set of literal placeholders meaning "no value".
var nullTokens = map[string]struct{}{
	"N/A":     {},
	"n/a":     {},
	"NA":      {},
	"null":    {},
	"NULL":    {},
	"None":    {},
	"NONE":    {},
	"none":    {},
	"nil":     {},
	"nan":     {},
	"-":       {},
	"--":      {},
	"?":       {},
	"(empty)": {},
}

// IsNullToken reports whether s is one of the null placeholders. Matching
// is exact; "Null" and " NA" are not tokens.
func IsNullToken(s string) bool {
	_, ok := nullTokens[s]
	return ok
}

// IsNull reports whether s is empty or a null placeholder.
func IsNull(s string) bool {
	return s == "" || IsNullToken(s)
}

// StandardizeNull maps null placeholders to the empty string.
func StandardizeNull(s string) string {
	if IsNullToken(s) {
		return ""
	}
	return s
}

// StandardizeNumber keeps digits, a single decimal separator (rewritten as
// '.') and a leading '-'. The decimal separator is ',' when commas outnumber
// periods, otherwise '.'. The other separator is treated as grouping and
// dropped. If nothing survives, s is returned unchanged.
func StandardizeNumber(s string) string {
	if s == "" {
		return s
	}

	decimal := byte('.')
	if strings.Count(s, ",") > strings.Count(s, ".") {
		decimal = ','
	}

	var b strings.Builder
	b.Grow(len(s))
	seenDecimal := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == decimal && !seenDecimal:
			b.WriteByte('.')
			seenDecimal = true
		case c == '-' && b.Len() == 0:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return s
	}
	return b.String()
}

// numericChars are the bytes LooksNumeric tolerates around digits.
const numericChars = "0123456789.,-+ $%'()"

// LooksNumeric reports whether s is a formatted number StandardizeNumber
// can safely rewrite: at least one digit and nothing but digits, signs,
// separators, spaces, parentheses, '%' or a currency symbol ($ € £ ¥).
func LooksNumeric(s string) bool {
	digit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r == '€' || r == '£' || r == '¥':
		case r < 0x80 && strings.IndexByte(numericChars, byte(r)) >= 0:
		default:
			return false
		}
	}
	return digit
}

// StandardizeNumberLoose applies StandardizeNumber only to cells that look
// like formatted numbers, leaving free text such as "Apt 5" alone.
func StandardizeNumberLoose(s string) string {
	if !LooksNumeric(s) {
		return s
	}
	return StandardizeNumber(s)
}

// IsFormula reports whether s would be evaluated as a formula by a
// spreadsheet, i.e. it begins with '=' after any leading blanks.
func IsFormula(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "=")
}

// Package infer classifies table columns and individual values.
//
// Classification is best effort and never fails: a column that matches
// nothing in particular is text.
package infer

import (
	"strings"
	"unicode"

	"github.com/JonMunkholm/csvclean/internal/stats"
	"github.com/JonMunkholm/csvclean/internal/table"
)

// ColumnType is the inferred kind of a column.
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
	TypeText    ColumnType = "text"
	TypeName    ColumnType = "name"
)

// DefaultSampleSize caps how many non-empty values are inspected.
const DefaultSampleSize = 100

// MajorityRatio is the share of sampled values that must agree on a type.
const MajorityRatio = 0.8

// nameKeywords mark columns holding personal or identifying data. Such
// columns are never fuzzy-merged: two similar names are usually two people.
var nameKeywords = map[string]bool{
	"name": true, "surname": true, "firstname": true, "lastname": true,
	"fullname": true, "middlename": true, "username": true,
	"email": true,
	"phone": true, "mobile": true, "telephone": true, "fax": true,
	"address": true, "street": true, "city": true, "country": true,
	"zip": true, "zipcode": true, "postal": true, "postcode": true,
	"ssn": true, "passport": true, "birth": true, "birthdate": true,
	"birthday": true, "dob": true,
	"contact": true,
}

// IsNameColumn reports whether a header label marks identifying data.
// The header is split into words on punctuation, spaces and camel case, and
// a word (or two adjacent words run together, as in "e-mail") must equal a
// keyword. "first_name" and "CustomerEmail" qualify; "capacity" and
// "headphones" do not.
func IsNameColumn(header string) bool {
	words := headerWords(header)
	for i, w := range words {
		if isNameWord(w) {
			return true
		}
		if i > 0 && isNameWord(words[i-1]+w) {
			return true
		}
	}
	return false
}

func isNameWord(w string) bool {
	if nameKeywords[w] {
		return true
	}
	// plurals: "emails", "phones", "addresses"
	if t, ok := strings.CutSuffix(w, "es"); ok && nameKeywords[t] {
		return true
	}
	t, ok := strings.CutSuffix(w, "s")
	return ok && nameKeywords[t]
}

// headerWords lowercases a header and splits it into words at
// non-alphanumeric runes and camel-case boundaries ("SSNNumber" gives
// "ssn", "number").
func headerWords(header string) []string {
	rs := []rune(strings.TrimSpace(header))
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			words = append(words, strings.ToLower(string(rs[start:end])))
			start = -1
		}
	}
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start >= 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush(i)
			}
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(rs))
	return words
}

// IsBoolean reports whether s is one of true/false/yes/no/y/n/1/0, ignoring
// case.
func IsBoolean(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no", "y", "n", "1", "0":
		return true
	}
	return false
}

// InferColumnType classifies a column from its header and values. Identity
// columns are TypeName whatever they hold; otherwise a type wins when at
// least 80% of the first DefaultSampleSize non-empty values match it.
// Boolean is checked before numeric, so a 0/1 column is boolean.
func InferColumnType(columnName string, values []string) ColumnType {
	return InferColumnTypeSample(columnName, values, DefaultSampleSize)
}

// InferColumnTypeSample is InferColumnType with an explicit sample cap.
// A cap of zero or less inspects every value.
func InferColumnTypeSample(columnName string, values []string, sample int) ColumnType {
	if IsNameColumn(columnName) {
		return TypeName
	}

	var n, booleans, numerics, dates int
	for _, v := range values {
		if v == "" {
			continue
		}
		if sample > 0 && n >= sample {
			break
		}
		n++
		if IsBoolean(v) {
			booleans++
		}
		if stats.IsNumeric(v) {
			numerics++
		}
		if IsDateShape(v) {
			dates++
		}
	}
	if n == 0 {
		return TypeText
	}

	majority := func(count int) bool {
		return float64(count)/float64(n) >= MajorityRatio
	}
	switch {
	case majority(booleans):
		return TypeBoolean
	case majority(numerics):
		return TypeNumeric
	case majority(dates):
		return TypeDate
	default:
		return TypeText
	}
}

// InferTableTypes classifies every column of t using row 0 as the header.
func InferTableTypes(t table.Table, sample int) []ColumnType {
	out := make([]ColumnType, t.Width())
	for col := range out {
		out[col] = InferColumnTypeSample(t.HeaderName(col), t.ColumnValues(col), sample)
	}
	return out
}

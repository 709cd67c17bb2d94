package table

// parse.go implements the tokenizer: raw text in, Table out.
//
// Known limitation: there is no quoting or escaping. A comma is always a
// field separator, so a value containing a comma splits into two cells and
// Serialize cannot round-trip it. This mirrors what the toolkit has always
// accepted and is not an RFC 4180 parser.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInputTooLarge is returned when the raw input exceeds Limits.MaxBytes.
// The input is rejected outright; truncating bytes would corrupt rows.
var ErrInputTooLarge = errors.New("input too large")

// ErrLineTooLong is returned when a single line exceeds Limits.MaxLineLength.
var ErrLineTooLong = errors.New("invalid csv: line too long")

// Default resource caps.
const (
	DefaultMaxBytes      int64 = 100 * 1024 * 1024
	DefaultMaxLines            = 10000
	DefaultMaxColumns          = 1000
	DefaultMaxLineLength       = 10000
)

// Limits bounds the work a single parse may do. Zero disables a cap.
type Limits struct {
	MaxBytes      int64 // reject input larger than this
	MaxLines      int   // stop reading after this many physical lines
	MaxColumns    int   // keep at most this many cells per row
	MaxLineLength int   // reject any line longer than this (bytes)
}

// DefaultLimits returns the caps used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:      DefaultMaxBytes,
		MaxLines:      DefaultMaxLines,
		MaxColumns:    DefaultMaxColumns,
		MaxLineLength: DefaultMaxLineLength,
	}
}

// ParseStats describes what the tokenizer did beyond producing rows.
type ParseStats struct {
	Lines          int  // physical lines read
	BlankLines     int  // lines dropped for producing no cells
	LinesTruncated bool // MaxLines stopped reading early
	RowsTruncated  int  // rows that lost cells to MaxColumns
}

// Parse splits text into rows on "\n" (a trailing "\r" is stripped, so
// "\r\n" works too) and each row into cells on ",". Blank lines are dropped.
// No caps are applied.
func Parse(text string) Table {
	t, _, _ := ParseLimited(text, Limits{})
	return t
}

// ParseLimited is Parse with resource caps. Line and column caps truncate
// silently (reported in ParseStats); the byte and line-length caps reject.
func ParseLimited(text string, lim Limits) (Table, ParseStats, error) {
	var st ParseStats

	if lim.MaxBytes > 0 && int64(len(text)) > lim.MaxBytes {
		return nil, st, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(text), lim.MaxBytes)
	}

	var t Table
	rest := text
	for len(rest) > 0 {
		var line string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			line, rest = rest, ""
		}

		if lim.MaxLines > 0 && st.Lines >= lim.MaxLines {
			st.LinesTruncated = true
			break
		}
		st.Lines++

		line = strings.TrimSuffix(line, "\r")
		if lim.MaxLineLength > 0 && len(line) > lim.MaxLineLength {
			return nil, st, fmt.Errorf("%w: line %d has %d bytes (limit %d)", ErrLineTooLong, st.Lines, len(line), lim.MaxLineLength)
		}

		row := splitLine(line)
		if len(row) == 0 {
			st.BlankLines++
			continue
		}
		if lim.MaxColumns > 0 && len(row) > lim.MaxColumns {
			row = row[:lim.MaxColumns:lim.MaxColumns]
			st.RowsTruncated++
		}
		t = append(t, row)
	}

	return t, st, nil
}

// splitLine yields zero cells for an empty line and strings.Split semantics
// otherwise, so "a,b," keeps its trailing empty cell.
func splitLine(line string) Row {
	if line == "" {
		return nil
	}
	return Row(strings.Split(line, ","))
}

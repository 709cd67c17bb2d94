// Package table holds the in-memory tabular model shared by every cleaning
// operation: a Table is an ordered slice of Rows, a Row an ordered slice of
// string cells. Row 0 is conventionally the header; nothing in this package
// enforces that, callers do.
//
// Rows may be ragged. An empty cell is the canonical missing value.
package table

import (
	"errors"
	"fmt"
)

// ErrInvalidColumn is returned when a column index is outside the table.
var ErrInvalidColumn = errors.New("invalid column index")

// Row is an ordered sequence of cells.
type Row []string

// Table is an ordered sequence of rows. Row 0 is the header when present.
type Table []Row

// Width returns the length of the widest row.
func (t Table) Width() int {
	w := 0
	for _, r := range t {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Header returns row 0, or nil for an empty table.
func (t Table) Header() Row {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// HeaderName returns the header label of col, or "" when the header is
// missing or shorter than col.
func (t Table) HeaderName(col int) string {
	h := t.Header()
	if col < 0 || col >= len(h) {
		return ""
	}
	return h[col]
}

// Clone returns a deep copy so transforms never alias their input.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = append(Row(nil), r...)
	}
	return out
}

// CellCount returns the total number of cells across all rows.
func (t Table) CellCount() int {
	n := 0
	for _, r := range t {
		n += len(r)
	}
	return n
}

// ValidateColumn checks that col addresses at least one cell position of the
// table's widest row.
func (t Table) ValidateColumn(col int) error {
	if col < 0 || col >= t.Width() {
		return fmt.Errorf("%w: %d (table has %d columns)", ErrInvalidColumn, col, t.Width())
	}
	return nil
}

// ColumnIndex resolves a header label to its index. Matching is exact first,
// then case-insensitive; -1 when absent.
func (t Table) ColumnIndex(name string) int {
	h := t.Header()
	for i, c := range h {
		if c == name {
			return i
		}
	}
	for i, c := range h {
		if equalFoldASCII(c, name) {
			return i
		}
	}
	return -1
}

// Cell is one value of a ColumnView together with the row it came from.
type Cell struct {
	Row   int
	Value string
}

// ColumnView projects column col across every row except the header. Rows
// too short to hold col are skipped rather than reported as empty.
func (t Table) ColumnView(col int) []Cell {
	if len(t) < 2 || col < 0 {
		return nil
	}
	out := make([]Cell, 0, len(t)-1)
	for i := 1; i < len(t); i++ {
		if col < len(t[i]) {
			out = append(out, Cell{Row: i, Value: t[i][col]})
		}
	}
	return out
}

// ColumnValues is ColumnView without row indices.
func (t Table) ColumnValues(col int) []string {
	view := t.ColumnView(col)
	out := make([]string, len(view))
	for i, c := range view {
		out[i] = c.Value
	}
	return out
}

// Without returns a copy of t omitting the row indices in drop. The header
// is always kept.
func (t Table) Without(drop map[int]bool) Table {
	out := make(Table, 0, len(t))
	for i, r := range t {
		if i > 0 && drop[i] {
			continue
		}
		out = append(out, append(Row(nil), r...))
	}
	return out
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

package normalize

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/csvclean/internal/table"
)

// Scope selects which cells Apply touches.
type Scope struct {
	Column     int  // a single column, or -1 for every column
	SkipHeader bool // leave row 0 alone
}

// AllCells covers every cell, header included.
var AllCells = Scope{Column: -1}

// DataCells covers every cell below the header.
var DataCells = Scope{Column: -1, SkipHeader: true}

// ColumnData covers the data cells of one column.
func ColumnData(col int) Scope {
	return Scope{Column: col, SkipHeader: true}
}

// Apply runs fn over the cells in scope and returns the new table and the
// number of cells whose value actually changed. t is not modified.
func Apply(t table.Table, fn CellFunc, sc Scope) (table.Table, int) {
	out := t.Clone()
	changed := 0
	for i, r := range out {
		if i == 0 && sc.SkipHeader {
			continue
		}
		for j, c := range r {
			if sc.Column >= 0 && j != sc.Column {
				continue
			}
			if v := fn(c); v != c {
				r[j] = v
				changed++
			}
		}
	}
	return out, changed
}

// Chain composes cell functions left to right.
func Chain(fns ...CellFunc) CellFunc {
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}
}

// IsEmptyRow reports whether every cell of r is empty.
func IsEmptyRow(r table.Row) bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}

// RemoveEmptyRows drops data rows whose cells are all empty and reports how
// many were removed. The header is kept.
func RemoveEmptyRows(t table.Table) (table.Table, int) {
	drop := make(map[int]bool)
	for i := 1; i < len(t); i++ {
		if IsEmptyRow(t[i]) {
			drop[i] = true
		}
	}
	return t.Without(drop), len(drop)
}

// rowKey identifies a row by its full cell sequence. Each cell is length
// prefixed, so no cell content can make two different rows share a key.
func rowKey(r table.Row) string {
	var b strings.Builder
	for _, c := range r {
		b.WriteString(strconv.Itoa(len(c)))
		b.WriteByte(':')
		b.WriteString(c)
	}
	return b.String()
}

// duplicateRows returns the data rows repeating an earlier data row.
func duplicateRows(t table.Table) map[int]bool {
	seen := make(map[string]struct{}, len(t))
	drop := make(map[int]bool)
	for i := 1; i < len(t); i++ {
		k := rowKey(t[i])
		if _, ok := seen[k]; ok {
			drop[i] = true
			continue
		}
		seen[k] = struct{}{}
	}
	return drop
}

// RemoveDuplicates keeps the first occurrence of every data row and reports
// how many repeats were dropped. The header is never a candidate.
func RemoveDuplicates(t table.Table) (table.Table, int) {
	drop := duplicateRows(t)
	return t.Without(drop), len(drop)
}

// CountDuplicates is the number of rows RemoveDuplicates would drop.
func CountDuplicates(t table.Table) int {
	return len(duplicateRows(t))
}

// CountCells counts the cells of t satisfying pred, header included.
func CountCells(t table.Table, pred func(string) bool) int {
	n := 0
	for _, r := range t {
		for _, c := range r {
			if pred(c) {
				n++
			}
		}
	}
	return n
}

// CountMissing counts empty cells.
func CountMissing(t table.Table) int {
	return CountCells(t, func(s string) bool { return s == "" })
}

// CountWhitespace counts cells with leading or trailing spaces or tabs.
func CountWhitespace(t table.Table) int {
	return CountCells(t, HasEdgeWhitespace)
}

// CountNulls counts empty cells and null placeholders.
func CountNulls(t table.Table) int {
	return CountCells(t, IsNull)
}

// CountFormulas counts cells a spreadsheet would evaluate.
func CountFormulas(t table.Table) int {
	return CountCells(t, IsFormula)
}

// Package stats computes per-column numeric statistics and IQR outlier
// bounds over a table.
//
// Only cells matching the strict numeric grammar take part: an optional
// sign, digits, at most one '.', no exponent and no thousands separators.
// Anything else (including empty cells) is ignored, never read as zero.
// Run the number standardiser first if the data carries currency symbols
// or grouping separators.
package stats

import (
	"math"
	"regexp"
	"slices"
	"strconv"

	"github.com/JonMunkholm/csvclean/internal/table"
)

// numericRegex is the accepted numeric literal. At least one digit is
// required, so "+" and "." alone are not numbers.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// MinValues is the smallest sample an outlier bound is computed from.
const MinValues = 4

// IQRMultiplier scales the interquartile range into the fence distance.
const IQRMultiplier = 1.5

// IsNumeric reports whether s is a numeric literal.
func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// ParseNumber returns the value of s when it is a numeric literal.
func ParseNumber(s string) (float64, bool) {
	if !IsNumeric(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Bound is the closed interval a value must fall in to not be an outlier.
type Bound struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Outside reports whether v lies strictly outside [Lower, Upper].
func (b Bound) Outside(v float64) bool {
	return v < b.Lower || v > b.Upper
}

// Quartiles returns the values at index n/4 and 3n/4 of an ascending slice.
// No interpolation is done. sorted must be non-empty.
func Quartiles(sorted []float64) (q1, q3 float64) {
	n := len(sorted)
	return sorted[n/4], sorted[3*n/4]
}

// ComputeBound derives the outlier fence from values, which need not be
// sorted. ok is false with fewer than MinValues values.
func ComputeBound(values []float64) (b Bound, ok bool) {
	if len(values) < MinValues {
		return Bound{}, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	q1, q3 := Quartiles(sorted)
	iqr := q3 - q1
	return Bound{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}, true
}

// NumericCell is a parsed numeric cell and the row it came from.
type NumericCell struct {
	Row   int
	Value float64
}

// NumericColumn collects the numeric cells of col, header excluded.
func NumericColumn(t table.Table, col int) []NumericCell {
	var out []NumericCell
	for _, c := range t.ColumnView(col) {
		if v, ok := ParseNumber(c.Value); ok {
			out = append(out, NumericCell{Row: c.Row, Value: v})
		}
	}
	return out
}

// ColumnBound computes the outlier fence for col.
func ColumnBound(t table.Table, col int) (Bound, bool) {
	cells := NumericColumn(t, col)
	values := make([]float64, len(cells))
	for i, c := range cells {
		values[i] = c.Value
	}
	return ComputeBound(values)
}

// ColumnOutliers returns the rows whose value in col falls outside the
// column's bound, in row order.
func ColumnOutliers(t table.Table, col int) []int {
	cells := NumericColumn(t, col)
	values := make([]float64, len(cells))
	for i, c := range cells {
		values[i] = c.Value
	}
	b, ok := ComputeBound(values)
	if !ok {
		return nil
	}

	var rows []int
	for _, c := range cells {
		if b.Outside(c.Value) {
			rows = append(rows, c.Row)
		}
	}
	return rows
}

// DetectOutliers checks every column and returns the deduplicated, sorted
// row indices flagged by at least one of them. The header is never flagged.
func DetectOutliers(t table.Table) []int {
	seen := make(map[int]bool)
	var rows []int
	for col := 0; col < t.Width(); col++ {
		for _, r := range ColumnOutliers(t, col) {
			if !seen[r] {
				seen[r] = true
				rows = append(rows, r)
			}
		}
	}
	slices.Sort(rows)
	return rows
}

// RemoveOutliers returns t without outlier-affected rows, and how many rows
// were dropped.
func RemoveOutliers(t table.Table) (table.Table, int) {
	rows := DetectOutliers(t)
	if len(rows) == 0 {
		return t.Clone(), 0
	}
	drop := make(map[int]bool, len(rows))
	for _, r := range rows {
		drop[r] = true
	}
	return t.Without(drop), len(rows)
}

package fuzzy

import (
	"context"

	"github.com/JonMunkholm/csvclean/internal/infer"
	"github.com/JonMunkholm/csvclean/internal/table"
)

// ApplyMapping rewrites the data cells of col through m and returns the new
// table and the number of cells changed. Empty cells are never rewritten.
func ApplyMapping(t table.Table, col int, m Mapping) (table.Table, int) {
	out := t.Clone()
	changed := 0
	for i := 1; i < len(out); i++ {
		r := out[i]
		if col >= len(r) || r[col] == "" {
			continue
		}
		if c := m.Canonical(r[col]); c != r[col] {
			r[col] = c
			changed++
		}
	}
	return out, changed
}

// ApplyColumnMappings applies caller-supplied mappings keyed by header
// name. Names that match no column are returned in unknown.
func ApplyColumnMappings(t table.Table, mappings map[string]map[string]string) (out table.Table, changed int, unknown []string) {
	out = t.Clone()
	for name, m := range mappings {
		col := out.ColumnIndex(name)
		if col < 0 {
			unknown = append(unknown, name)
			continue
		}
		var n int
		out, n = ApplyMapping(out, col, Mapping(m))
		changed += n
	}
	return out, changed, unknown
}

// ColumnReport describes what Consolidate did to one column.
type ColumnReport struct {
	Column   int     `json:"column"`
	Header   string  `json:"header"`
	Groups   []Group `json:"groups,omitempty"`
	Changed  int     `json:"changed"`
	Excluded bool    `json:"excluded,omitempty"`
	Skipped  bool    `json:"skipped,omitempty"`
	Note     string  `json:"note,omitempty"`
}

// EligibleColumns returns the columns Consolidate visits by default: text
// columns whose header does not mark identifying data.
func EligibleColumns(t table.Table, sample int) []int {
	var cols []int
	for col, typ := range infer.InferTableTypes(t, sample) {
		if typ == infer.TypeText {
			cols = append(cols, col)
		}
	}
	return cols
}

// Consolidate fuzzy-merges the given columns, or every eligible column when
// cols is nil. Name columns are always excluded, even when asked for.
func Consolidate(t table.Table, cols []int, opts Options) (table.Table, []ColumnReport) {
	out, reports, _ := ConsolidateContext(context.Background(), t, cols, opts)
	return out, reports
}

// ConsolidateContext is Consolidate, checking ctx before each column. It
// returns ctx.Err() and no table once ctx is done.
func ConsolidateContext(ctx context.Context, t table.Table, cols []int, opts Options) (table.Table, []ColumnReport, error) {
	if cols == nil {
		cols = EligibleColumns(t, infer.DefaultSampleSize)
	}

	out := t.Clone()
	reports := make([]ColumnReport, 0, len(cols))
	for _, col := range cols {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		rep := ColumnReport{Column: col, Header: out.HeaderName(col)}
		if infer.IsNameColumn(rep.Header) {
			rep.Excluded = true
			rep.Note = "identifying column excluded from fuzzy matching"
			reports = append(reports, rep)
			continue
		}

		res := BuildMapping(out.ColumnValues(col), opts)
		rep.Groups = res.Groups
		rep.Skipped = res.Skipped
		rep.Note = res.Note
		if !res.Skipped {
			out, rep.Changed = ApplyMapping(out, col, res.Mapping)
		}
		reports = append(reports, rep)
	}
	return out, reports, nil
}

// CountInconsistent counts values in t that belong to a near-duplicate
// group, summed over the eligible columns.
func CountInconsistent(t table.Table, opts Options) int {
	n, _ := CountInconsistentContext(context.Background(), t, opts)
	return n
}

// CountInconsistentContext is CountInconsistent, checking ctx before each
// column.
func CountInconsistentContext(ctx context.Context, t table.Table, opts Options) (int, error) {
	n := 0
	for _, col := range EligibleColumns(t, infer.DefaultSampleSize) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n += BuildMapping(t.ColumnValues(col), opts).Participants()
	}
	return n, nil
}

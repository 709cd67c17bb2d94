package stats

import (
	"slices"

	"github.com/JonMunkholm/csvclean/internal/table"
)

// Summary describes the numeric cells of one column.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Bound  *Bound  `json:"bound,omitempty"`
}

// Summarize computes a Summary over values. ok is false when values is empty.
// Median uses the midpoint of the two central values for even counts.
func Summarize(values []float64) (s Summary, ok bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	s = Summary{
		Count: n,
		Min:   sorted[0],
		Max:   sorted[n-1],
		Mean:  sum / float64(n),
	}
	if n%2 == 1 {
		s.Median = sorted[n/2]
	} else {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	if b, ok := ComputeBound(sorted); ok {
		s.Bound = &b
	}
	return s, true
}

// SummarizeColumn is Summarize over the numeric cells of col.
func SummarizeColumn(t table.Table, col int) (Summary, bool) {
	cells := NumericColumn(t, col)
	values := make([]float64, len(cells))
	for i, c := range cells {
		values[i] = c.Value
	}
	return Summarize(values)
}

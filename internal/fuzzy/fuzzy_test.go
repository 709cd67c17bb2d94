package fuzzy

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvclean/internal/table"
)

func repeat(v string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func cityValues() []string {
	var values []string
	values = append(values, repeat("New York", 3)...)
	values = append(values, "new york", "New York, NY")
	values = append(values, repeat("Boston", 2)...)
	values = append(values, "Bostn", "")
	return values
}

// ============================================================================
// BuildMapping Tests
// ============================================================================

func TestBuildMapping_Normalized(t *testing.T) {
	res := BuildMapping(cityValues(), DefaultOptions())

	require.False(t, res.Skipped)
	assert.Equal(t, 5, res.Unique)
	assert.Equal(t, Mapping{
		"Bostn":        "Boston",
		"Boston":       "Boston",
		"New York":     "New York",
		"New York, NY": "New York",
		"new york":     "new york",
	}, res.Mapping)
	assert.Len(t, res.Groups, 2)
	assert.Equal(t, 2, res.Merged())
	assert.Equal(t, 4, res.Participants())
	assert.NotContains(t, res.Mapping, "")
}

func TestBuildMapping_Direct(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ModeDirect

	res := BuildMapping(cityValues(), opts)
	assert.Equal(t, "Boston", res.Mapping["Bostn"])
	assert.Equal(t, "New York, NY", res.Mapping["New York, NY"], "raw forms are too far apart")
}

func TestBuildMapping_TieKeepsFirst(t *testing.T) {
	res := BuildMapping([]string{"abcdefghiX", "abcdefghij"}, DefaultOptions())
	assert.Equal(t, "abcdefghiX", res.Mapping["abcdefghij"])
	assert.Equal(t, "abcdefghiX", res.Mapping["abcdefghiX"])
}

func TestBuildMapping_HigherCountWins(t *testing.T) {
	values := append(repeat("abcdefghij", 2), "abcdefghiX")
	res := BuildMapping(values, DefaultOptions())
	assert.Equal(t, "abcdefghij", res.Mapping["abcdefghiX"])
}

func TestBuildMapping_Idempotent(t *testing.T) {
	f := gofakeit.New(7)
	var values []string
	for i := 0; i < 200; i++ {
		v := f.City()
		values = append(values, v)
		if i%3 == 0 {
			values = append(values, v+"s")
		}
	}

	for _, mode := range []Mode{ModeDirect, ModeNormalized} {
		opts := DefaultOptions()
		opts.Mode = mode
		res := BuildMapping(values, opts)
		for v, c := range res.Mapping {
			assert.Equal(t, c, res.Mapping[c], "mode %s: mapping[mapping[%q]]", mode, v)
		}
		for _, v := range values {
			if v != "" {
				assert.Contains(t, res.Mapping, v)
			}
		}
	}
}

func TestBuildMapping_UniqueCap(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxUnique = 3

	res := BuildMapping([]string{"a", "b", "c", "d"}, opts)
	assert.True(t, res.Skipped)
	assert.Nil(t, res.Mapping)
	assert.NotEmpty(t, res.Note)
	assert.Equal(t, 4, res.Unique)
}

func TestBuildMapping_Empty(t *testing.T) {
	res := BuildMapping(nil, DefaultOptions())
	assert.False(t, res.Skipped)
	assert.Empty(t, res.Mapping)
	assert.Empty(t, res.Groups)
}

func TestBuildMapping_FoldAccents(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 1.0

	assert.Equal(t, "Zurich", BuildMapping([]string{"Zürich", "Zurich"}, opts).Mapping["Zurich"], "without folding nothing merges")

	opts.FoldAccents = true
	res := BuildMapping([]string{"Zürich", "Zurich", "Zurich"}, opts)
	assert.Equal(t, "Zurich", res.Mapping["Zürich"])
}

// ============================================================================
// Table-Level Tests
// ============================================================================

func productTable() table.Table {
	return table.Parse("category,name,amount\n" +
		"Electronics,Ann,1\n" +
		"Electronic,Ann,2\n" +
		"Electronics,Anne,3\n" +
		"Furniture,Bob,4\n")
}

func TestConsolidate_AllEligible(t *testing.T) {
	tbl := productTable()
	out, reports := Consolidate(tbl, nil, DefaultOptions())

	require.Len(t, reports, 1)
	assert.Equal(t, 0, reports[0].Column)
	assert.Equal(t, 1, reports[0].Changed)
	assert.Equal(t, "Electronics", out[2][0])
	assert.Equal(t, "Anne", out[3][1], "name column untouched")
	assert.Equal(t, "Electronic", tbl[2][0], "input not modified")
}

func TestConsolidateContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, reports, err := ConsolidateContext(ctx, productTable(), nil, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
	assert.Nil(t, reports)

	n, err := CountInconsistentContext(ctx, productTable(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestConsolidateContext_Live(t *testing.T) {
	out, reports, err := ConsolidateContext(context.Background(), productTable(), nil, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Electronics", out[2][0])

	n, err := CountInconsistentContext(context.Background(), productTable(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, CountInconsistent(productTable(), DefaultOptions()), n)
}

func TestConsolidate_NameColumnExcluded(t *testing.T) {
	out, reports := Consolidate(productTable(), []int{1}, DefaultOptions())

	require.Len(t, reports, 1)
	assert.True(t, reports[0].Excluded)
	assert.Equal(t, productTable(), out)
}

func TestApplyColumnMappings(t *testing.T) {
	mappings := map[string]map[string]string{
		"Category": {"Electronic": "Electronics"},
		"missing":  {"x": "y"},
	}
	out, changed, unknown := ApplyColumnMappings(productTable(), mappings)

	assert.Equal(t, 1, changed)
	assert.Equal(t, []string{"missing"}, unknown)
	assert.Equal(t, "Electronics", out[2][0])
}

func TestApplyMapping_RaggedAndEmpty(t *testing.T) {
	tbl := table.Table{{"a", "b"}, {"x"}, {"x", ""}, {"x", "old"}}
	out, changed := ApplyMapping(tbl, 1, Mapping{"old": "new", "": "filled"})
	assert.Equal(t, 1, changed)
	assert.Equal(t, table.Table{{"a", "b"}, {"x"}, {"x", ""}, {"x", "new"}}, out)
}

func TestCountInconsistent(t *testing.T) {
	assert.Equal(t, 2, CountInconsistent(productTable(), DefaultOptions()))
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkBuildMapping(b *testing.B) {
	f := gofakeit.New(42)
	values := make([]string, 0, 1000)
	for i := 0; i < 400; i++ {
		v := f.Company()
		values = append(values, v, v, fmt.Sprintf("%s Inc", v))
	}

	for _, mode := range []Mode{ModeDirect, ModeNormalized} {
		b.Run(string(mode), func(b *testing.B) {
			opts := DefaultOptions()
			opts.Mode = mode
			opts.MaxUnique = 1000
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				BuildMapping(values, opts)
			}
		})
	}
}

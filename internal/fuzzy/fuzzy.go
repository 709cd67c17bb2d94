// Package fuzzy consolidates near-duplicate categorical values.
//
// BuildMapping groups the unique values of a column by string similarity and
// maps every member of a group to the group's most frequent value. Grouping
// is O(u²) similarity checks over u unique values, so columns with more
// than Options.MaxUnique unique values are skipped.
package fuzzy

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/JonMunkholm/csvclean/internal/normalize"
	"github.com/JonMunkholm/csvclean/internal/similarity"
)

// Mode selects how two values are compared.
type Mode string

const (
	// ModeDirect compares raw values.
	ModeDirect Mode = "direct"
	// ModeNormalized compares normalize.FuzzyKey forms after a length-ratio
	// prefilter.
	ModeNormalized Mode = "normalized"
)

// Defaults.
const (
	DefaultThreshold = 0.8
	DefaultMaxUnique = 500
	// maxLengthGap is the largest share of the longer key the two keys may
	// differ in length by before the pair is skipped without scoring.
	maxLengthGap = 0.75
)

// Options tunes BuildMapping.
type Options struct {
	Threshold   float64 // minimum similarity in (0, 1]
	Mode        Mode
	MaxUnique   int  // skip columns with more unique values; <= 0 uses DefaultMaxUnique
	FoldAccents bool // normalized mode only: compare "Zürich" and "Zurich" as equal
}

// DefaultOptions returns the normalized-mode defaults.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Mode:      ModeNormalized,
		MaxUnique: DefaultMaxUnique,
	}
}

// Mapping maps original values to their canonical value.
type Mapping map[string]string

// Canonical returns the canonical form of v, or v itself if unmapped.
func (m Mapping) Canonical(v string) string {
	if c, ok := m[v]; ok {
		return c
	}
	return v
}

// Group is one set of near-duplicate values.
type Group struct {
	Canonical   string   `json:"canonical"`
	Members     []string `json:"members"`
	Occurrences int      `json:"occurrences"`
}

// Result is the outcome of BuildMapping.
type Result struct {
	Mapping Mapping `json:"mapping,omitempty"`
	// Groups lists only groups with more than one member.
	Groups  []Group `json:"groups,omitempty"`
	Unique  int     `json:"unique"`
	Skipped bool    `json:"skipped"`
	Note    string  `json:"note,omitempty"`
}

// Merged counts the values that map to something other than themselves.
func (r Result) Merged() int {
	n := 0
	for v, c := range r.Mapping {
		if v != c {
			n++
		}
	}
	return n
}

// Participants counts the values belonging to a multi-member group.
func (r Result) Participants() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Members)
	}
	return n
}

// BuildMapping groups near-duplicate values and returns the value to
// canonical mapping. Empty values are ignored.
//
// Unique values are visited in lexicographic order. Each unvisited value
// seeds a group and collects every later unvisited value similar to it. The
// member with the highest occurrence count becomes canonical; on a tie the
// earliest member wins. Every unique value appears in the mapping, so
// mapping a canonical value again is a no-op.
func BuildMapping(values []string, opts Options) Result {
	if opts.MaxUnique <= 0 {
		opts.MaxUnique = DefaultMaxUnique
	}

	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	uniques := make([]string, 0, len(counts))
	for v := range counts {
		uniques = append(uniques, v)
	}
	slices.Sort(uniques)

	res := Result{Unique: len(uniques)}
	if len(uniques) > opts.MaxUnique {
		res.Skipped = true
		res.Note = fmt.Sprintf("%d unique values exceeds the fuzzy matching limit of %d; column left unchanged", len(uniques), opts.MaxUnique)
		return res
	}

	match := newMatcher(uniques, opts)
	res.Mapping = make(Mapping, len(uniques))
	processed := make([]bool, len(uniques))

	for i, seed := range uniques {
		if processed[i] {
			continue
		}
		processed[i] = true
		members := []string{seed}
		canonical := seed
		total := counts[seed]

		for j := i + 1; j < len(uniques); j++ {
			if processed[j] || !match(i, j) {
				continue
			}
			processed[j] = true
			other := uniques[j]
			members = append(members, other)
			total += counts[other]
			if counts[other] > counts[canonical] {
				canonical = other
			}
		}

		for _, m := range members {
			res.Mapping[m] = canonical
		}
		if len(members) > 1 {
			res.Groups = append(res.Groups, Group{Canonical: canonical, Members: members, Occurrences: total})
		}
	}
	return res
}

// newMatcher returns a predicate over indices into uniques. Keys are
// computed once per value, not once per comparison.
func newMatcher(uniques []string, opts Options) func(i, j int) bool {
	if opts.Mode != ModeNormalized {
		return func(i, j int) bool {
			return similarity.Similarity(uniques[i], uniques[j]) >= opts.Threshold
		}
	}

	keys := make([]string, len(uniques))
	lens := make([]int, len(uniques))
	for i, v := range uniques {
		k := normalize.FuzzyKey(v)
		if opts.FoldAccents {
			k = normalize.FoldAccents(k)
		}
		keys[i] = k
		lens[i] = utf8.RuneCountInString(k)
	}

	return func(i, j int) bool {
		longer, shorter := lens[i], lens[j]
		if shorter > longer {
			longer, shorter = shorter, longer
		}
		if float64(longer-shorter) > maxLengthGap*float64(longer) {
			return false
		}
		return similarity.Similarity(keys[i], keys[j]) >= opts.Threshold
	}
}

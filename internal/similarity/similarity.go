// Package similarity scores how close two strings are.
//
// Distances are counted in runes, so "café" and "cafe" differ by one edit
// regardless of how é is encoded in UTF-8.
package similarity

import (
	lev "github.com/texttheater/golang-levenshtein/levenshtein"
)

// unitCost is classic Levenshtein: insert, delete and substitute all cost 1.
// The library's DefaultOptions charge 2 for a substitution, which is not
// what the similarity ratio below expects.
var unitCost = lev.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: lev.IdenticalRunes,
}

// EditDistance returns the Levenshtein distance between a and b.
func EditDistance(a, b string) int {
	if a == b {
		return 0
	}
	return lev.DistanceForStrings([]rune(a), []rune(b), unitCost)
}

// Similarity returns 1 - distance/max(len(a), len(b)), in [0, 1]. Two empty
// strings are identical (1.0).
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1.0
	}
	if a == b {
		return 1.0
	}
	d := lev.DistanceForStrings(ra, rb, unitCost)
	return 1.0 - float64(d)/float64(longest)
}

// Within reports whether a and b are at most maxEdits apart.
func Within(a, b string, maxEdits int) bool {
	ra, rb := []rune(a), []rune(b)
	diff := len(ra) - len(rb)
	if diff < 0 {
		diff = -diff
	}
	if diff > maxEdits {
		return false
	}
	return lev.DistanceForStrings(ra, rb, unitCost) <= maxEdits
}

package similarity

import (
	"math"
	"testing"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"", "", 0},
		{"abc", "abc", 0},
		{"flaw", "lawn", 2},
		{"New York", "new york", 2},
		{"café", "cafe", 1},
		{"a", "b", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := EditDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := EditDistance(tt.b, tt.a); got != tt.want {
				t.Errorf("EditDistance(%q, %q) = %d, want %d (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1.0},
		{"", "", 1.0},
		{"", "abc", 0.0},
		{"abcd", "abcx", 0.75},
		{"kitten", "sitting", 1 - 3.0/7.0},
		{"ab", "cd", 0.0},
	}

	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v out of range", tt.a, tt.b, got)
		}
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		a, b string
		max  int
		want bool
	}{
		{"Oslo", "Olso", 2, true},
		{"Oslo", "Bergen", 2, false},
		{"abc", "abcdef", 2, false},
		{"abc", "abc", 0, true},
	}
	for _, tt := range tests {
		if got := Within(tt.a, tt.b, tt.max); got != tt.want {
			t.Errorf("Within(%q, %q, %d) = %v, want %v", tt.a, tt.b, tt.max, got, tt.want)
		}
	}
}

func BenchmarkSimilarity(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Similarity("International Business Machines", "Internation Busines Machine")
	}
}

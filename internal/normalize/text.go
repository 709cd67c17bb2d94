package normalize

// text.go: lossy text normalisers. These exist to build comparison keys
// for fuzzy matching. Apart from NormalizePunctuation and
// NormalizeWhitespace, which can be requested explicitly, they are never
// written back into a table.

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var punctuationReplacer = strings.NewReplacer(
	"\u2010", "-", // hyphen
	"\u2011", "-", // non-breaking hyphen
	"\u2012", "-", // figure dash
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2015", "-", // horizontal bar
	"\u2212", "-", // minus sign
	"\u2018", "'",
	"\u2019", "'",
	"\u201A", "'",
	"\u201B", "'",
	"\u2032", "'", // prime
	"\u201C", "'",
	"\u201D", "'",
	"\u201E", "'",
	"\u00AB", "'",
	"\u00BB", "'",
	"`", "'",
	".", "",
)

// NormalizePunctuation folds Unicode dashes to '-' and quote marks to '\''
// and deletes every '.', so "D.C." becomes "DC".
func NormalizePunctuation(s string) string {
	return punctuationReplacer.Replace(s)
}

// NormalizeWhitespace collapses runs of space, tab, CR and LF into a single
// space and trims both ends.
func NormalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ' ', '\t', '\r', '\n':
			pending = b.Len() > 0
		default:
			if pending {
				b.WriteByte(' ')
				pending = false
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// RemoveDuplicateWords collapses immediately repeated words, ignoring case:
// "New New York" becomes "New York". Words are rejoined with single spaces.
func RemoveDuplicateWords(s string) string {
	words := strings.Fields(s)
	if len(words) < 2 {
		return strings.Join(words, " ")
	}
	out := make([]string, 1, len(words))
	out[0] = words[0]
	for _, w := range words[1:] {
		if strings.EqualFold(w, out[len(out)-1]) {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// RemoveStateSuffixes strips trailing ", <region>" parts naming a US state
// (full name or code) or a common country, so "Springfield, IL, USA" and
// "Springfield" compare equal. A value that is nothing but a region is
// left alone.
func RemoveStateSuffixes(s string) string {
	for {
		i := strings.LastIndexByte(s, ',')
		if i <= 0 {
			return s
		}
		suffix := strings.ToLower(strings.TrimSpace(s[i+1:]))
		if _, ok := regions[suffix]; !ok {
			return s
		}
		s = strings.TrimRight(s[:i], " \t")
	}
}

// FuzzyKey is the comparison key used by normalised fuzzy matching.
func FuzzyKey(s string) string {
	s = RemoveStateSuffixes(s)
	s = RemoveDuplicateWords(s)
	s = NormalizePunctuation(s)
	return NormalizeWhitespace(s)
}

// FoldAccents removes combining marks: "Zürich" becomes "Zurich". A new
// transformer is built per call because transform chains carry state.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

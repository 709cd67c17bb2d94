package normalize

import (
	"reflect"
	"testing"

	"github.com/JonMunkholm/csvclean/internal/table"
)

// ============================================================================
// Cell Operator Tests
// ============================================================================

func TestTrimWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  a  ", "a"},
		{"\ta b\t", "a b"},
		{"   ", ""},
		{"", ""},
		{"x", "x"},
		{"\na\n", "\na\n"},
	}
	for _, tt := range tests {
		if got := TrimWhitespace(tt.input); got != tt.want {
			t.Errorf("TrimWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCaseConversion_ASCIIOnly(t *testing.T) {
	if got := ToUpperASCII("abc Déjà 123"); got != "ABC DéJà 123" {
		t.Errorf("ToUpperASCII = %q", got)
	}
	if got := ToLowerASCII("ABC ÉCOLE"); got != "abc École" {
		t.Errorf("ToLowerASCII = %q", got)
	}
}

func TestStandardizeNull(t *testing.T) {
	for _, tok := range []string{"N/A", "n/a", "NA", "null", "NULL", "None", "NONE", "none", "nil", "nan", "-", "--", "?", "(empty)"} {
		if got := StandardizeNull(tok); got != "" {
			t.Errorf("StandardizeNull(%q) = %q, want empty", tok, got)
		}
	}
	for _, v := range []string{"Null", " NA", "NaN", "0", "n", "value"} {
		if got := StandardizeNull(v); got != v {
			t.Errorf("StandardizeNull(%q) = %q, want unchanged", v, got)
		}
	}
}

func TestCellOperators_Idempotent(t *testing.T) {
	inputs := []string{"  Mixed Case  ", "\tN/A", "NULL", "", "--", "déjà vu", " 1,234.50 "}
	ops := map[string]CellFunc{
		"trim":  TrimWhitespace,
		"upper": ToUpperASCII,
		"lower": ToLowerASCII,
		"null":  StandardizeNull,
		"ws":    NormalizeWhitespace,
		"punct": NormalizePunctuation,
	}
	for name, op := range ops {
		for _, in := range inputs {
			once := op(in)
			if twice := op(once); twice != once {
				t.Errorf("%s not idempotent on %q: %q then %q", name, in, once, twice)
			}
		}
	}
}

func TestStandardizeNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,234.56", "1234.56"},
		{"3,5", "3.5"},
		{"1 234,5", "1234.5"},
		{"1.234,56", "1.23456"}, // tie goes to '.'
		{"$ 1,000", "1.000"},
		{"-42", "-42"},
		{"12-34", "1234"},
		{"EUR 3,5", "3.5"},
		{"abc", "abc"},
		{"", ""},
		{"100", "100"},
	}
	for _, tt := range tests {
		if got := StandardizeNumber(tt.input); got != tt.want {
			t.Errorf("StandardizeNumber(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStandardizeNumberLoose(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$1,234.50", "1234.50"},
		{"€ 12,5", "12.5"},
		{"Apt 5", "Apt 5"},
		{"Q1 2023", "Q1 2023"},
		{"-", "-"},
		{"(100)", "100"},
	}
	for _, tt := range tests {
		if got := StandardizeNumberLoose(tt.input); got != tt.want {
			t.Errorf("StandardizeNumberLoose(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsFormula(t *testing.T) {
	for _, s := range []string{"=SUM(A1:A3)", "  =1+1", "=cmd|' /C calc'!A0"} {
		if !IsFormula(s) {
			t.Errorf("IsFormula(%q) = false", s)
		}
	}
	for _, s := range []string{"", "a=b", "-5", "SUM"} {
		if IsFormula(s) {
			t.Errorf("IsFormula(%q) = true", s)
		}
	}
}

// ============================================================================
// Text Normaliser Tests
// ============================================================================

func TestNormalizePunctuation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"D.C.", "DC"},
		{"O’Brien", "O'Brien"},
		{"1990–2000", "1990-2000"},
		{"“quoted”", "'quoted'"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := NormalizePunctuation(tt.input); got != tt.want {
			t.Errorf("NormalizePunctuation(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  a   b  ", "a b"},
		{"a\t\r\nb", "a b"},
		{"\n\n", ""},
		{"ab", "ab"},
	}
	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.input); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRemoveDuplicateWords(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"New New York", "New York"},
		{"the the THE end", "the end"},
		{"a b a", "a b a"},
		{"", ""},
		{"  solo  ", "solo"},
	}
	for _, tt := range tests {
		if got := RemoveDuplicateWords(tt.input); got != tt.want {
			t.Errorf("RemoveDuplicateWords(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRemoveStateSuffixes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Springfield, IL", "Springfield"},
		{"Springfield, Illinois, USA", "Springfield"},
		{"Portland , OR", "Portland"},
		{"Paris, France", "Paris"},
		{"Acme, Inc", "Acme, Inc"},
		{"Texas", "Texas"},
		{", TX", ", TX"},
	}
	for _, tt := range tests {
		if got := RemoveStateSuffixes(tt.input); got != tt.want {
			t.Errorf("RemoveStateSuffixes(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFuzzyKey(t *testing.T) {
	a := FuzzyKey("Washington  D.C., USA")
	b := FuzzyKey("Washington DC")
	if a != b {
		t.Errorf("FuzzyKey mismatch: %q vs %q", a, b)
	}
}

func TestFoldAccents(t *testing.T) {
	if got := FoldAccents("Zürich Café"); got != "Zurich Cafe" {
		t.Errorf("FoldAccents = %q", got)
	}
	if got := FoldAccents("plain"); got != "plain" {
		t.Errorf("FoldAccents(plain) = %q", got)
	}
}

// ============================================================================
// Table Operator Tests
// ============================================================================

func TestApply_CountsChangedCells(t *testing.T) {
	tbl := table.Table{{" id ", "name"}, {"1", " ann "}, {"2", "bob"}}

	out, changed := Apply(tbl, TrimWhitespace, AllCells)
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}
	want := table.Table{{"id", "name"}, {"1", "ann"}, {"2", "bob"}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("out = %v, want %v", out, want)
	}
	if tbl[1][1] != " ann " {
		t.Error("Apply modified its input")
	}

	_, changed = Apply(tbl, TrimWhitespace, DataCells)
	if changed != 1 {
		t.Errorf("DataCells changed = %d, want 1", changed)
	}

	_, changed = Apply(tbl, TrimWhitespace, ColumnData(0))
	if changed != 0 {
		t.Errorf("ColumnData(0) changed = %d, want 0", changed)
	}
}

func TestApply_RaggedRows(t *testing.T) {
	tbl := table.Table{{"a", "b"}, {"x"}, {"y", "N/A"}}
	out, changed := Apply(tbl, StandardizeNull, ColumnData(1))
	if changed != 1 || out[2][1] != "" || len(out[1]) != 1 {
		t.Errorf("out = %v changed = %d", out, changed)
	}
}

func TestChain(t *testing.T) {
	fn := Chain(TrimWhitespace, StandardizeNull, ToUpperASCII)
	if got := fn("  n/a "); got != "" {
		t.Errorf("chain(n/a) = %q", got)
	}
	if got := fn(" abc "); got != "ABC" {
		t.Errorf("chain(abc) = %q", got)
	}
}

func TestRemoveEmptyRows(t *testing.T) {
	tbl := table.Table{{"a", "b"}, {"", ""}, {"1", ""}, {""}, {"2", "3"}}
	out, removed := RemoveEmptyRows(tbl)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	want := table.Table{{"a", "b"}, {"1", ""}, {"2", "3"}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("out = %v, want %v", out, want)
	}

	hdr := table.Table{{"", ""}}
	if out, _ := RemoveEmptyRows(hdr); len(out) != 1 {
		t.Error("empty header row was dropped")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	tbl := table.Table{{"k", "v"}, {"a", "1"}, {"a", "1"}, {"b", "2"}}
	out, removed := RemoveDuplicates(tbl)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	want := table.Table{{"k", "v"}, {"a", "1"}, {"b", "2"}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("out = %v, want %v", out, want)
	}
	if CountDuplicates(tbl) != 1 {
		t.Errorf("CountDuplicates = %d", CountDuplicates(tbl))
	}
}

func TestRemoveDuplicates_ExactCellSequence(t *testing.T) {
	tests := []struct {
		name string
		tbl  table.Table
	}{
		{"embedded NUL vs split cells", table.Table{{"h"}, {"a\x00b"}, {"a", "b"}}},
		{"colon in cell", table.Table{{"h"}, {"1:a", "b"}, {"1", "a:b"}}},
		{"empty row vs empty cell", table.Table{{"h"}, {}, {""}}},
		{"trailing empty cell", table.Table{{"h"}, {"a"}, {"a", ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, removed := RemoveDuplicates(tt.tbl)
			if removed != 0 {
				t.Errorf("removed = %d, want 0", removed)
			}
			if len(out) != len(tt.tbl) {
				t.Errorf("out = %q, want %d rows", out, len(tt.tbl))
			}
			if n := CountDuplicates(tt.tbl); n != 0 {
				t.Errorf("CountDuplicates = %d, want 0", n)
			}
		})
	}
}

func TestRemoveDuplicates_HeaderNeverCandidate(t *testing.T) {
	tbl := table.Table{{"a", "1"}, {"a", "1"}, {"a", "1", ""}}
	out, removed := RemoveDuplicates(tbl)
	if removed != 0 || len(out) != 3 {
		t.Errorf("removed = %d out = %v", removed, out)
	}
}

func TestDetectionCounts(t *testing.T) {
	tbl := table.Parse("id,name,note\n1, ann ,N/A\n2,,=SUM(A1)\n3,\tbob,-\n")

	tests := []struct {
		name string
		fn   func(table.Table) int
		want int
	}{
		{"missing", CountMissing, 1},
		{"whitespace", CountWhitespace, 2},
		{"nulls", CountNulls, 3},
		{"formulas", CountFormulas, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tbl); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

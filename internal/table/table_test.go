package table

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// ============================================================================
// Parse Tests
// ============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Table
	}{
		{"empty input", "", nil},
		{"only newlines", "\n\n\r\n", nil},
		{"single cell", "a", Table{{"a"}}},
		{"header and rows", "id,name\n1,alice\n2,bob\n", Table{{"id", "name"}, {"1", "alice"}, {"2", "bob"}}},
		{"crlf", "a,b\r\n1,2\r\n", Table{{"a", "b"}, {"1", "2"}}},
		{"blank lines dropped", "a\n\n\nb\n", Table{{"a"}, {"b"}}},
		{"ragged rows kept", "a,b,c\n1\n1,2,3,4\n", Table{{"a", "b", "c"}, {"1"}, {"1", "2", "3", "4"}}},
		{"trailing empty cell kept", "a,b,\n", Table{{"a", "b", ""}}},
		{"comma only line", ",\n", Table{{"", ""}}},
		{"no trailing newline", "x,y\n1,2", Table{{"x", "y"}, {"1", "2"}}},
		{"whitespace preserved", " a , b \n", Table{{" a ", " b "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
			for i, r := range got {
				if len(r) == 0 {
					t.Errorf("row %d is empty", i)
				}
			}
		})
	}
}

func TestParseLimited_Caps(t *testing.T) {
	t.Run("input too large", func(t *testing.T) {
		_, _, err := ParseLimited("a,b\n1,2\n", Limits{MaxBytes: 4})
		if !errors.Is(err, ErrInputTooLarge) {
			t.Fatalf("err = %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("line too long", func(t *testing.T) {
		_, st, err := ParseLimited("ok\n"+strings.Repeat("x", 11)+"\n", Limits{MaxLineLength: 10})
		if !errors.Is(err, ErrLineTooLong) {
			t.Fatalf("err = %v, want ErrLineTooLong", err)
		}
		if st.Lines != 2 {
			t.Errorf("Lines = %d, want 2", st.Lines)
		}
	})

	t.Run("carriage return not counted toward length", func(t *testing.T) {
		_, _, err := ParseLimited("abcd\r\n", Limits{MaxLineLength: 4})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("line cap truncates", func(t *testing.T) {
		got, st, err := ParseLimited("h\n1\n2\n3\n4\n", Limits{MaxLines: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Table{{"h"}, {"1"}, {"2"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
		if !st.LinesTruncated {
			t.Error("expected LinesTruncated")
		}
	})

	t.Run("line cap counts blank lines", func(t *testing.T) {
		got, st, _ := ParseLimited("h\n\n1\n2\n", Limits{MaxLines: 3})
		if len(got) != 2 {
			t.Errorf("rows = %d, want 2", len(got))
		}
		if st.BlankLines != 1 {
			t.Errorf("BlankLines = %d, want 1", st.BlankLines)
		}
	})

	t.Run("exactly at line cap is not truncated", func(t *testing.T) {
		_, st, _ := ParseLimited("a\nb\n", Limits{MaxLines: 2})
		if st.LinesTruncated {
			t.Error("LinesTruncated set at exact cap")
		}
	})

	t.Run("column cap truncates", func(t *testing.T) {
		got, st, err := ParseLimited("a,b,c,d\n1,2\n", Limits{MaxColumns: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Table{{"a", "b", "c"}, {"1", "2"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
		if st.RowsTruncated != 1 {
			t.Errorf("RowsTruncated = %d, want 1", st.RowsTruncated)
		}
	})

	t.Run("defaults accept ordinary input", func(t *testing.T) {
		got, _, err := ParseLimited("a,b\n1,2\n", DefaultLimits())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("rows = %d, want 2", len(got))
		}
	})
}

// ============================================================================
// Serialize Tests
// ============================================================================

func TestSerialize(t *testing.T) {
	got := Serialize(Table{{"a", "b"}, {"1"}, {"", ""}})
	want := "a,b\n1\n,\n"
	if got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
	if Serialize(nil) != "" {
		t.Error("Serialize(nil) should be empty")
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"id,name,city\n1,alice,Oslo\n2,bob,Bergen\n",
		"x\ny\nz\n",
		"a,b\n,\n1,\n",
	}
	for _, in := range inputs {
		if got := Serialize(Parse(in)); got != in {
			t.Errorf("round trip of %q produced %q", in, got)
		}
	}

	// Missing final newline is restored.
	if got := Serialize(Parse("a,b\n1,2")); got != "a,b\n1,2\n" {
		t.Errorf("round trip without final newline = %q", got)
	}
}

// ============================================================================
// Table Method Tests
// ============================================================================

func TestTable_ColumnView(t *testing.T) {
	tbl := Table{{"a", "b"}, {"1", "2"}, {"3"}, {"5", "6"}}

	view := tbl.ColumnView(1)
	want := []Cell{{Row: 1, Value: "2"}, {Row: 3, Value: "6"}}
	if !reflect.DeepEqual(view, want) {
		t.Errorf("ColumnView(1) = %v, want %v", view, want)
	}

	if got := tbl.ColumnValues(0); !reflect.DeepEqual(got, []string{"1", "3", "5"}) {
		t.Errorf("ColumnValues(0) = %v", got)
	}
	if got := tbl.ColumnView(-1); got != nil {
		t.Errorf("ColumnView(-1) = %v, want nil", got)
	}
	if got := (Table{{"h"}}).ColumnView(0); got != nil {
		t.Errorf("header-only ColumnView = %v, want nil", got)
	}
}

func TestTable_ValidateColumn(t *testing.T) {
	tbl := Table{{"a"}, {"1", "2", "3"}}

	tests := []struct {
		col     int
		wantErr bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{-1, true},
	}
	for _, tt := range tests {
		err := tbl.ValidateColumn(tt.col)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateColumn(%d) err = %v, wantErr %v", tt.col, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidColumn) {
			t.Errorf("ValidateColumn(%d) err does not wrap ErrInvalidColumn", tt.col)
		}
	}

	if err := Table(nil).ValidateColumn(0); err == nil {
		t.Error("expected error on empty table")
	}
}

func TestTable_ColumnIndex(t *testing.T) {
	tbl := Table{{"ID", "Name", "name"}}

	tests := []struct {
		name string
		want int
	}{
		{"ID", 0},
		{"id", 0},
		{"name", 2},
		{"NAME", 1},
		{"missing", -1},
	}
	for _, tt := range tests {
		if got := tbl.ColumnIndex(tt.name); got != tt.want {
			t.Errorf("ColumnIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestTable_CloneAndWithout(t *testing.T) {
	tbl := Table{{"h"}, {"1"}, {"2"}, {"3"}}

	c := tbl.Clone()
	c[1][0] = "changed"
	if tbl[1][0] != "1" {
		t.Error("Clone aliased the source row")
	}

	got := tbl.Without(map[int]bool{0: true, 2: true})
	want := Table{{"h"}, {"1"}, {"3"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Without = %v, want %v", got, want)
	}

	if tbl.Width() != 1 || tbl.CellCount() != 4 {
		t.Errorf("Width/CellCount = %d/%d", tbl.Width(), tbl.CellCount())
	}
	if tbl.HeaderName(0) != "h" || tbl.HeaderName(5) != "" {
		t.Error("HeaderName mismatch")
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkParse(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("id,name,city,amount\n")
	for i := 0; i < 5000; i++ {
		sb.WriteString("1,Jane Doe,Springfield,1234.50\n")
	}
	input := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(input)
	}
}

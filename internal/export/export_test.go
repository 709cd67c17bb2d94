package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/csvclean/internal/table"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"excel", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, table.Table{{"a", "b"}, {"1", "x"}}, FormatCSV))
	assert.Equal(t, "a,b\n1,x\n", buf.String())
	assert.Equal(t, "clean.csv", FormatCSV.FileName("clean"))
}

func TestWriteXLSX(t *testing.T) {
	tbl := table.Table{
		{"name", "amount", "note"},
		{"Ann", "10.5", "=SUM(A1)"},
		{"Bob", "", "ok"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "amount", "note"}, rows[0])
	assert.Equal(t, "Ann", rows[1][0])
	assert.Equal(t, "10.5", rows[1][1])

	formula, err := f.GetCellFormula(DefaultSheet, "C2")
	require.NoError(t, err)
	assert.Empty(t, formula, "formula-like text must stay text")

	typ, err := f.GetCellType(DefaultSheet, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeInlineString, typ)
}

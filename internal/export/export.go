// Package export renders a table as a downloadable file.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/csvclean/internal/stats"
	"github.com/JonMunkholm/csvclean/internal/table"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultSheet names the worksheet in XLSX exports.
const DefaultSheet = "Cleaned Data"

// ParseFormat accepts "csv", "xlsx" and "excel". Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName returns base with the extension for f.
func (f Format) FileName(base string) string {
	return base + "." + string(f)
}

// Write renders t to w in format f.
func Write(w io.Writer, t table.Table, f Format) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, t, DefaultSheet)
	default:
		_, err := io.WriteString(w, table.Serialize(t))
		return err
	}
}

// WriteXLSX writes t as a single-sheet workbook. Row 0 is styled as a
// header. Cells that parse as plain numbers are stored as numbers; all
// other cells, including ones starting with '=', are stored as text so
// no formula is ever evaluated.
func WriteXLSX(w io.Writer, t table.Table, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	if width := t.Width(); width > 0 {
		if err := sw.SetColWidth(1, width, 18); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, row := range t {
		values := make([]interface{}, len(row))
		for j, v := range row {
			switch {
			case i == 0:
				values[j] = excelize.Cell{StyleID: headerStyle, Value: v}
			default:
				values[j] = cellValue(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellValue(v string) interface{} {
	if n, ok := stats.ParseNumber(v); ok {
		return n
	}
	return v
}

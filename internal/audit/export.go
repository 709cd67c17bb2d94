package audit

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const exportHeader = "ID,Timestamp,Operation,Cells Affected,Rows Before,Rows After,IP Address,User Agent,Request ID\n"

// WriteCSV writes entries as CSV with a header row.
func WriteCSV(w io.Writer, entries []Entry) error {
	var sb strings.Builder
	sb.WriteString(exportHeader)
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s,%s,%s,%d,%d,%d,%s,%s,%s\n",
			e.ID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			csvEscapeField(e.Operation),
			e.CellsAffected,
			e.RowsBefore,
			e.RowsAfter,
			csvEscapeField(e.IPAddress),
			csvEscapeField(e.UserAgent),
			csvEscapeField(e.RequestID),
		)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Export writes up to ExportLimit entries matching f as CSV.
func Export(ctx context.Context, store Store, f Filter, w io.Writer) error {
	f.Limit = ExportLimit
	f.Offset = 0
	entries, err := store.List(ctx, f)
	if err != nil {
		return err
	}
	return WriteCSV(w, entries)
}

func csvEscapeField(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

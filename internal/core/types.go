package core

import (
	"github.com/JonMunkholm/csvclean/internal/fuzzy"
	"github.com/JonMunkholm/csvclean/internal/infer"
	"github.com/JonMunkholm/csvclean/internal/stats"
	"github.com/JonMunkholm/csvclean/internal/table"
)

// Request names an operation and carries its input and parameters.
type Request struct {
	Operation string
	Data      []byte

	// Column selects a column by 0-based index. ColumnName is used when
	// Column is nil.
	Column     *int
	ColumnName string

	Threshold   float64 // 0 uses the configured default
	Mode        string  // fuzzy comparison: "direct" or "normalized"
	PatternMode string  // "first" or "any"
	FoldAccents bool

	// Mappings holds caller-supplied canonical values keyed by header
	// name, then by original value.
	Mappings map[string]map[string]string
}

// ColumnTypeInfo is one column's inferred type.
type ColumnTypeInfo struct {
	Column int              `json:"column"`
	Header string           `json:"header"`
	Type   infer.ColumnType `json:"type"`
}

// ColumnOutliers lists the rows flagged in one column and the bound used.
type ColumnOutliers struct {
	Column int         `json:"column"`
	Header string      `json:"header"`
	Bound  stats.Bound `json:"bound"`
	Rows   []int       `json:"rows"`
}

// ColumnProfile is the per-column summary returned by describe.
type ColumnProfile struct {
	Column   int                 `json:"column"`
	Header   string              `json:"header"`
	Type     infer.ColumnType    `json:"type"`
	NonEmpty int                 `json:"nonEmpty"`
	Missing  int                 `json:"missing"`
	Unique   int                 `json:"unique"`
	Numeric  *stats.Summary      `json:"numeric,omitempty"`
	Patterns infer.PatternCounts `json:"patterns"`
}

// Result is what an operation produced. Fields an operation does not use
// are left zero.
type Result struct {
	Operation string   `json:"operation"`
	Encoding  Encoding `json:"encoding"`
	Rows      int      `json:"rows"`
	Columns   int      `json:"columns"`

	// Mutating operations.
	RowsBefore    int    `json:"rowsBefore"`
	RowsAfter     int    `json:"rowsAfter"`
	RowsRemoved   int    `json:"rowsRemoved"`
	CellsAffected int    `json:"cellsAffected"`
	CSV           string `json:"csvData,omitempty"`

	// Detection operations.
	Count          *int                 `json:"count,omitempty"`
	OutlierRows    []int                `json:"outlierRows,omitempty"`
	Outliers       []ColumnOutliers     `json:"outliers,omitempty"`
	Types          []ColumnTypeInfo     `json:"types,omitempty"`
	Patterns       *infer.PatternCounts `json:"patterns,omitempty"`
	Fuzzy          []fuzzy.ColumnReport `json:"fuzzy,omitempty"`
	Profile        []ColumnProfile      `json:"profile,omitempty"`
	UnknownColumns []string             `json:"unknownColumns,omitempty"`

	LinesTruncated bool     `json:"linesTruncated,omitempty"`
	RowsTruncated  int      `json:"rowsTruncated,omitempty"`
	Notes          []string `json:"notes,omitempty"`

	// Table is the resulting table, for callers that render it themselves.
	Table table.Table `json:"-"`
}

func (r *Result) setCount(n int) {
	r.Count = &n
}

func (r *Result) note(msg string) {
	r.Notes = append(r.Notes, msg)
}

package audit

import (
	"fmt"
	"strings"
)

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(n int) string

// Dollar renders PostgreSQL style "$n" placeholders.
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// Question renders "?" placeholders.
func Question(int) string { return "?" }

// WhereBuilder accumulates AND-ed conditions and their arguments.
type WhereBuilder struct {
	placeholder Placeholder
	conditions  []string
	args        []any
	argIndex    int
}

// NewWhereBuilder returns a builder using Dollar placeholders.
func NewWhereBuilder() *WhereBuilder {
	return NewWhereBuilderWith(Dollar)
}

// NewWhereBuilderWith returns a builder using the given placeholder style.
func NewWhereBuilderWith(p Placeholder) *WhereBuilder {
	return &WhereBuilder{placeholder: p, argIndex: 1}
}

func (wb *WhereBuilder) next() string {
	s := wb.placeholder(wb.argIndex)
	wb.argIndex++
	return s
}

// Add appends "column = value". Empty values are skipped.
func (wb *WhereBuilder) Add(column, value string) {
	if value == "" {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = %s", column, wb.next()))
	wb.args = append(wb.args, value)
}

// AddCompare appends "column op value" for an arbitrary argument.
func (wb *WhereBuilder) AddCompare(column, op string, value any) {
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s %s %s", column, op, wb.next()))
	wb.args = append(wb.args, value)
}

// AddTimestampRange appends an inclusive range on column.
func (wb *WhereBuilder) AddTimestampRange(column string, start, end any) {
	wb.AddCompare(column, ">=", start)
	wb.AddCompare(column, "<=", end)
}

// NextArgIndex is the index the next placeholder will receive.
func (wb *WhereBuilder) NextArgIndex() int {
	return wb.argIndex
}

// Placeholder renders the next placeholder and reserves its index, for
// LIMIT/OFFSET style trailing arguments.
func (wb *WhereBuilder) Placeholder() string {
	return wb.next()
}

// Build returns " WHERE ..." (empty with no conditions) and the arguments.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

package audit

import (
	"testing"
)

// ============================================================================
// WhereBuilder Tests
// ============================================================================

func TestNewWhereBuilder(t *testing.T) {
	wb := NewWhereBuilder()

	if wb == nil {
		t.Fatal("NewWhereBuilder returned nil")
	}
	if wb.argIndex != 1 {
		t.Errorf("expected argIndex to be 1, got %d", wb.argIndex)
	}
	if len(wb.conditions) != 0 {
		t.Errorf("expected empty conditions, got %d", len(wb.conditions))
	}
}

func TestWhereBuilder_Build_Empty(t *testing.T) {
	whereClause, args := NewWhereBuilder().Build()

	if whereClause != "" {
		t.Errorf("expected empty string for no conditions, got %q", whereClause)
	}
	if args != nil {
		t.Errorf("expected nil args for no conditions, got %v", args)
	}
}

func TestWhereBuilder_Conditions(t *testing.T) {
	tests := []struct {
		name       string
		build      func(wb *WhereBuilder)
		style      Placeholder
		wantClause string
		wantArgs   int
	}{
		{
			name:       "single condition",
			build:      func(wb *WhereBuilder) { wb.Add("operation", "trim") },
			style:      Dollar,
			wantClause: " WHERE operation = $1",
			wantArgs:   1,
		},
		{
			name: "empty value skipped",
			build: func(wb *WhereBuilder) {
				wb.Add("operation", "")
				wb.Add("request_id", "abc")
			},
			style:      Dollar,
			wantClause: " WHERE request_id = $1",
			wantArgs:   1,
		},
		{
			name: "timestamp range",
			build: func(wb *WhereBuilder) {
				wb.Add("operation", "trim")
				wb.AddTimestampRange("created_at", 1, 2)
			},
			style:      Dollar,
			wantClause: " WHERE operation = $1 AND created_at >= $2 AND created_at <= $3",
			wantArgs:   3,
		},
		{
			name: "question placeholders",
			build: func(wb *WhereBuilder) {
				wb.Add("operation", "trim")
				wb.AddCompare("created_at", "<", 5)
			},
			style:      Question,
			wantClause: " WHERE operation = ? AND created_at < ?",
			wantArgs:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilderWith(tt.style)
			tt.build(wb)
			clause, args := wb.Build()
			if clause != tt.wantClause {
				t.Errorf("expected %q, got %q", tt.wantClause, clause)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("expected %d args, got %d", tt.wantArgs, len(args))
			}
		})
	}
}

func TestWhereBuilder_NextArgIndex(t *testing.T) {
	wb := NewWhereBuilder()
	wb.Add("a", "1")
	wb.Add("b", "")
	wb.Add("c", "3")

	if got := wb.NextArgIndex(); got != 3 {
		t.Errorf("expected next index 3, got %d", got)
	}
	if got := wb.Placeholder(); got != "$3" {
		t.Errorf("expected $3, got %q", got)
	}
	if got := wb.NextArgIndex(); got != 4 {
		t.Errorf("expected next index 4, got %d", got)
	}
}

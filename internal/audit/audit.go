// Package audit records the mutating operations run against uploaded tables.
//
// Only summary metadata is kept: which operation ran, how many cells it
// changed and the row counts before and after. Cell contents are never
// stored.
//
// Three backends implement Store: an in-process MemoryStore (default), a
// PostgreSQL store on pgxpool and a file-backed SQLite store. Entries are
// returned in insertion order.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrUnavailable is returned when the backing store cannot be reached.
var ErrUnavailable = errors.New("audit log unavailable")

// DefaultListLimit bounds List when the filter sets no limit.
const DefaultListLimit = 100

// ExportLimit bounds a single CSV export.
const ExportLimit = 50000

// Entry is a single audit log record.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	Operation     string    `json:"operation"`
	CellsAffected int       `json:"cellsAffected"`
	RowsBefore    int       `json:"rowsBefore"`
	RowsAfter     int       `json:"rowsAfter"`
	IPAddress     string    `json:"ipAddress,omitempty"`
	UserAgent     string    `json:"userAgent,omitempty"`
	RequestID     string    `json:"requestId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewEntry stamps a fresh entry with an ID and the current UTC time.
func NewEntry(operation string, cellsAffected, rowsBefore, rowsAfter int) Entry {
	return Entry{
		ID:            uuid.New(),
		Operation:     operation,
		CellsAffected: cellsAffected,
		RowsBefore:    rowsBefore,
		RowsAfter:     rowsAfter,
		CreatedAt:     time.Now().UTC(),
	}
}

// Filter narrows List and Count. Zero values mean "no constraint".
type Filter struct {
	Operation string
	Since     time.Time
	Until     time.Time
	Limit     int
	Offset    int
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

func (f Filter) matches(e Entry) bool {
	if f.Operation != "" && e.Operation != f.Operation {
		return false
	}
	if !f.Since.IsZero() && e.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.CreatedAt.After(f.Until) {
		return false
	}
	return true
}

// Store is an append-only audit log.
type Store interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, f Filter) ([]Entry, error)
	Count(ctx context.Context, f Filter) (int64, error)
	// Prune deletes entries created before cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// Backend names.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Options selects and configures a Store.
type Options struct {
	Backend    string
	DSN        string // connection string (postgres) or file path (sqlite)
	MaxConns   int32
	MaxEntries int // memory backend only; 0 keeps everything
}

// Open builds the Store named by opts.Backend and prepares its schema.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(opts.MaxEntries), nil
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DSN, opts.MaxConns)
	case BackendSQLite:
		return NewSQLiteStore(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown audit backend %q", opts.Backend)
	}
}

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS clean_audit_log (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
	operation      TEXT NOT NULL,
	cells_affected INTEGER NOT NULL,
	rows_before    INTEGER NOT NULL,
	rows_after     INTEGER NOT NULL,
	ip_address     TEXT NOT NULL DEFAULT '',
	user_agent     TEXT NOT NULL DEFAULT '',
	request_id     TEXT NOT NULL DEFAULT '',
	created_at     INTEGER NOT NULL
)`

// SQLiteStore persists entries in a local SQLite file. Timestamps are
// stored as Unix nanoseconds.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite audit store: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clean_audit_log (id, operation, cells_affected, rows_before, rows_after,
			ip_address, user_agent, request_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Operation, e.CellsAffected, e.RowsBefore, e.RowsAfter,
		e.IPAddress, e.UserAgent, e.RequestID, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func sqliteWhere(f Filter) *WhereBuilder {
	wb := NewWhereBuilderWith(Question)
	wb.Add("operation", f.Operation)
	if !f.Since.IsZero() {
		wb.AddCompare("created_at", ">=", f.Since.UnixNano())
	}
	if !f.Until.IsZero() {
		wb.AddCompare("created_at", "<=", f.Until.UnixNano())
	}
	return wb
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Entry, error) {
	wb := sqliteWhere(f)
	where, args := wb.Build()
	query := fmt.Sprintf("SELECT %s FROM clean_audit_log%s ORDER BY seq LIMIT %s OFFSET %s",
		selectColumns, where, wb.Placeholder(), wb.Placeholder())
	args = append(args, f.limit(), f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e     Entry
			id    string
			nanos int64
		)
		if err := rows.Scan(&id, &e.Operation, &e.CellsAffected, &e.RowsBefore, &e.RowsAfter,
			&e.IPAddress, &e.UserAgent, &e.RequestID, &nanos); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, nanos).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context, f Filter) (int64, error) {
	where, args := sqliteWhere(f).Build()
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clean_audit_log"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit log: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM clean_audit_log WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune audit log: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

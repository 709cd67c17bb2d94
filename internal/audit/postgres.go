package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS clean_audit_log (
	seq            BIGSERIAL PRIMARY KEY,
	id             UUID NOT NULL UNIQUE,
	operation      TEXT NOT NULL,
	cells_affected INTEGER NOT NULL,
	rows_before    INTEGER NOT NULL,
	rows_after     INTEGER NOT NULL,
	ip_address     TEXT NOT NULL DEFAULT '',
	user_agent     TEXT NOT NULL DEFAULT '',
	request_id     TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL
)`

const selectColumns = `id, operation, cells_affected, rows_before, rows_after,
	ip_address, user_agent, request_id, created_at`

// PostgresStore persists entries in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool  *pgxpool.Pool
	owned bool
}

// NewPostgresStore connects, pings and creates the audit table if needed.
func NewPostgresStore(ctx context.Context, dsn string, maxConns int32) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse audit database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s := &PostgresStore{pool: pool, owned: true}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}
	return s, nil
}

// NewPostgresStoreFromPool wraps an existing pool. The caller keeps
// ownership of the pool; Close is a no-op.
func NewPostgresStoreFromPool(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create audit table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Append(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO clean_audit_log (id, operation, cells_affected, rows_before, rows_after,
			ip_address, user_agent, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID.String(), e.Operation, e.CellsAffected, e.RowsBefore, e.RowsAfter,
		e.IPAddress, e.UserAgent, e.RequestID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func postgresWhere(f Filter) *WhereBuilder {
	wb := NewWhereBuilder()
	wb.Add("operation", f.Operation)
	if !f.Since.IsZero() {
		wb.AddCompare("created_at", ">=", f.Since)
	}
	if !f.Until.IsZero() {
		wb.AddCompare("created_at", "<=", f.Until)
	}
	return wb
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Entry, error) {
	wb := postgresWhere(f)
	where, args := wb.Build()
	query := fmt.Sprintf("SELECT %s FROM clean_audit_log%s ORDER BY seq LIMIT %s OFFSET %s",
		selectColumns, where, wb.Placeholder(), wb.Placeholder())
	args = append(args, f.limit(), f.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e  Entry
			id string
		)
		if err := rows.Scan(&id, &e.Operation, &e.CellsAffected, &e.RowsBefore, &e.RowsAfter,
			&e.IPAddress, &e.UserAgent, &e.RequestID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, f Filter) (int64, error) {
	where, args := postgresWhere(f).Build()
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM clean_audit_log"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit log: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM clean_audit_log WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit log: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Close() error {
	if s.owned {
		s.pool.Close()
	}
	return nil
}

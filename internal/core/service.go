package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/JonMunkholm/csvclean/internal/audit"
	"github.com/JonMunkholm/csvclean/internal/fuzzy"
	"github.com/JonMunkholm/csvclean/internal/infer"
	"github.com/JonMunkholm/csvclean/internal/table"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrEmptyInput       = errors.New("empty input")
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 60 * time.Second

// Config tunes a Service. Zero fields fall back to package defaults.
type Config struct {
	Limits        table.Limits
	Fuzzy         fuzzy.Options
	SampleSize    int // rows sampled for type inference
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
}

// DefaultConfig returns the limits and thresholds used when nothing is
// configured.
func DefaultConfig() Config {
	return Config{
		Limits:        table.DefaultLimits(),
		Fuzzy:         fuzzy.DefaultOptions(),
		SampleSize:    infer.DefaultSampleSize,
		MaxConcurrent: DefaultMaxConcurrentJobs,
		MaxWait:       DefaultMaxJobWait,
		Timeout:       DefaultTimeout,
	}
}

// Service runs registered operations and reports mutations to the audit
// log. It holds no per-request state and is safe for concurrent use.
type Service struct {
	cfg     Config
	limiter *JobLimiter
	audit   audit.Store
}

// NewService builds a Service. A nil store records to memory.
func NewService(cfg Config, store audit.Store) *Service {
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = infer.DefaultSampleSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Fuzzy.Threshold <= 0 || cfg.Fuzzy.Threshold > 1 {
		cfg.Fuzzy.Threshold = fuzzy.DefaultThreshold
	}
	if cfg.Fuzzy.Mode == "" {
		cfg.Fuzzy.Mode = fuzzy.ModeNormalized
	}
	if cfg.Fuzzy.MaxUnique <= 0 {
		cfg.Fuzzy.MaxUnique = fuzzy.DefaultMaxUnique
	}
	if store == nil {
		store = audit.NewMemoryStore(0)
	}

	return &Service{
		cfg:     cfg,
		limiter: NewJobLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		audit:   store,
	}
}

// Config returns the effective configuration.
func (s *Service) Config() Config { return s.cfg }

// Limiter exposes the job limiter for health reporting and shutdown.
func (s *Service) Limiter() *JobLimiter { return s.limiter }

// Audit returns the audit store mutations are recorded to.
func (s *Service) Audit() audit.Store { return s.audit }

// Load decodes raw input and tokenizes it under the configured limits.
func (s *Service) Load(raw []byte) (table.Table, table.ParseStats, Encoding, error) {
	var st table.ParseStats

	text, enc, err := Decode(raw)
	if err != nil {
		return nil, st, enc, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, st, enc, ErrEmptyInput
	}

	t, st, err := table.ParseLimited(text, s.cfg.Limits)
	if err != nil {
		return nil, st, enc, err
	}
	if len(t) == 0 {
		return nil, st, enc, ErrEmptyInput
	}
	return t, st, enc, nil
}

// Run executes req under the job limiter and the configured timeout.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	op, ok := lookup(req.Operation)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Operation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer s.limiter.Release()
		res, err := s.execute(ctx, op, req)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		if op.Info.Mutating {
			s.record(ctx, o.res)
		}
		return o.res, nil
	case <-ctx.Done():
		slog.Warn("operation abandoned", "operation", req.Operation, "error", ctx.Err())
		return nil, fmt.Errorf("%s: %w", req.Operation, ctx.Err())
	}
}

// execute runs one operation synchronously. It stops at the next stage
// boundary once ctx is done so an abandoned job frees its slot early.
func (s *Service) execute(ctx context.Context, op operation, req Request) (*Result, error) {
	start := time.Now()

	in, st, enc, err := s.Load(req.Data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j, err := s.newJob(ctx, op, req, in)
	if err != nil {
		return nil, err
	}
	j.res.Encoding = enc
	j.res.LinesTruncated = st.LinesTruncated
	j.res.RowsTruncated = st.RowsTruncated
	if st.LinesTruncated {
		j.res.note(fmt.Sprintf("input truncated after %d lines", s.cfg.Limits.MaxLines))
	}

	if err := op.Run(j); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := j.out
	if out == nil {
		out = in
	}
	res := j.res
	res.Table = out
	res.Rows = len(out)
	res.Columns = out.Width()
	if op.Info.Mutating {
		res.RowsBefore = len(in)
		res.RowsAfter = len(out)
		res.RowsRemoved = max(0, len(in)-len(out))
		res.CSV = table.Serialize(out)
	}

	slog.Debug("operation completed",
		"operation", op.Info.Name,
		"rows", res.Rows,
		"cells_affected", res.CellsAffected,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// record appends the audit entry for a mutating run. A failed append is
// logged and noted on the result; the transformed data is still returned.
func (s *Service) record(ctx context.Context, res *Result) {
	e := audit.NewEntry(res.Operation, res.CellsAffected, res.RowsBefore, res.RowsAfter)
	info := RequestInfoFromContext(ctx)
	e.IPAddress = info.IPAddress
	e.UserAgent = info.UserAgent
	e.RequestID = info.RequestID

	if err := s.audit.Append(ctx, e); err != nil {
		slog.Error("audit append failed", "operation", res.Operation, "error", err)
		res.note("audit entry not recorded")
	}
}

// AuditPage is one page of the audit log.
type AuditPage struct {
	Entries []audit.Entry `json:"entries"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// AuditLog returns the entries matching f with the total match count.
func (s *Service) AuditLog(ctx context.Context, f audit.Filter) (*AuditPage, error) {
	if f.Limit <= 0 {
		f.Limit = audit.DefaultListLimit
	}
	total, err := s.audit.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	entries, err := s.audit.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &AuditPage{Entries: entries, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// ----------------------------------------------------------------------------
// Parameter Resolution
// ----------------------------------------------------------------------------

// job is the per-run state handed to an operation.
type job struct {
	ctx         context.Context
	svc         *Service
	req         Request
	in          table.Table
	out         table.Table
	col         int // -1 when no column was given
	fuzzy       fuzzy.Options
	patternMode infer.PatternMode
	res         *Result
}

func (s *Service) newJob(ctx context.Context, op operation, req Request, in table.Table) (*job, error) {
	j := &job{
		ctx: ctx,
		svc: s,
		req: req,
		in:  in,
		col: -1,
		res: &Result{Operation: op.Info.Name},
	}

	if op.Info.Column != ColumnNone {
		col, err := resolveColumn(in, req)
		if err != nil {
			return nil, err
		}
		if col < 0 && op.Info.Column == ColumnRequired {
			return nil, fmt.Errorf("%w: %s requires a column", ErrMissingParameter, op.Info.Name)
		}
		j.col = col
	}

	opts, err := s.fuzzyOptions(req)
	if err != nil {
		return nil, err
	}
	j.fuzzy = opts

	switch infer.PatternMode(req.PatternMode) {
	case "", infer.FirstMatch:
		j.patternMode = infer.FirstMatch
	case infer.AnyMatch:
		j.patternMode = infer.AnyMatch
	default:
		return nil, fmt.Errorf("%w: pattern mode %q", ErrInvalidParameter, req.PatternMode)
	}
	return j, nil
}

// resolveColumn returns the column named by req, or -1 if none was given.
func resolveColumn(t table.Table, req Request) (int, error) {
	switch {
	case req.Column != nil:
		if err := t.ValidateColumn(*req.Column); err != nil {
			return -1, err
		}
		return *req.Column, nil
	case req.ColumnName != "":
		col := t.ColumnIndex(req.ColumnName)
		if col < 0 {
			return -1, fmt.Errorf("%w: no column named %q", table.ErrInvalidColumn, req.ColumnName)
		}
		return col, nil
	}
	return -1, nil
}

func (s *Service) fuzzyOptions(req Request) (fuzzy.Options, error) {
	opts := s.cfg.Fuzzy
	if req.Threshold != 0 {
		if math.IsNaN(req.Threshold) || req.Threshold <= 0 || req.Threshold > 1 {
			return opts, fmt.Errorf("%w: %v", ErrInvalidThreshold, req.Threshold)
		}
		opts.Threshold = req.Threshold
	}
	switch fuzzy.Mode(req.Mode) {
	case "":
	case fuzzy.ModeDirect, fuzzy.ModeNormalized:
		opts.Mode = fuzzy.Mode(req.Mode)
	default:
		return opts, fmt.Errorf("%w: mode %q", ErrInvalidParameter, req.Mode)
	}
	if req.FoldAccents {
		opts.FoldAccents = true
	}
	return opts, nil
}

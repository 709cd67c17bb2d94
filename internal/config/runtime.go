package config

import (
	"strings"

	"github.com/JonMunkholm/csvclean/internal/audit"
	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/fuzzy"
	"github.com/JonMunkholm/csvclean/internal/table"
)

// ServiceConfig translates the loaded settings into core.Service tuning.
func (c *Config) ServiceConfig() core.Config {
	return core.Config{
		Limits: table.Limits{
			MaxBytes:      c.Limits.MaxInputBytes,
			MaxLines:      c.Limits.MaxLines,
			MaxColumns:    c.Limits.MaxColumns,
			MaxLineLength: c.Limits.MaxLineLength,
		},
		Fuzzy: fuzzy.Options{
			Threshold:   c.Fuzzy.Threshold,
			Mode:        fuzzy.Mode(strings.ToLower(c.Fuzzy.Mode)),
			MaxUnique:   c.Limits.FuzzyMaxUnique,
			FoldAccents: c.Fuzzy.FoldAccents,
		},
		SampleSize:    c.Limits.InferenceSample,
		MaxConcurrent: c.Jobs.MaxConcurrent,
		MaxWait:       c.Jobs.MaxWait,
		Timeout:       c.Jobs.Timeout,
	}
}

// AuditOptions selects the audit store backend.
func (c *Config) AuditOptions() audit.Options {
	return audit.Options{
		Backend:    c.Audit.Backend,
		DSN:        c.Audit.DSN,
		MaxConns:   int32(c.Audit.MaxConns),
		MaxEntries: c.Audit.MaxEntries,
	}
}

// RetentionConfig returns the audit pruning schedule.
func (c *Config) RetentionConfig() audit.RetentionConfig {
	return audit.RetentionConfig{
		MaxAge:        c.Audit.Retention,
		CheckInterval: c.Audit.CheckInterval,
	}
}

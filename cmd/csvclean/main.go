// Command csvclean runs cleaning operations over a CSV file from the shell.
//
//	csvclean -ops trim-whitespace,remove-duplicates -o clean.csv input.csv
//	csvclean -ops clean -format xlsx -o clean.xlsx < input.csv
//	csvclean -ops describe input.csv
//
// Mutating operations are chained: each one receives the previous output.
// Read-only operations print their JSON report to stdout, or to stderr
// when a table is being written.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/csvclean/internal/config"
	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/export"
	"github.com/JonMunkholm/csvclean/internal/logging"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "csvclean: %s\n", core.FormatUserError(err))
		}
		os.Exit(1)
	}
}

type options struct {
	ops         string
	column      int
	columnName  string
	threshold   float64
	mode        string
	patternMode string
	foldAccents bool
	format      string
	output      string
	configFile  string
	debug       bool
	list        bool
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fs := flag.NewFlagSet("csvclean", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.ops, "ops", "", "Comma-separated operations to run in order")
	fs.IntVar(&o.column, "column", -1, "0-based column index for column-scoped operations")
	fs.StringVar(&o.columnName, "column-name", "", "Header name for column-scoped operations")
	fs.Float64Var(&o.threshold, "threshold", 0, "Fuzzy similarity threshold in (0, 1]")
	fs.StringVar(&o.mode, "mode", "", "Fuzzy comparison mode: direct or normalized")
	fs.StringVar(&o.patternMode, "pattern-mode", "", "Pattern counting: first or any")
	fs.BoolVar(&o.foldAccents, "fold-accents", false, "Treat accented letters as their base letter when fuzzy matching")
	fs.StringVar(&o.format, "format", "csv", "Output format: csv or xlsx")
	fs.StringVar(&o.output, "o", "", "Output file (default stdout)")
	fs.StringVar(&o.configFile, "config", os.Getenv(config.FileEnv), "TOML configuration file")
	fs.BoolVar(&o.debug, "d", false, "Debug logging")
	fs.BoolVar(&o.list, "list", false, "List available operations and exit")

	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	return o, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, rest, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if o.list {
		return listOperations(stdout)
	}

	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	logger := logging.Pretty(stderr, "csvclean", level)
	slog.SetDefault(slog.New(logger))

	ops := splitOps(o.ops)
	if len(ops) == 0 || len(rest) > 1 {
		fmt.Fprintln(stderr, "usage: csvclean -ops op1[,op2...] [flags] [file]")
		return errUsage
	}
	for _, op := range ops {
		if _, ok := core.LookupOperation(op); !ok {
			return fmt.Errorf("%w: %q", core.ErrUnknownOperation, op)
		}
	}

	format, err := export.ParseFormat(o.format)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidParameter, err)
	}

	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return err
	}
	svc := core.NewService(cfg.ServiceConfig(), nil)

	in := stdin
	if len(rest) == 1 && rest[0] != "-" {
		f, err := os.Open(rest[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	data, err := core.ReadInput(in, cfg.Limits.MaxInputBytes)
	if err != nil {
		return err
	}

	var last *core.Result
	var reports []*core.Result
	for _, op := range ops {
		req := core.Request{
			Operation:   op,
			Data:        data,
			ColumnName:  o.columnName,
			Threshold:   o.threshold,
			Mode:        o.mode,
			PatternMode: o.patternMode,
			FoldAccents: o.foldAccents,
		}
		if o.column >= 0 {
			col := o.column
			req.Column = &col
		}

		res, err := svc.Run(ctx, req)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		info, _ := core.LookupOperation(op)
		if info.Mutating {
			logger.Info("applied", "operation", op, "cells_affected", res.CellsAffected,
				"rows_before", res.RowsBefore, "rows_after", res.RowsAfter)
			data = []byte(res.CSV)
			last = res
		} else {
			reports = append(reports, res)
		}
		for _, n := range res.Notes {
			logger.Warn(n, "operation", op)
		}
	}

	reportOut := stdout
	if last != nil {
		reportOut = stderr
	}
	if err := writeReports(reportOut, reports); err != nil {
		return err
	}
	if last == nil {
		return nil
	}

	out := stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := export.Write(out, last.Table, format); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func splitOps(s string) []string {
	var ops []string
	for _, op := range strings.Split(s, ",") {
		if op = strings.TrimSpace(op); op != "" {
			ops = append(ops, op)
		}
	}
	return ops
}

func writeReports(w io.Writer, reports []*core.Result) error {
	if len(reports) == 0 {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func listOperations(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tGROUP\tCOLUMN\tDESCRIPTION")
	for _, op := range core.Operations() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.Name, op.Group, op.Column, op.Description)
	}
	return tw.Flush()
}

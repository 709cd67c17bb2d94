package core

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/JonMunkholm/csvclean/internal/fuzzy"
	"github.com/JonMunkholm/csvclean/internal/infer"
	"github.com/JonMunkholm/csvclean/internal/normalize"
	"github.com/JonMunkholm/csvclean/internal/stats"
	"github.com/JonMunkholm/csvclean/internal/table"
)

func init() {
	// Normalization
	cellOp("trim-whitespace", "Trim whitespace",
		"Strip leading and trailing spaces and tabs.", normalize.TrimWhitespace)
	cellOp("to-uppercase", "Uppercase",
		"Convert ASCII letters to upper case.", normalize.ToUpperASCII)
	cellOp("to-lowercase", "Lowercase",
		"Convert ASCII letters to lower case.", normalize.ToLowerASCII)
	cellOp("standardize-nulls", "Standardize nulls",
		"Replace placeholders such as N/A, NULL and - with empty cells.", normalize.StandardizeNull)
	register(operation{
		Info: OperationInfo{
			Name: "standardize-numbers", Group: GroupNormalize, Label: "Standardize numbers",
			Description: "Strip currency symbols and grouping; write the decimal separator as '.'.",
			Mutating:    true, Column: ColumnOptional,
		},
		Run: runStandardizeNumbers,
	})
	register(operation{
		Info: OperationInfo{
			Name: "standardize-dates", Group: GroupNormalize, Label: "Standardize dates",
			Description: "Rewrite dates as YYYY-MM-DD. Without a column, every date column is converted.",
			Mutating:    true, Column: ColumnOptional,
		},
		Run: runStandardizeDates,
	})
	register(operation{
		Info: OperationInfo{
			Name: "normalize-whitespace", Group: GroupNormalize, Label: "Collapse whitespace",
			Description: "Trim and collapse internal runs of whitespace to one space.",
			Mutating:    true, Column: ColumnOptional,
		},
		Run: func(j *job) error {
			j.apply(normalize.NormalizeWhitespace, normalize.DataCells)
			return nil
		},
	})
	register(operation{
		Info: OperationInfo{
			Name: "normalize-punctuation", Group: GroupNormalize, Label: "Normalize punctuation",
			Description: "Fold typographic dashes and quotes to ASCII and drop periods.",
			Mutating:    true, Column: ColumnRequired,
		},
		Run: func(j *job) error {
			j.apply(normalize.NormalizePunctuation, normalize.DataCells)
			return nil
		},
	})

	// Row operations
	register(operation{
		Info: OperationInfo{
			Name: "remove-empty-rows", Group: GroupRows, Label: "Remove empty rows",
			Description: "Drop data rows whose cells are all empty.", Mutating: true,
		},
		Run: func(j *job) error {
			out, _ := normalize.RemoveEmptyRows(j.in)
			j.replace(out)
			return nil
		},
	})
	register(operation{
		Info: OperationInfo{
			Name: "remove-duplicates", Group: GroupRows, Label: "Remove duplicate rows",
			Description: "Keep the first copy of each identical data row.", Mutating: true,
		},
		Run: func(j *job) error {
			out, _ := normalize.RemoveDuplicates(j.in)
			j.replace(out)
			return nil
		},
	})
	register(operation{
		Info: OperationInfo{
			Name: "remove-outliers", Group: GroupRows, Label: "Remove outliers",
			Description: "Drop rows with a value outside 1.5 IQR of its column.",
			Mutating:    true, Column: ColumnOptional,
		},
		Run: func(j *job) error {
			drop := make(map[int]bool)
			for _, r := range j.outlierRows() {
				drop[r] = true
			}
			j.replace(j.in.Without(drop))
			return nil
		},
	})
	register(operation{
		Info: OperationInfo{
			Name: "clean", Group: GroupRows, Label: "Quick clean",
			Description: "Trim whitespace, standardize nulls, then remove empty and duplicate rows.",
			Mutating:    true,
		},
		Run: runClean,
	})

	// Fuzzy consolidation
	register(operation{
		Info: OperationInfo{
			Name: "fuzzy-consolidate", Group: GroupFuzzy, Label: "Consolidate similar values",
			Description: "Merge near-duplicate values in text columns into their most frequent spelling.",
			Mutating:    true, Column: ColumnOptional,
		},
		Run: runFuzzyConsolidate,
	})
	register(operation{
		Info: OperationInfo{
			Name: "apply-mappings", Group: GroupFuzzy, Label: "Apply value mappings",
			Description: "Rewrite values through caller-supplied mappings keyed by column name.",
			Mutating:    true,
		},
		Run: runApplyMappings,
	})

	// Detection
	countOp("detect-missing", "Missing cells", "Count empty cells.", normalize.CountMissing)
	countOp("detect-duplicates", "Duplicate rows", "Count data rows repeating an earlier row.", normalize.CountDuplicates)
	countOp("detect-whitespace", "Untrimmed cells", "Count cells with leading or trailing spaces or tabs.", normalize.CountWhitespace)
	countOp("detect-nulls", "Null cells", "Count empty cells and null placeholders.", normalize.CountNulls)
	countOp("detect-formulas", "Formula cells", "Count cells starting with '=' (spreadsheet formula injection).", normalize.CountFormulas)
	register(operation{
		Info: OperationInfo{
			Name: "detect-outliers", Group: GroupDetect, Label: "Outliers",
			Description: "List rows with a value outside 1.5 IQR of its column.",
			Column:      ColumnOptional,
		},
		Run: runDetectOutliers,
	})
	register(operation{
		Info: OperationInfo{
			Name: "detect-inconsistent", Group: GroupDetect, Label: "Inconsistent values",
			Description: "Count values that have a near-duplicate spelling in the same column.",
			Column:      ColumnOptional,
		},
		Run: runDetectInconsistent,
	})
	register(operation{
		Info: OperationInfo{
			Name: "detect-patterns", Group: GroupDetect, Label: "Patterns",
			Description: "Count emails, phone numbers, postal codes and URLs.",
			Column:      ColumnOptional,
		},
		Run: runDetectPatterns,
	})
	register(operation{
		Info: OperationInfo{
			Name: "detect-encoding", Group: GroupDetect, Label: "Encoding",
			Description: "Report the character encoding the input was read as.",
		},
		Run: func(j *job) error { return nil },
	})

	// Inspection
	register(operation{
		Info: OperationInfo{
			Name: "parse", Group: GroupInspect, Label: "Parse",
			Description: "Report row and column counts.",
		},
		Run: func(j *job) error { return nil },
	})
	register(operation{
		Info: OperationInfo{
			Name: "infer-types", Group: GroupInspect, Label: "Column types",
			Description: "Infer numeric, date, boolean, text or identifying type per column.",
		},
		Run: func(j *job) error {
			j.res.Types = j.columnTypes()
			return nil
		},
	})
	register(operation{
		Info: OperationInfo{
			Name: "describe", Group: GroupInspect, Label: "Describe",
			Description: "Per-column profile: type, missing and unique counts, numeric summary, patterns.",
		},
		Run: runDescribe,
	})
}

// cellOp registers a mutating operation applying fn to every cell, or to
// the data cells of one column when a column is given.
func cellOp(name, label, description string, fn normalize.CellFunc) {
	register(operation{
		Info: OperationInfo{
			Name: name, Group: GroupNormalize, Label: label, Description: description,
			Mutating: true, Column: ColumnOptional,
		},
		Run: func(j *job) error {
			j.apply(fn, normalize.AllCells)
			return nil
		},
	})
}

// countOp registers a read-only whole-table count.
func countOp(name, label, description string, count func(table.Table) int) {
	register(operation{
		Info: OperationInfo{Name: name, Group: GroupDetect, Label: label, Description: description},
		Run: func(j *job) error {
			j.res.setCount(count(j.in))
			return nil
		},
	})
}

// ----------------------------------------------------------------------------
// Job Helpers
// ----------------------------------------------------------------------------

// apply runs fn over the selected column's data cells, or over whole when
// no column was given.
func (j *job) apply(fn normalize.CellFunc, whole normalize.Scope) {
	sc := whole
	if j.col >= 0 {
		sc = normalize.ColumnData(j.col)
	}
	j.out, j.res.CellsAffected = normalize.Apply(j.in, fn, sc)
}

// replace installs a table with rows removed. Every cell of a removed row
// counts as affected.
func (j *job) replace(out table.Table) {
	j.out = out
	j.res.CellsAffected = j.in.CellCount() - out.CellCount()
}

func (j *job) columnTypes() []ColumnTypeInfo {
	types := infer.InferTableTypes(j.in, j.svc.cfg.SampleSize)
	out := make([]ColumnTypeInfo, len(types))
	for col, typ := range types {
		out[col] = ColumnTypeInfo{Column: col, Header: j.in.HeaderName(col), Type: typ}
	}
	return out
}

func (j *job) outlierRows() []int {
	if j.col >= 0 {
		return stats.ColumnOutliers(j.in, j.col)
	}
	return stats.DetectOutliers(j.in)
}

// ----------------------------------------------------------------------------
// Operations
// ----------------------------------------------------------------------------

func runStandardizeNumbers(j *job) error {
	if j.col >= 0 {
		j.apply(normalize.StandardizeNumber, normalize.DataCells)
		return nil
	}
	// Without a column only cells that already look numeric are touched.
	j.apply(normalize.StandardizeNumberLoose, normalize.DataCells)
	return nil
}

func runStandardizeDates(j *job) error {
	if j.col >= 0 {
		j.apply(infer.StandardizeDateToISO, normalize.DataCells)
		return nil
	}

	out := j.in
	total := 0
	for _, ct := range j.columnTypes() {
		if err := j.ctx.Err(); err != nil {
			return err
		}
		if ct.Type != infer.TypeDate {
			continue
		}
		var n int
		out, n = normalize.Apply(out, infer.StandardizeDateToISO, normalize.ColumnData(ct.Column))
		total += n
	}
	j.out = out
	j.res.CellsAffected = total
	return nil
}

func runClean(j *job) error {
	trimmed, changed := normalize.Apply(j.in,
		normalize.Chain(normalize.TrimWhitespace, normalize.StandardizeNull), normalize.AllCells)
	if err := j.ctx.Err(); err != nil {
		return err
	}
	out, _ := normalize.RemoveEmptyRows(trimmed)
	out, _ = normalize.RemoveDuplicates(out)

	j.out = out
	j.res.CellsAffected = changed + trimmed.CellCount() - out.CellCount()
	return nil
}

func runFuzzyConsolidate(j *job) error {
	var cols []int
	if j.col >= 0 {
		cols = []int{j.col}
	}

	out, reports, err := fuzzy.ConsolidateContext(j.ctx, j.in, cols, j.fuzzy)
	if err != nil {
		return err
	}
	j.out = out
	j.res.Fuzzy = reports
	for _, rep := range reports {
		j.res.CellsAffected += rep.Changed
		if rep.Note != "" {
			j.res.note(fmt.Sprintf("%s: %s", rep.Header, rep.Note))
			slog.Debug("fuzzy column not consolidated", "column", rep.Header, "note", rep.Note)
		}
	}
	return nil
}

func runApplyMappings(j *job) error {
	if len(j.req.Mappings) == 0 {
		return fmt.Errorf("%w: apply-mappings requires mappings", ErrMissingParameter)
	}

	out, changed, unknown := fuzzy.ApplyColumnMappings(j.in, j.req.Mappings)
	sort.Strings(unknown)
	j.out = out
	j.res.CellsAffected = changed
	j.res.UnknownColumns = unknown
	return nil
}

func runDetectOutliers(j *job) error {
	rows := j.outlierRows()

	cols := []int{j.col}
	if j.col < 0 {
		cols = cols[:0]
		for c := 0; c < j.in.Width(); c++ {
			cols = append(cols, c)
		}
	}
	for _, c := range cols {
		b, ok := stats.ColumnBound(j.in, c)
		if !ok {
			continue
		}
		if flagged := stats.ColumnOutliers(j.in, c); len(flagged) > 0 {
			j.res.Outliers = append(j.res.Outliers, ColumnOutliers{
				Column: c, Header: j.in.HeaderName(c), Bound: b, Rows: flagged,
			})
		}
	}

	j.res.OutlierRows = rows
	j.res.setCount(len(rows))
	return nil
}

func runDetectInconsistent(j *job) error {
	if j.col < 0 {
		n, err := fuzzy.CountInconsistentContext(j.ctx, j.in, j.fuzzy)
		if err != nil {
			return err
		}
		j.res.setCount(n)
		return nil
	}

	header := j.in.HeaderName(j.col)
	if infer.IsNameColumn(header) {
		j.res.setCount(0)
		j.res.note(fmt.Sprintf("%s: identifying column excluded from fuzzy matching", header))
		return nil
	}
	res := fuzzy.BuildMapping(j.in.ColumnValues(j.col), j.fuzzy)
	if res.Skipped {
		j.res.note(fmt.Sprintf("%s: %s", header, res.Note))
	}
	j.res.setCount(res.Participants())
	return nil
}

func runDetectPatterns(j *job) error {
	var values []string
	if j.col >= 0 {
		values = j.in.ColumnValues(j.col)
	} else {
		for c := 0; c < j.in.Width(); c++ {
			values = append(values, j.in.ColumnValues(c)...)
		}
	}

	counts := infer.CountPatterns(values, j.patternMode)
	j.res.Patterns = &counts
	j.res.setCount(counts.Total())
	return nil
}

func runDescribe(j *job) error {
	dataRows := max(0, len(j.in)-1)

	for _, ct := range j.columnTypes() {
		if err := j.ctx.Err(); err != nil {
			return err
		}
		values := j.in.ColumnValues(ct.Column)
		p := ColumnProfile{Column: ct.Column, Header: ct.Header, Type: ct.Type}

		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			if v == "" {
				continue
			}
			p.NonEmpty++
			seen[v] = struct{}{}
		}
		p.Unique = len(seen)
		p.Missing = dataRows - p.NonEmpty

		if ct.Type == infer.TypeNumeric {
			if sum, ok := stats.SummarizeColumn(j.in, ct.Column); ok {
				p.Numeric = &sum
			}
		}
		p.Patterns = infer.CountPatterns(values, j.patternMode)
		j.res.Profile = append(j.res.Profile, p)
	}
	return nil
}

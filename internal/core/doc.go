// Package core runs named cleaning and analysis operations over CSV input.
//
// It sits between the transports (HTTP handlers, the CLI) and the engine
// packages, which are pure functions over a table.Table:
//
//   - table: tokenizer, serializer, limits
//   - similarity: Levenshtein distance and normalized similarity
//   - stats: IQR outlier bounds and column summaries
//   - infer: column types, date formats, text patterns
//   - normalize: cell and table operators
//   - fuzzy: near-duplicate consolidation
//
// # Request Flow
//
// [Service.Run] takes a [Request] naming an operation from the registry:
//
//  1. A job slot is taken from the [JobLimiter] (ErrTooManyJobs when busy)
//  2. The raw bytes are decoded ([Decode]) and tokenized under the
//     configured table.Limits
//  3. Parameters are resolved: column by index or header name, threshold,
//     comparison mode
//  4. The operation runs; mutating operations re-serialize the table
//  5. Mutating operations append an audit.Entry carrying the caller
//     metadata stored by [ContextWithRequestInfo]
//
// The whole call is bounded by the configured timeout. The engine itself
// is not cancellable, so a timed-out job keeps its slot until it finishes.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]:
//
//   - FILE001-FILE005: input size, line length, empty input
//   - REQ001-REQ003: unknown operation, missing or invalid parameters
//   - VAL007-VAL008: column index, similarity threshold
//   - JOB001, UPL004-UPL005: busy, cancelled, timed out
package core

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/csvclean/internal/audit"
	"github.com/JonMunkholm/csvclean/internal/core"
)

// runEnvelope is the JSON form of a run request. Raw (non-JSON) bodies are
// the CSV itself, with parameters in the query string.
type runEnvelope struct {
	CSVData     string                       `json:"csvData"`
	Column      *int                         `json:"column,omitempty"`
	ColumnName  string                       `json:"columnName,omitempty"`
	Threshold   float64                      `json:"threshold,omitempty"`
	Mode        string                       `json:"mode,omitempty"`
	PatternMode string                       `json:"patternMode,omitempty"`
	FoldAccents bool                         `json:"foldAccents,omitempty"`
	Mappings    map[string]map[string]string `json:"mappings,omitempty"`
}

// maxAuditPageSize caps ?limit= on the audit log endpoint.
const maxAuditPageSize = 1000

// isJSON reports whether the request body is a JSON envelope.
func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// decodeRunRequest reads the body and parameters of a run or export call.
// JSON bodies get twice the input budget since escaping inflates the CSV;
// the decoded CSV is still held to the configured limit by the service.
func (s *Server) decodeRunRequest(r *http.Request) (core.Request, error) {
	var req core.Request

	limit := s.cfg.Limits.MaxInputBytes
	if isJSON(r) {
		limit *= 2
	}
	body, err := core.ReadInput(r.Body, limit)
	if err != nil {
		return req, err
	}

	if isJSON(r) {
		var env runEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return req, fmt.Errorf("%w: request body: %v", core.ErrInvalidParameter, err)
		}
		return core.Request{
			Data:        []byte(env.CSVData),
			Column:      env.Column,
			ColumnName:  env.ColumnName,
			Threshold:   env.Threshold,
			Mode:        env.Mode,
			PatternMode: env.PatternMode,
			FoldAccents: env.FoldAccents,
			Mappings:    env.Mappings,
		}, nil
	}

	q := r.URL.Query()
	req = core.Request{
		Data:        body,
		ColumnName:  q.Get("columnName"),
		Mode:        q.Get("mode"),
		PatternMode: q.Get("patternMode"),
	}
	if v := q.Get("column"); v != "" {
		col, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: column %q", core.ErrInvalidParameter, v)
		}
		req.Column = &col
	}
	if v := q.Get("threshold"); v != "" {
		th, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("%w: threshold %q", core.ErrInvalidThreshold, v)
		}
		req.Threshold = th
	}
	if v := q.Get("foldAccents"); v != "" {
		fold, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: foldAccents %q", core.ErrInvalidParameter, v)
		}
		req.FoldAccents = fold
	}
	return req, nil
}

// parseAuditFilter reads operation, since, until, limit and offset.
// Times are RFC 3339 or a plain date; an until date covers the whole day.
func parseAuditFilter(r *http.Request) (audit.Filter, error) {
	q := r.URL.Query()
	f := audit.Filter{Operation: strings.TrimSpace(q.Get("operation"))}

	var err error
	if f.Limit, err = intParam(q.Get("limit"), audit.DefaultListLimit); err != nil {
		return f, err
	}
	if f.Offset, err = intParam(q.Get("offset"), 0); err != nil {
		return f, err
	}
	f.Limit = min(max(f.Limit, 1), maxAuditPageSize)
	f.Offset = max(f.Offset, 0)

	if v := q.Get("since"); v != "" {
		if f.Since, _, err = parseTime(v); err != nil {
			return f, err
		}
	}
	if v := q.Get("until"); v != "" {
		until, dateOnly, err := parseTime(v)
		if err != nil {
			return f, err
		}
		if dateOnly {
			until = until.Add(24*time.Hour - time.Nanosecond)
		}
		f.Until = until
	}
	return f, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", core.ErrInvalidParameter, v)
	}
	return n, nil
}

func parseTime(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: time %q", core.ErrInvalidParameter, v)
}

// withRequestInfo attaches the caller metadata recorded in audit entries.
// RemoteAddr has already been resolved by TrustedRealIP.
func withRequestInfo(r *http.Request) context.Context {
	return core.ContextWithRequestInfo(r.Context(), core.RequestInfo{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
		RequestID: chimw.GetReqID(r.Context()),
	})
}

package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/csvclean/internal/audit"
	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/export"
	"github.com/JonMunkholm/csvclean/internal/logging"
	"github.com/JonMunkholm/csvclean/internal/web/templates"
)

// handleIndex renders the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	params := templates.IndexParams{
		Operations: core.Operations(),
		MaxBytes:   s.cfg.Limits.MaxInputBytes,
	}
	if err := templates.Index(params).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleHealth reports liveness and job slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"jobs":   s.service.Limiter().Status(),
	})
}

// handleListOperations returns every registered operation.
func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Operations())
}

// handleRun executes one operation against the request body.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "operation")
	if _, ok := core.LookupOperation(name); !ok {
		s.respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnknownOperation, name))
		return
	}

	req, err := s.decodeRunRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	req.Operation = name

	res, err := s.service.Run(withRequestInfo(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("operation served",
		"operation", name,
		"rows", res.Rows,
		"cells_affected", res.CellsAffected,
	)
	writeJSON(w, http.StatusOK, res)
}

// handleExport parses the body under the input limits and returns it as a
// CSV or XLSX download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidParameter, err))
		return
	}

	req, err := s.decodeRunRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	t, _, _, err := s.service.Load(req.Data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, t, format); err != nil {
		s.respondError(w, r, err)
		return
	}

	name := format.FileName("cleaned_" + time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	_, _ = w.Write(buf.Bytes())
}

// handleAuditLog returns one page of audit entries as JSON.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	f, err := parseAuditFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	page, err := s.service.AuditLog(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleAuditLogExport returns matching audit entries as a CSV download.
func (s *Server) handleAuditLogExport(w http.ResponseWriter, r *http.Request) {
	f, err := parseAuditFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := audit.Export(r.Context(), s.service.Audit(), f, &buf); err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("audit_log_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = w.Write(buf.Bytes())
}

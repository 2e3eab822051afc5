package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/intake"
	"github.com/Sumatoshi-tech/codescope/internal/session"
	"github.com/Sumatoshi-tech/codescope/internal/store"
)

// maxRequestBody caps analysis submission bodies. Individual files are
// limited by intake; this bounds the batch as a whole.
const maxRequestBody = 32 << 20

// handlerFunc is an HTTP handler that reports failures as errors.
type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap converts a handlerFunc into an http.HandlerFunc, mapping domain
// errors to status codes.
func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)

		switch {
		case errors.Is(err, store.ErrNotFound), errors.Is(err, session.ErrUnknownRun):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, errBadRequest),
			errors.Is(err, analysis.ErrNoInputFiles),
			errors.Is(err, analysis.ErrNoCategoriesSelected),
			errors.Is(err, analysis.ErrUnknownCategory):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, store.ErrDuplicateID):
			writeError(w, http.StatusConflict, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// submitRequest is the analysis submission body.
type submitRequest struct {
	Files []struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	} `json:"files"`
	Config *json.RawMessage `json:"config"`
}

// handleSubmit accepts files and starts an analysis run.
// POST /v1/analyses
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if err := validateSubmitRequest(body); err != nil {
		return err
	}

	var req submitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	cfg := s.defaults
	if req.Config != nil {
		if err := json.Unmarshal(*req.Config, &cfg); err != nil {
			return fmt.Errorf("%w: %w", errBadRequest, err)
		}
	}

	files := make([]intake.RawFile, len(req.Files))
	for i, f := range req.Files {
		files[i] = intake.RawFile{Name: f.Name, Content: []byte(f.Content)}
	}

	submission, err := s.engine.SubmitAnalysis(r.Context(), files, cfg)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusAccepted, submission)
}

// handleReport fetches a result by id or "latest".
// GET /v1/reports/{id}?min_severity=medium
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	minSeverity := analysis.Severity(r.URL.Query().Get("min_severity"))
	if minSeverity != "" && !minSeverity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", errBadRequest, minSeverity)
	}

	result, err := s.engine.GetReport(r.Context(), id, minSeverity)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, result)
}

// handleRun returns the history entry for one run.
// GET /v1/runs/{id}
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	items, err := s.engine.ListHistory(r.Context(), store.Filter{}, "")
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.ID == id {
			return writeJSON(w, http.StatusOK, item)
		}
	}

	return fmt.Errorf("run %s: %w", id, store.ErrNotFound)
}

// handleCancel aborts an in-flight run.
// POST /v1/runs/{id}/cancel
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	err := s.engine.Cancel(id)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusAccepted, map[string]string{"run_id": id, "status": "cancelling"})
}

// handleHistory lists history items with filtering and sorting.
// GET /v1/history?search=&status=&range=&sort=
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	status := analysis.RunStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", errBadRequest, status)
	}

	f := store.Filter{
		Search: q.Get("search"),
		Status: status,
		Range:  store.DateRange(q.Get("range")),
	}

	key := store.SortKey(q.Get("sort"))
	if key == "" {
		key = store.SortByDate
	}

	items, err := s.engine.ListHistory(r.Context(), f, key)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleHistoryStats summarizes the history index.
// GET /v1/history/stats
func (s *Server) handleHistoryStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := s.engine.HistoryStats(r.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, stats)
}

// handleDeleteHistory removes one history item.
// DELETE /v1/history/{id}
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	deleted, err := s.engine.DeleteHistory(r.Context(), []string{id})
	if err != nil {
		return err
	}

	if deleted == 0 {
		return fmt.Errorf("history item %s: %w", id, store.ErrNotFound)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// deleteHistoryRequest is the batch history deletion body.
type deleteHistoryRequest struct {
	IDs []string `json:"ids"`
}

// handleDeleteHistoryBatch removes a set of history items, skipping unknown
// ids, and reports how many were removed.
// POST /v1/history/delete
func (s *Server) handleDeleteHistoryBatch(w http.ResponseWriter, r *http.Request) error {
	var req deleteHistoryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	if len(req.IDs) == 0 {
		return fmt.Errorf("%w: no ids given", errBadRequest)
	}

	deleted, err := s.engine.DeleteHistory(r.Context(), req.IDs)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// handleClearHistory removes all history items.
// DELETE /v1/history
func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) error {
	err := s.engine.ClearHistory(r.Context())
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// handleTrend returns per-day quality points.
// GET /v1/trend
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) error {
	points, err := s.engine.GetTrend(r.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

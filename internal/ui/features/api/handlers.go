// Package api serves check records as JSON.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Handlers provides the JSON endpoints.
type Handlers struct {
	source       display.Source
	store        core.Store
	historyLimit int
}

// NewHandlers creates a new Handlers instance. store may be nil.
func NewHandlers(source display.Source, store core.Store, historyLimit int) *Handlers {
	return &Handlers{source: source, store: store, historyLimit: historyLimit}
}

// SetupRoutes configures routes for the JSON API.
func SetupRoutes(router chi.Router, handlers *Handlers) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/checks", handlers.ListChecks)
		r.Get("/checks/{name}", handlers.GetCheck)
		r.Get("/runs", handlers.ListRuns)
	})
}

// ListChecks returns every record, most severe first.
func (h *Handlers) ListChecks(w http.ResponseWriter, _ *http.Request) {
	records, err := h.source.Records()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type checkResponse struct {
	display.Record
	History []historyEntry `json:"history,omitempty"`
}

type historyEntry struct {
	RunID      string      `json:"run_id"`
	Count      float64     `json:"count"`
	Time       float64     `json:"time"`
	Status     core.Status `json:"status"`
	RecordedAt string      `json:"recorded_at"`
}

// GetCheck returns one record and its recent history.
func (h *Handlers) GetCheck(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	record, ok, err := h.source.Record(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "check not found: "+name)
		return
	}

	resp := checkResponse{Record: record}
	if h.store != nil && h.historyLimit > 0 {
		history, err := h.store.GetCheckHistory(name, h.historyLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, s := range history {
			resp.History = append(resp.History, historyEntry{
				RunID:      s.RunID,
				Count:      s.Count,
				Time:       s.Time,
				Status:     s.Status,
				RecordedAt: s.RecordedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type runEntry struct {
	ID          string  `json:"id"`
	ChecksFile  string  `json:"checks_file"`
	Status      string  `json:"status"`
	StartedAt   string  `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
	Error       string  `json:"error,omitempty"`
}

// ListRuns returns recent batches. It is empty when history is disabled.
func (h *Handlers) ListRuns(w http.ResponseWriter, _ *http.Request) {
	entries := []runEntry{}
	if h.store != nil {
		runs, err := h.store.ListRuns(h.historyLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, run := range runs {
			e := runEntry{
				ID:         run.ID,
				ChecksFile: run.ChecksFile,
				Status:     string(run.Status),
				StartedAt:  run.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
				Error:      run.Error,
			}
			if run.CompletedAt != nil {
				completed := run.CompletedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
				e.CompletedAt = &completed
			}
			entries = append(entries, e)
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

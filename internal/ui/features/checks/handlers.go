package checks

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/internal/ui/features/checks/pages"
	"github.com/leapstack-labs/leapcheck/internal/ui/notifier"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Handlers provides HTTP handlers for the check pages.
type Handlers struct {
	source       display.Source
	store        core.Store
	notifier     *notifier.Notifier
	historyLimit int
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance. store may be nil when run
// history is disabled.
func NewHandlers(source display.Source, store core.Store, notify *notifier.Notifier, historyLimit int, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		source:       source,
		store:        store,
		notifier:     notify,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// ListPage renders every check, most severe first.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	records, err := h.source.Records()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := pages.ListPage(records).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CheckPage renders a single check. Unknown names are 404.
func (h *Handlers) CheckPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	record, ok, err := h.source.Record(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := pages.CheckPage(record, h.history(name)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListUpdates is the long-lived SSE endpoint of the list page. Initial
// content is server-rendered, so it only sends after a change.
func (h *Handlers) ListUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates, cancel := h.notifier.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			records, err := h.source.Records()
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(pages.CheckList(records)); err != nil {
				h.logger.Debug("list update failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// CheckUpdates is the long-lived SSE endpoint of a check page.
func (h *Handlers) CheckUpdates(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sse := datastar.NewSSE(w, r)

	updates, cancel := h.notifier.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			record, ok, err := h.source.Record(name)
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if !ok {
				_ = sse.ExecuteScript("window.location.assign('/')")
				return
			}
			if err := sse.PatchElementTempl(pages.CheckDetail(record, h.history(name))); err != nil {
				h.logger.Debug("check update failed", slog.String("name", name), slog.String("error", err.Error()))
				return
			}
		}
	}
}

func (h *Handlers) history(name string) []core.StoredResult {
	if h.store == nil || h.historyLimit <= 0 {
		return nil
	}
	history, err := h.store.GetCheckHistory(name, h.historyLimit)
	if err != nil {
		h.logger.Warn("failed to load check history", slog.String("name", name), slog.String("error", err.Error()))
		return nil
	}
	return history
}

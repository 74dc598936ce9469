package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 60 * time.Second

type PageHandlers struct {
	renderer
}

func NewPageHandlers(dashboard DashboardBuilder, logger *slog.Logger, opts templates.Options) *PageHandlers {
	return &PageHandlers{renderer{dashboard: dashboard, logger: logger, opts: opts}}
}

// HandleDashboard renders the whole page from the query string. It is the
// no-JavaScript path and the first load of the interactive one.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	in, inErr := filterInputFromQuery(r.URL.Query())
	view, status, err := h.view(ctx, in, inErr)
	if err != nil {
		h.logger.ErrorContext(ctx, "build page view", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	html, err := renderString(ctx, templates.Page(view))
	if err != nil {
		h.logger.ErrorContext(ctx, "render page", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write([]byte(html))
}

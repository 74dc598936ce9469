package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const version = "1.0.0"

type APIHandlers struct {
	dashboard DashboardBuilder
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard DashboardBuilder, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleDashboard returns the report for the filter in the query string,
// using the same parameters as the page form.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	in, err := filterInputFromQuery(r.URL.Query())
	if err != nil {
		errors.WriteError(w, r, h.logger, err)
		return
	}

	filter, err := services.ResolveFilter(in)
	if err != nil {
		errors.WriteError(w, r, h.logger, err)
		return
	}

	report, err := h.dashboard.Build(ctx, filter)
	if err != nil {
		errors.WriteError(w, r, h.logger, err)
		return
	}

	h.write(w, r, report, map[string]string{"Cache-Control": "no-store"})
}

func (h *APIHandlers) HandleRegions(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, models.Regions, map[string]string{"Cache-Control": "public, max-age=300"})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	}, nil)
}

func (h *APIHandlers) write(w http.ResponseWriter, r *http.Request, data any, headers map[string]string) {
	if err := errors.WriteSuccess(w, data, headers); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

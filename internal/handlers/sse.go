package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const redrawScript = "renderCharts()"

// dashboardSignals is the sidebar state held by datastar on the page.
type dashboardSignals struct {
	Region     string   `json:"region"`
	AllPeriods bool     `json:"allPeriods"`
	Year       flexInt  `json:"year"`
	Sellers    []string `json:"sellers"`
	Top        flexInt  `json:"top"`
}

func defaultSignals() dashboardSignals {
	return dashboardSignals{
		Region:     models.RegionAll.Name,
		AllPeriods: true,
		Top:        models.DefaultTopN,
	}
}

func (s dashboardSignals) input() services.FilterInput {
	return services.FilterInput{
		Region:     s.Region,
		AllPeriods: s.AllPeriods,
		Year:       int(s.Year),
		Sellers:    s.Sellers,
		TopN:       int(s.Top),
	}
}

// flexInt accepts both 2021 and "2021"; range and number inputs bound by
// datastar may hand back either.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		var f float64
		if ferr := json.Unmarshal([]byte(s), &f); ferr != nil {
			return err
		}
		v = int(f)
	}
	*n = flexInt(v)
	return nil
}

type SSEHandlers struct {
	renderer
}

func NewSSEHandlers(dashboard DashboardBuilder, logger *slog.Logger, opts templates.Options) *SSEHandlers {
	return &SSEHandlers{renderer{dashboard: dashboard, logger: logger, opts: opts}}
}

// HandleDashboard re-runs the whole pipeline for the signals on the page and
// patches the dashboard body and the seller options in place.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	signals := defaultSignals()
	var inErr error
	if err := datastar.ReadSignals(r, &signals); err != nil {
		inErr = errors.BadRequestWrap(err, "invalid dashboard signals")
	}

	view, _, err := h.view(ctx, signals.input(), inErr)
	if err != nil {
		h.logger.ErrorContext(ctx, "build dashboard view", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	body, err := renderString(ctx, templates.Body(view))
	if err != nil {
		h.logger.ErrorContext(ctx, "render dashboard body", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	sellers, err := renderString(ctx, templates.SellerFilter(view))
	if err != nil {
		h.logger.ErrorContext(ctx, "render seller filter", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)

	if err := sse.PatchElements(body); err != nil {
		h.logger.WarnContext(ctx, "patch dashboard body", "error", err)
		return
	}
	if err := sse.PatchElements(sellers); err != nil {
		h.logger.WarnContext(ctx, "patch seller filter", "error", err)
		return
	}
	if view.Error == nil {
		if err := sse.ExecuteScript(redrawScript); err != nil {
			h.logger.WarnContext(ctx, "execute redraw script", "error", err)
			return
		}
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

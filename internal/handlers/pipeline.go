package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

// DashboardBuilder runs retrieval and aggregation for one filter.
type DashboardBuilder interface {
	Build(ctx context.Context, filter models.Filter) (*models.Report, error)
}

// filterInputFromQuery reads the sidebar form. A request without a year is
// treated as "all periods", which is also the state of a fresh page load.
func filterInputFromQuery(q url.Values) (services.FilterInput, error) {
	in := services.FilterInput{
		Region:  q.Get("region"),
		Sellers: q["seller"],
	}

	year := strings.TrimSpace(q.Get("year"))
	in.AllPeriods = year == "" || isChecked(q.Get("all_periods"))
	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return in, errors.BadRequest("year must be an integer")
		}
		in.Year = y
	}

	if top := strings.TrimSpace(q.Get("top")); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil {
			return in, errors.BadRequest("top must be an integer")
		}
		in.TopN = n
	}

	return in, nil
}

func isChecked(v string) bool {
	if strings.EqualFold(v, "on") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func defaultFilter() models.Filter {
	return models.Filter{Region: models.RegionAll, TopN: models.DefaultTopN}
}

// renderer turns sidebar input into a page view. Pipeline failures become an
// error banner in the view rather than a Go error.
type renderer struct {
	dashboard DashboardBuilder
	logger    *slog.Logger
	opts      templates.Options
}

func (rd *renderer) view(ctx context.Context, in services.FilterInput, inErr error) (templates.View, int, error) {
	filter, report, err := defaultFilter(), (*models.Report)(nil), inErr
	if err == nil {
		filter, err = services.ResolveFilter(in)
		if err != nil {
			filter = defaultFilter()
		}
	}
	if err == nil {
		report, err = rd.dashboard.Build(ctx, filter)
	}

	status := http.StatusOK
	if err != nil {
		appErr := errors.As(err)
		appErr.RequestID = observability.GetRequestID(ctx)
		status = appErr.StatusCode
		err = appErr

		rd.logger.WarnContext(ctx, "dashboard render failed",
			"error_code", appErr.Code,
			"error", appErr,
		)
	}

	view, vErr := templates.NewView(rd.opts, filter, report, err)
	return view, status, vErr
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

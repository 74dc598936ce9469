// Package templates renders the dashboard page and the fragments patched
// over SSE. Components are templ components backed by html/template files.
package templates

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"slices"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

//go:embed *.html
var files embed.FS

var pageTemplates = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"chart":    chartSlot,
	"metric":   metricCard,
	"contains": contains,
}).ParseFS(files, "*.html"))

const (
	BodyID         = "dashboard-body"
	SellerFilterID = "seller-filter"
)

type Options struct {
	Title          string
	CurrencyPrefix string
}

// View is everything one render of the page needs. Report is nil when the
// pipeline failed, in which case Error is set.
type View struct {
	Title   string
	Regions []models.Region
	Filter  models.Filter
	Report  *models.Report
	Revenue string
	Sales   string
	Figures map[string]string
	Error   *errors.AppError
	Signals string
}

func NewView(opts Options, filter models.Filter, report *models.Report, err error) (View, error) {
	v := View{
		Title:   opts.Title,
		Regions: models.Regions,
		Filter:  filter,
	}

	signals, encErr := initialSignals(filter)
	if encErr != nil {
		return View{}, encErr
	}
	v.Signals = signals

	if err != nil {
		v.Error = errors.As(err)
		return v, nil
	}

	figures, encErr := encodeFigures(charts.Build(report))
	if encErr != nil {
		return View{}, fmt.Errorf("encode figures: %w", encErr)
	}

	v.Report = report
	v.Figures = figures
	v.Revenue = services.FormatNumber(report.Totals.Revenue, opts.CurrencyPrefix)
	v.Sales = services.FormatNumber(float64(report.Totals.Sales), "")
	return v, nil
}

// SellerOptions is what the seller multi-select offers: the sellers of the
// current snapshot, or the current selection when nothing was fetched.
func (v View) SellerOptions() []string {
	if v.Report != nil {
		return v.Report.SellerOptions
	}
	return v.Filter.Sellers
}

func (v View) MinYear() int { return models.MinYear }
func (v View) MaxYear() int { return models.MaxYear }

func (v View) YearValue() int {
	if v.Filter.Year == 0 {
		return models.MinYear
	}
	return v.Filter.Year
}

func Page(v View) templ.Component {
	return component("page", v)
}

func Body(v View) templ.Component {
	return component("body", v)
}

func SellerFilter(v View) templ.Component {
	return component("seller-filter", v)
}

func component(name string, v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pageTemplates.ExecuteTemplate(w, name, v)
	})
}

type chart struct {
	ID     string
	Figure string
}

func chartSlot(figures map[string]string, slot string) chart {
	return chart{ID: "chart-" + slot, Figure: figures[slot]}
}

type metric struct {
	Label string
	Value string
}

func metricCard(label, value string) metric {
	return metric{Label: label, Value: value}
}

func encodeFigures(set charts.Set) (map[string]string, error) {
	raw, err := json.Marshal(set)
	if err != nil {
		return nil, err
	}
	var slots map[string]json.RawMessage
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, err
	}
	figures := make(map[string]string, len(slots))
	for slot, fig := range slots {
		figures[slot] = string(fig)
	}
	return figures, nil
}

// initialSignals seeds the datastar store with the filter that produced the
// page, so the first interaction starts from what is on screen.
func initialSignals(f models.Filter) (string, error) {
	sellers := f.Sellers
	if sellers == nil {
		sellers = []string{}
	}
	year := f.Year
	if year == 0 {
		year = models.MinYear
	}
	b, err := json.Marshal(map[string]any{
		"region":     f.Region.Name,
		"allPeriods": f.AllPeriods(),
		"year":       year,
		"sellers":    sellers,
		"top":        f.TopN,
		"tab":        "revenue",
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func contains(list []string, s string) bool {
	return slices.Contains(list, s)
}

package charts

import (
	"fmt"
	"strconv"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	mapScope      = "south america"
	bubbleSizeMax = 20
	topLocations  = 5
)

var (
	palette = []string{"#4C72B0", "#DD8452", "#55A868", "#C44E52", "#8172B3", "#937860", "#DA8BC3", "#8C8C8C"}
	dashes  = []string{"solid", "dot", "dash", "longdash", "dashdot", "longdashdot"}
)

// Set is every figure shown on the page, one field per chart slot.
type Set struct {
	RevenueMap        Figure `json:"revenue_map"`
	RevenueMonthly    Figure `json:"revenue_monthly"`
	RevenueStates     Figure `json:"revenue_states"`
	RevenueCategories Figure `json:"revenue_categories"`
	SalesMap          Figure `json:"sales_map"`
	SalesMonthly      Figure `json:"sales_monthly"`
	SalesStates       Figure `json:"sales_states"`
	SalesCategories   Figure `json:"sales_categories"`
	SellersRevenue    Figure `json:"sellers_revenue"`
	SellersSales      Figure `json:"sellers_sales"`
}

func Build(r *models.Report) Set {
	return Set{
		RevenueMap:        LocationMap(r.LocationsByRevenue, services.ByRevenue, "Revenue by state"),
		RevenueMonthly:    MonthlyLine(r.Monthly, services.ByRevenue, "Monthly revenue"),
		RevenueStates:     LocationBar(r.LocationsByRevenue, services.ByRevenue, "Top states (revenue)"),
		RevenueCategories: CategoryBar(r.CategoriesByRevenue, services.ByRevenue, "Revenue by category", true),
		SalesMap:          LocationMap(r.LocationsBySales, services.BySales, "Sales by state"),
		SalesMonthly:      MonthlyLine(r.Monthly, services.BySales, "Monthly sales count"),
		SalesStates:       LocationBar(r.LocationsBySales, services.BySales, "Top states (sales count)"),
		SalesCategories:   CategoryBar(r.CategoriesBySales, services.BySales, "Sales by category", false),
		SellersRevenue: SellerBar(r.TopSellersByRevenue, services.ByRevenue,
			fmt.Sprintf("Top %d sellers by revenue", r.Filter.TopN)),
		SellersSales: SellerBar(r.TopSellersBySales, services.BySales,
			fmt.Sprintf("Top %d sellers by sales count", r.Filter.TopN)),
	}
}

// LocationMap draws one bubble per location, sized by metric. Hover shows the
// location name only.
func LocationMap(rows []models.LocationTotal, metric services.Metric, title string) Figure {
	lat := make([]float64, len(rows))
	lon := make([]float64, len(rows))
	names := make([]string, len(rows))
	sizes := make([]float64, len(rows))
	largest := 0.0
	for i, r := range rows {
		lat[i], lon[i], names[i] = r.Lat, r.Lon, r.Location
		sizes[i] = locationValue(r, metric)
		largest = max(largest, sizes[i])
	}

	sizeRef := 1.0
	if largest > 0 {
		sizeRef = 2 * largest / (bubbleSizeMax * bubbleSizeMax)
	}

	return Figure{
		Data: []Trace{{
			Type:          "scattergeo",
			Mode:          "markers",
			Lat:           lat,
			Lon:           lon,
			HoverText:     names,
			HoverTemplate: "<b>%{hovertext}</b><extra></extra>",
			Marker: &Marker{
				Color:    palette[0],
				Size:     sizes,
				SizeMode: "area",
				SizeRef:  sizeRef,
			},
		}},
		Layout: Layout{
			Title:      Text{Text: title},
			ShowLegend: boolPtr(false),
			Geo: &Geo{
				Scope:         mapScope,
				ShowCountries: true,
				ShowLand:      true,
				LandColor:     "#EAEAF2",
			},
		},
	}
}

// MonthlyLine draws one line per year over month names. Years differ by both
// color and dash so they stay apart in grayscale.
func MonthlyLine(rows []models.MonthlyTotal, metric services.Metric, title string) Figure {
	var years []int
	byYear := make(map[int][]models.MonthlyTotal)
	peak := 0.0
	for _, r := range rows {
		if _, ok := byYear[r.Year]; !ok {
			years = append(years, r.Year)
		}
		byYear[r.Year] = append(byYear[r.Year], r)
		peak = max(peak, monthlyValue(r, metric))
	}

	traces := make([]Trace, 0, len(years))
	for i, year := range years {
		months := byYear[year]
		x := make([]string, len(months))
		y := make([]float64, len(months))
		for j, m := range months {
			x[j] = m.MonthName
			y[j] = monthlyValue(m, metric)
		}
		traces = append(traces, Trace{
			Type: "scatter",
			Name: strconv.Itoa(year),
			Mode: "lines+markers",
			X:    x,
			Y:    y,
			Line: &Line{
				Color: palette[i%len(palette)],
				Dash:  dashes[i%len(dashes)],
			},
		})
	}

	yAxis := &Axis{Title: &Text{Text: metricTitle(metric)}}
	if peak > 0 {
		yAxis.Range = []float64{0, peak * 1.05}
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title: Text{Text: title},
			XAxis: &Axis{
				Title:         &Text{Text: "Month"},
				CategoryOrder: "array",
				CategoryArray: monthNames(),
			},
			YAxis: yAxis,
		},
	}
}

// LocationBar ranks the first five locations of rows, which must already be
// ordered by metric.
func LocationBar(rows []models.LocationTotal, metric services.Metric, title string) Figure {
	rows = rows[:min(len(rows), topLocations)]
	x := make([]string, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Location
		y[i] = locationValue(r, metric)
	}
	return verticalBar(x, y, metric, title, "State", false)
}

func CategoryBar(rows []models.CategoryTotal, metric services.Metric, title string, showLegend bool) Figure {
	x := make([]string, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Category
		if metric == services.BySales {
			y[i] = float64(r.Sales)
		} else {
			y[i] = r.Revenue
		}
	}
	return verticalBar(x, y, metric, title, "Category", showLegend)
}

// SellerBar draws horizontal bars with the best seller on top.
func SellerBar(rows []models.SellerTotal, metric services.Metric, title string) Figure {
	names := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		names[i] = r.Seller
		if metric == services.BySales {
			values[i] = float64(r.Sales)
		} else {
			values[i] = r.Revenue
		}
	}

	return Figure{
		Data: []Trace{{
			Type:         "bar",
			Name:         metricTitle(metric),
			Orientation:  "h",
			X:            values,
			Y:            names,
			Text:         labels(values, metric),
			TextPosition: "auto",
			Marker:       &Marker{Color: palette[0]},
		}},
		Layout: Layout{
			Title:      Text{Text: title},
			ShowLegend: boolPtr(false),
			XAxis:      &Axis{Title: &Text{Text: metricTitle(metric)}},
			YAxis:      &Axis{Title: &Text{Text: "Seller"}, AutoRange: "reversed"},
		},
	}
}

func verticalBar(x []string, y []float64, metric services.Metric, title, xTitle string, showLegend bool) Figure {
	return Figure{
		Data: []Trace{{
			Type:         "bar",
			Name:         metricTitle(metric),
			X:            x,
			Y:            y,
			Text:         labels(y, metric),
			TextPosition: "auto",
			Marker:       &Marker{Color: palette[0]},
		}},
		Layout: Layout{
			Title:      Text{Text: title},
			ShowLegend: boolPtr(showLegend),
			XAxis:      &Axis{Title: &Text{Text: xTitle}},
			YAxis:      &Axis{Title: &Text{Text: metricTitle(metric)}},
		},
	}
}

func labels(values []float64, metric services.Metric) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if metric == services.BySales {
			out[i] = strconv.FormatFloat(v, 'f', 0, 64)
		} else {
			out[i] = strconv.FormatFloat(v, 'f', 2, 64)
		}
	}
	return out
}

func locationValue(r models.LocationTotal, metric services.Metric) float64 {
	if metric == services.BySales {
		return float64(r.Sales)
	}
	return r.Revenue
}

func monthlyValue(r models.MonthlyTotal, metric services.Metric) float64 {
	if metric == services.BySales {
		return float64(r.Sales)
	}
	return r.Revenue
}

func metricTitle(metric services.Metric) string {
	if metric == services.BySales {
		return "Sales count"
	}
	return "Revenue"
}

func monthNames() []string {
	names := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		names = append(names, m.String())
	}
	return names
}

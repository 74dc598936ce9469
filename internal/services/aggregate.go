package services

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const maxWorkers = 4

// Metric selects the value column a ranking is ordered by.
type Metric int

const (
	ByRevenue Metric = iota
	BySales
)

func (m Metric) String() string {
	if m == BySales {
		return "sales"
	}
	return "revenue"
}

// Aggregates are the per-dimension tables of one filtered snapshot. Keyed
// tables come back in key order; rankings are derived from them.
type Aggregates struct {
	Totals     models.Totals
	Locations  []models.LocationTotal
	Monthly    []models.MonthlyTotal
	Categories []models.CategoryTotal
	Sellers    []models.SellerTotal
}

// Aggregate computes the four groupings over sales. They only read the
// snapshot, so they run side by side.
func Aggregate(ctx context.Context, sales []models.Sale) (*Aggregates, error) {
	agg := &Aggregates{Totals: TotalsOf(sales)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	g.Go(func() error {
		agg.Locations = GroupByLocation(sales)
		return ctx.Err()
	})
	g.Go(func() error {
		agg.Monthly = GroupByMonth(sales)
		return ctx.Err()
	})
	g.Go(func() error {
		agg.Categories = GroupByCategory(sales)
		return ctx.Err()
	})
	g.Go(func() error {
		agg.Sellers = GroupBySeller(sales)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return agg, nil
}

func TotalsOf(sales []models.Sale) models.Totals {
	var t models.Totals
	for _, s := range sales {
		t.Revenue += s.Price
		t.Sales++
	}
	return t
}

// GroupByLocation sums price per purchase location. Coordinates come from the
// first row seen for each location.
func GroupByLocation(sales []models.Sale) []models.LocationTotal {
	groups := make(map[string]*models.LocationTotal)
	for _, s := range sales {
		g := groups[s.Location]
		if g == nil {
			g = &models.LocationTotal{Location: s.Location, Lat: s.Lat, Lon: s.Lon}
			groups[s.Location] = g
		}
		g.Revenue += s.Price
		g.Sales++
	}

	result := make([]models.LocationTotal, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.LocationTotal) int {
		return strings.Compare(a.Location, b.Location)
	})
	return result
}

// GroupByMonth buckets sales into calendar months, oldest first. Months with
// no sales between the first and the last bucket are kept with zero values.
func GroupByMonth(sales []models.Sale) []models.MonthlyTotal {
	if len(sales) == 0 {
		return []models.MonthlyTotal{}
	}

	groups := make(map[int]*models.MonthlyTotal)
	first, last := monthIndex(sales[0].PurchaseDate), monthIndex(sales[0].PurchaseDate)
	for _, s := range sales {
		idx := monthIndex(s.PurchaseDate)
		first = min(first, idx)
		last = max(last, idx)

		g := groups[idx]
		if g == nil {
			g = newMonthlyTotal(idx)
			groups[idx] = g
		}
		g.Revenue += s.Price
		g.Sales++
	}

	result := make([]models.MonthlyTotal, 0, last-first+1)
	for idx := first; idx <= last; idx++ {
		if g := groups[idx]; g != nil {
			result = append(result, *g)
			continue
		}
		result = append(result, *newMonthlyTotal(idx))
	}
	return result
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func newMonthlyTotal(idx int) *models.MonthlyTotal {
	month := time.Month(idx%12 + 1)
	return &models.MonthlyTotal{
		Year:      idx / 12,
		Month:     month,
		MonthName: month.String(),
	}
}

func GroupByCategory(sales []models.Sale) []models.CategoryTotal {
	groups := make(map[string]*models.CategoryTotal)
	for _, s := range sales {
		g := groups[s.Category]
		if g == nil {
			g = &models.CategoryTotal{Category: s.Category}
			groups[s.Category] = g
		}
		g.Revenue += s.Price
		g.Sales++
	}

	result := make([]models.CategoryTotal, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.CategoryTotal) int {
		return strings.Compare(a.Category, b.Category)
	})
	return result
}

func GroupBySeller(sales []models.Sale) []models.SellerTotal {
	groups := make(map[string]*models.SellerTotal)
	for _, s := range sales {
		g := groups[s.Seller]
		if g == nil {
			g = &models.SellerTotal{Seller: s.Seller}
			groups[s.Seller] = g
		}
		g.Revenue += s.Price
		g.Sales++
	}

	result := make([]models.SellerTotal, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.SellerTotal) int {
		return strings.Compare(a.Seller, b.Seller)
	})
	return result
}

// rankDesc returns a copy of rows ordered by metric, highest first. Equal
// values keep their input order.
func rankDesc[T any](rows []T, metric Metric, revenue func(T) float64, sales func(T) int) []T {
	ranked := slices.Clone(rows)
	slices.SortStableFunc(ranked, func(a, b T) int {
		if metric == BySales {
			return cmp.Compare(sales(b), sales(a))
		}
		return cmp.Compare(revenue(b), revenue(a))
	})
	return ranked
}

func RankLocations(rows []models.LocationTotal, metric Metric) []models.LocationTotal {
	return rankDesc(rows, metric,
		func(r models.LocationTotal) float64 { return r.Revenue },
		func(r models.LocationTotal) int { return r.Sales })
}

func RankCategories(rows []models.CategoryTotal, metric Metric) []models.CategoryTotal {
	return rankDesc(rows, metric,
		func(r models.CategoryTotal) float64 { return r.Revenue },
		func(r models.CategoryTotal) int { return r.Sales })
}

// TopSellers ranks the seller table by metric and keeps the first n rows.
func TopSellers(rows []models.SellerTotal, metric Metric, n int) []models.SellerTotal {
	ranked := rankDesc(rows, metric,
		func(r models.SellerTotal) float64 { return r.Revenue },
		func(r models.SellerTotal) int { return r.Sales })
	n = max(n, 0)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

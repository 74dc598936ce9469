package services

import (
	"context"
	"log/slog"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// SalesSource retrieves the region/year restricted snapshot. region is the
// upstream param (empty for all) and year zero means all periods.
type SalesSource interface {
	Fetch(ctx context.Context, region string, year int) ([]models.Sale, error)
}

// Dashboard runs the retrieval and aggregation stages. It keeps no data
// between calls: every Build starts from a fresh fetch.
type Dashboard struct {
	source  SalesSource
	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

func NewDashboard(source SalesSource, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	return &Dashboard{
		source:  source,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

func (d *Dashboard) Build(ctx context.Context, filter models.Filter) (*models.Report, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.build")
	defer span.End(ctx, d.logger)
	span.SetTag("region", filter.Region.Name)

	start := time.Now()
	sales, err := d.source.Fetch(ctx, filter.Region.Param, filter.Year)
	d.metrics.ObserveFetch(err, len(sales), time.Since(start))
	if err != nil {
		span.SetError(err)
		d.metrics.ObserveBuild("upstream_error")
		return nil, errors.UpstreamWrap(err, "failed to retrieve sales data")
	}

	options := DistinctSellers(sales)
	filtered := FilterSellers(sales, filter.Sellers)

	agg, err := Aggregate(ctx, filtered)
	if err != nil {
		span.SetError(err)
		d.metrics.ObserveBuild("aggregate_error")
		return nil, errors.InternalWrap(err, "failed to aggregate sales data")
	}

	report := &models.Report{
		Filter:              filter,
		SellerOptions:       options,
		Totals:              agg.Totals,
		LocationsByRevenue:  RankLocations(agg.Locations, ByRevenue),
		LocationsBySales:    RankLocations(agg.Locations, BySales),
		Monthly:             agg.Monthly,
		CategoriesByRevenue: RankCategories(agg.Categories, ByRevenue),
		CategoriesBySales:   RankCategories(agg.Categories, BySales),
		Sellers:             agg.Sellers,
		TopSellersByRevenue: TopSellers(agg.Sellers, ByRevenue, filter.TopN),
		TopSellersBySales:   TopSellers(agg.Sellers, BySales, filter.TopN),
		GeneratedAt:         d.now().UTC(),
	}

	d.metrics.ObserveBuild("ok")
	d.logger.InfoContext(ctx, "dashboard built",
		"region", filter.Region.Name,
		"year", filter.Year,
		"sellers", len(filter.Sellers),
		"records", len(sales),
		"filtered", len(filtered),
		"duration", time.Since(start),
	)

	return report, nil
}

package services

import (
	"fmt"
	"slices"
	"strings"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// FilterInput is the raw sidebar state, before validation.
type FilterInput struct {
	Region     string
	AllPeriods bool
	Year       int
	Sellers    []string
	TopN       int
}

// ResolveFilter turns sidebar input into the filter used by one render. The
// sidebar widgets only produce valid values, so errors here mean a caller
// built the query by hand.
func ResolveFilter(in FilterInput) (models.Filter, error) {
	region, ok := models.LookupRegion(in.Region)
	if !ok {
		return models.Filter{}, errors.Validation(fmt.Sprintf("unknown region %q", in.Region))
	}

	f := models.Filter{
		Region:  region,
		Sellers: normalizeSellers(in.Sellers),
		TopN:    in.TopN,
	}

	if !in.AllPeriods {
		if in.Year < models.MinYear || in.Year > models.MaxYear {
			return models.Filter{}, errors.Validation(
				fmt.Sprintf("year must be between %d and %d, got %d", models.MinYear, models.MaxYear, in.Year))
		}
		f.Year = in.Year
	}

	if f.TopN == 0 {
		f.TopN = models.DefaultTopN
	}
	if f.TopN < models.MinTopN || f.TopN > models.MaxTopN {
		return models.Filter{}, errors.Validation(
			fmt.Sprintf("top must be between %d and %d, got %d", models.MinTopN, models.MaxTopN, in.TopN))
	}

	return f, nil
}

func normalizeSellers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DistinctSellers lists sellers in order of first appearance.
func DistinctSellers(sales []models.Sale) []string {
	seen := make(map[string]struct{})
	sellers := make([]string, 0)
	for _, s := range sales {
		if _, ok := seen[s.Seller]; ok {
			continue
		}
		seen[s.Seller] = struct{}{}
		sellers = append(sellers, s.Seller)
	}
	return sellers
}

// FilterSellers keeps the rows sold by one of the selected sellers. An empty
// selection keeps everything.
func FilterSellers(sales []models.Sale, selected []string) []models.Sale {
	if len(selected) == 0 {
		return sales
	}

	keep := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		keep[s] = struct{}{}
	}

	filtered := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if _, ok := keep[s.Seller]; ok {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

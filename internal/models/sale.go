package models

import (
	"strings"
	"time"
)

// Sale is one transaction returned by the products API.
type Sale struct {
	PurchaseDate time.Time `json:"purchase_date"`
	Price        float64   `json:"price"`
	Location     string    `json:"purchase_location"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Category     string    `json:"product_category"`
	Seller       string    `json:"seller"`
}

// Region is a geographic macro-region. Param is the value the products API
// expects in its regiao query parameter; the empty Param means every region.
type Region struct {
	Name  string `json:"name"`
	Param string `json:"param"`
}

var RegionAll = Region{Name: "All", Param: ""}

// Regions is the fixed enumeration offered by the sidebar, in display order.
var Regions = []Region{
	RegionAll,
	{Name: "North", Param: "norte"},
	{Name: "Northeast", Param: "nordeste"},
	{Name: "Central-West", Param: "centro-oeste"},
	{Name: "Southeast", Param: "sudeste"},
	{Name: "South", Param: "sul"},
}

// LookupRegion matches either the display name or the upstream param,
// ignoring case.
func LookupRegion(value string) (Region, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return RegionAll, true
	}
	for _, r := range Regions {
		if strings.EqualFold(r.Name, value) || (r.Param != "" && strings.EqualFold(r.Param, value)) {
			return r, true
		}
	}
	return Region{}, false
}

const (
	MinYear     = 2020
	MaxYear     = 2023
	MinTopN     = 2
	MaxTopN     = 10
	DefaultTopN = 5
)

// Filter is the resolved sidebar state for one render. Year zero means all
// periods; an empty Sellers slice means every seller.
type Filter struct {
	Region  Region   `json:"region"`
	Year    int      `json:"year,omitempty"`
	Sellers []string `json:"sellers"`
	TopN    int      `json:"top_n"`
}

func (f Filter) AllPeriods() bool {
	return f.Year == 0
}

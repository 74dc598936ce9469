package models

import "time"

type LocationTotal struct {
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Revenue  float64 `json:"revenue"`
	Sales    int     `json:"sales"`
}

// MonthlyTotal is one calendar-month bucket. Year is kept next to the month
// name so that the same month of different years stays apart on charts.
type MonthlyTotal struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	MonthName string     `json:"month_name"`
	Revenue   float64    `json:"revenue"`
	Sales     int        `json:"sales"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Sales    int     `json:"sales"`
}

type SellerTotal struct {
	Seller  string  `json:"seller"`
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

type Totals struct {
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

// Report holds every table derived from one filtered snapshot.
type Report struct {
	Filter              Filter          `json:"filter"`
	SellerOptions       []string        `json:"seller_options"`
	Totals              Totals          `json:"totals"`
	LocationsByRevenue  []LocationTotal `json:"locations_by_revenue"`
	LocationsBySales    []LocationTotal `json:"locations_by_sales"`
	Monthly             []MonthlyTotal  `json:"monthly"`
	CategoriesByRevenue []CategoryTotal `json:"categories_by_revenue"`
	CategoriesBySales   []CategoryTotal `json:"categories_by_sales"`
	Sellers             []SellerTotal   `json:"sellers"`
	TopSellersByRevenue []SellerTotal   `json:"top_sellers_by_revenue"`
	TopSellersBySales   []SellerTotal   `json:"top_sellers_by_sales"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

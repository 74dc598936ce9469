// Package salesapi reads sale records from the remote products API.
package salesapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const (
	dateLayout   = "2/1/2006"
	maxErrorBody = 512
)

var (
	ErrUpstream = errors.New("sales api request failed")
	ErrDecode   = errors.New("sales api response malformed")
)

// record mirrors one element of the API's JSON array. Keys the dashboard
// does not use are ignored.
type record struct {
	PurchaseDate string   `json:"Data da Compra"`
	Price        *float64 `json:"Preço"`
	Location     string   `json:"Local da compra"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	Category     string   `json:"Categoria do Produto"`
	Seller       string   `json:"Vendedor"`
}

type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

func NewClient(cfg config.SourceConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// Fetch issues one GET restricted by region (upstream param, empty for all)
// and year (zero for all) and returns the decoded records. There is no retry.
func (c *Client) Fetch(ctx context.Context, region string, year int) ([]models.Sale, error) {
	ctx, span := observability.StartSpan(ctx, "salesapi.fetch")
	defer span.End(ctx, c.logger)

	reqURL, err := c.buildURL(region, year)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag("url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
		span.SetError(err)
		return nil, err
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if records == nil {
		err := fmt.Errorf("%w: null body", ErrDecode)
		span.SetError(err)
		return nil, err
	}

	sales := make([]models.Sale, 0, len(records))
	for i, rec := range records {
		sale, err := rec.toSale()
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("%w: record %d: %v", ErrDecode, i, err)
		}
		sales = append(sales, sale)
	}

	c.logger.DebugContext(ctx, "sales fetched",
		"region", region,
		"year", year,
		"records", len(sales),
		"duration", time.Since(start),
	)

	return sales, nil
}

func (c *Client) buildURL(region string, year int) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: endpoint %q: %v", ErrUpstream, c.endpoint, err)
	}

	ano := ""
	if year != 0 {
		ano = strconv.Itoa(year)
	}

	q := u.Query()
	q.Set("regiao", strings.ToLower(region))
	q.Set("ano", ano)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Close drops idle keep-alive connections to the API.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (r record) toSale() (models.Sale, error) {
	switch {
	case r.Price == nil:
		return models.Sale{}, errors.New("missing price")
	case r.Lat == nil || r.Lon == nil:
		return models.Sale{}, errors.New("missing coordinates")
	case r.Location == "":
		return models.Sale{}, errors.New("missing purchase location")
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(r.PurchaseDate))
	if err != nil {
		return models.Sale{}, fmt.Errorf("purchase date %q: %w", r.PurchaseDate, err)
	}

	return models.Sale{
		PurchaseDate: date,
		Price:        *r.Price,
		Location:     r.Location,
		Lat:          *r.Lat,
		Lon:          *r.Lon,
		Category:     r.Category,
		Seller:       r.Seller,
	}, nil
}

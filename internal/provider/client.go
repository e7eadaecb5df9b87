package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

// Client talks to the marketplace search API. Calls are paced through a
// shared limiter so walking categories back to back stays polite.
type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *rate.Limiter
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
	}
}

// Search runs one category/strategy query and returns the raw listings,
// newest first. The response may be either {"ads":[...]} or a bare array.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("category", p.Category)
	q.Set("sort_by", "time")
	q.Set("sort_order", "desc")
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.PriceMin != nil {
		q.Set("price_min", strconv.Itoa(*p.PriceMin))
	}
	if p.PriceMax != nil {
		q.Set("price_max", strconv.Itoa(*p.PriceMax))
	}
	if p.Keywords != "" {
		q.Set("keywords", p.Keywords)
	}

	reqURL := c.cfg.BaseURL + "/api/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("search build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", p.Category, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("search %s: status %d", p.Category, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("search read body: %w", err)
	}
	return decodeListings(body)
}

func decodeListings(body []byte) ([]Listing, error) {
	var envelope struct {
		Ads []Listing `json:"ads"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Ads != nil {
		return envelope.Ads, nil
	}

	var bare []Listing
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}
	return nil, fmt.Errorf("search response is neither an ads envelope nor an array")
}

// Package rates fetches currency exchange rates, falling back to a static
// table when the rate service cannot be reached.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	. "github.com/roelfdiedericks/devkit/internal/logging"
	. "github.com/roelfdiedericks/devkit/internal/metrics"
)

// Base is the currency all rates are quoted against.
const Base = "USD"

const maxResponseBytes = 1 << 20

// Rates is a set of exchange rates quoted against USD.
type Rates struct {
	Base      string             `json:"base"`
	Date      string             `json:"date,omitempty"`
	Values    map[string]float64 `json:"rates"`
	Live      bool               `json:"live"`
	FetchedAt time.Time          `json:"fetchedAt"`

	// FallbackReason explains why the static table is in use.
	FallbackReason string `json:"fallbackReason,omitempty"`
}

// Convert converts amount between two currencies via the USD base.
func (r *Rates) Convert(amount float64, from, to string) (float64, error) {
	fromRate, err := r.rate(from)
	if err != nil {
		return 0, err
	}
	toRate, err := r.rate(to)
	if err != nil {
		return 0, err
	}
	return amount / fromRate * toRate, nil
}

func (r *Rates) rate(code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == r.Base {
		return 1, nil
	}
	v, ok := r.Values[code]
	if !ok || v <= 0 {
		return 0, fmt.Errorf("unsupported currency %q", code)
	}
	return v, nil
}

// Currencies returns the supported currency codes, sorted.
func (r *Rates) Currencies() []string {
	codes := make([]string, 0, len(r.Values)+1)
	codes = append(codes, r.Base)
	for code := range r.Values {
		if code != r.Base {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// Source fetches rates. Implemented by Client; tools accept this interface.
type Source interface {
	Latest(ctx context.Context) *Rates
}

// ClientConfig configures the rate client.
type ClientConfig struct {
	Endpoint string        // e.g. https://api.frankfurter.app
	Timeout  time.Duration // per request
	CacheTTL time.Duration // how long live rates are reused
}

// Client fetches live rates and caches them for CacheTTL.
type Client struct {
	cfg  ClientConfig
	http *http.Client

	mu     sync.Mutex
	cached *Rates
	now    func() time.Time
}

// NewClient creates a rate client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
	}
}

// Latest returns cached live rates when fresh, otherwise fetches them.
// It never fails: any fetch problem yields the static fallback table.
func (c *Client) Latest(ctx context.Context) *Rates {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.cached.FetchedAt) < c.cfg.CacheTTL {
		MetricHit("rates", "cache")
		return c.cached
	}
	MetricMiss("rates", "cache")

	start := c.now()
	live, err := c.fetch(ctx)
	MetricSince("rates", "fetch", start)
	if err != nil {
		L_warn("rates: live fetch failed, using fallback table", "endpoint", c.cfg.Endpoint, "error", err)
		MetricInc("rates", "fallback")
		return Fallback(err.Error())
	}

	live.FetchedAt = c.now()
	c.cached = live
	L_debug("rates: fetched live rates", "count", len(live.Values), "date", live.Date)
	return live
}

type latestResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

func (c *Client) fetch(ctx context.Context) (*Rates, error) {
	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/latest?from=" + Base
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed latestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("invalid response JSON: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("response contained no rates")
	}

	values := make(map[string]float64, len(parsed.Rates))
	for code, v := range parsed.Rates {
		if v > 0 {
			values[strings.ToUpper(code)] = v
		}
	}
	return &Rates{Base: Base, Date: parsed.Date, Values: values, Live: true}, nil
}

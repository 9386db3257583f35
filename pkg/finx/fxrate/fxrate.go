// Package fxrate looks up the latest exchange rate from an
// exchangerate-api compatible service.
package fxrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/Rhymond/go-money"
	"github.com/phuslu/log"

	"github.com/komsit37/finx/pkg/finx/convert"
	"github.com/komsit37/finx/pkg/finx/logx"
)

const (
	DefaultBaseURL = "https://v6.exchangerate-api.com/v6"
	DefaultTimeout = 10 * time.Second
)

// ErrRateUnavailable wraps every failure to obtain a usable rate.
var ErrRateUnavailable = errors.New("exchange rate not available")

// Fetcher returns the current USD->INR rate.
type Fetcher interface {
	FetchUSDToINR(ctx context.Context) (float64, error)
}

// Client queries GET {BaseURL}/{APIKey}/latest/{from}.
type Client struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	HTTP    *http.Client
	Logger  *log.Logger
}

// Options configures NewClient.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *log.Logger
}

// NewClient builds a Client with defaults for zero options.
func NewClient(opts Options) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(opts.BaseURL, "/"),
		APIKey:  opts.APIKey,
		Timeout: opts.Timeout,
		HTTP:    &http.Client{},
		Logger:  logx.OrDiscard(opts.Logger),
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// FetchUSDToINR implements Fetcher.
func (c *Client) FetchUSDToINR(ctx context.Context) (float64, error) {
	rate, err := c.Rate(ctx, convert.From, convert.To)
	if err != nil {
		c.Logger.Warn().Err(err).Msg("error fetching exchange rate")
		return 0, err
	}
	c.Logger.Info().Str("from", convert.From).Str("to", convert.To).Float64("rate", rate).Msg("fetched exchange rate")
	return rate, nil
}

// Rate returns how many units of to one unit of from buys. The whole
// request, body included, is bounded by c.Timeout.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if money.GetCurrency(from) == nil {
		return 0, fmt.Errorf("%w: unknown currency %q", ErrRateUnavailable, from)
	}
	if money.GetCurrency(to) == nil {
		return 0, fmt.Errorf("%w: unknown currency %q", ErrRateUnavailable, to)
	}
	if c.APIKey == "" {
		return 0, fmt.Errorf("%w: api key not configured", ErrRateUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/latest/%s", c.BaseURL, c.APIKey, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s: %v", ErrRateUnavailable, from, to, redact(err, c.APIKey))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: %s/%s: status %s", ErrRateUnavailable, from, to, resp.Status)
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %s/%s: decode: %v", ErrRateUnavailable, from, to, err)
	}
	return extract(body, to)
}

func extract(body any, to string) (float64, error) {
	result, err := jsonpath.Get("$.result", body)
	if err != nil || result != "success" {
		return 0, fmt.Errorf("%w: result %v", ErrRateUnavailable, result)
	}
	path := "$.conversion_rates." + to
	v, err := jsonpath.Get(path, body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrRateUnavailable, path, err)
	}
	// jsonpath may hand back a one-element list
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	rate, ok := v.(float64)
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: %s: not a positive number: %v", ErrRateUnavailable, path, v)
	}
	return rate, nil
}

// redact keeps the api key, which is part of the URL, out of error text.
func redact(err error, key string) string {
	if key == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), key, "***")
}

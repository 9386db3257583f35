package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/finx/pkg/finx/types"
)

// YF implements PriceSource and SummarySource on one yf-go client, which
// owns the Yahoo session (cookie and crumb).
type YF struct {
	client  *yfgo.Client
	timeout time.Duration
}

func NewYF(timeout time.Duration) *YF {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &YF{client: yfgo.NewClient(), timeout: timeout}
}

// Price reads the typed price module.
func (s *YF) Price(ctx context.Context, symbol string) (types.Info, error) {
	if symbol == "" {
		return types.Info{}, nil
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.client.QuoteSummaryTyped(cctx, symbol, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return nil, err
	}
	if res.Price == nil {
		return nil, fmt.Errorf("no price for %s", symbol)
	}

	info := types.Info{}
	if p := res.Price.RegularMarketPrice; p.Raw != nil {
		info["regularMarketPrice"] = types.Number(*p.Raw)
	}
	if res.Price.ShortName != "" {
		info["shortName"] = types.Text(res.Price.ShortName)
	}
	if res.Price.LongName != "" {
		info["longName"] = types.Text(res.Price.LongName)
	}
	return info, nil
}

// Summary fetches modules in one quoteSummary call.
func (s *YF) Summary(ctx context.Context, symbol string, modules []string) (map[string]any, error) {
	mods := make([]yfgo.QuoteSummaryModule, 0, len(modules))
	for _, m := range modules {
		mods = append(mods, yfgo.QuoteSummaryModule(m))
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.client.QuoteSummary(cctx, symbol, mods)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, fmt.Errorf("%w: %v", ErrSymbolNotFound, err)
		}
		return nil, err
	}
	return summaryMap(raw)
}

// summaryMap normalizes a quoteSummary result into module -> fields. It
// accepts the bare result object or the full {"quoteSummary": ...}
// envelope, as JSON bytes or decoded values.
func summaryMap(raw any) (map[string]any, error) {
	var m map[string]any
	switch r := raw.(type) {
	case nil:
		return nil, ErrSymbolNotFound
	case map[string]any:
		m = r
	case json.RawMessage:
		if err := json.Unmarshal(r, &m); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
	case []byte:
		if err := json.Unmarshal(r, &m); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
	default:
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode summary: %w", err)
		}
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
	}

	if len(m) == 0 {
		return nil, ErrSymbolNotFound
	}
	env, ok := m["quoteSummary"].(map[string]any)
	if !ok {
		return m, nil
	}
	if e, ok := env["error"].(map[string]any); ok {
		code, _ := e["code"].(string)
		desc, _ := e["description"].(string)
		if strings.EqualFold(code, "Not Found") {
			return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, desc)
		}
		return nil, fmt.Errorf("quoteSummary: %s", desc)
	}
	results, _ := env["result"].([]any)
	if len(results) == 0 {
		return nil, ErrSymbolNotFound
	}
	first, ok := results[0].(map[string]any)
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return first, nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/komsit37/finx/pkg/finx/fields"
	"github.com/komsit37/finx/pkg/finx/logx"
	"github.com/komsit37/finx/pkg/finx/types"
)

const (
	DefaultBaseURL = "https://query2.finance.yahoo.com"
	// DefaultUserAgent is an old IE string the quote endpoints still accept.
	DefaultUserAgent = "Mozilla/4.0 (compatible; MSIE 6.0; Windows NT 5.2; .NET CLR 1.0.3705;)"
	DefaultTimeout   = 20 * time.Second

	// earliest period1 the timeseries endpoint serves
	seriesStart = 493590046
)

var summaryModules = []string{
	"assetProfile",
	"summaryDetail",
	"financialData",
	"defaultKeyStatistics",
	"price",
	"quoteType",
}

// Options configures NewYahoo. Client identification lives here rather
// than in process-wide state.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Summary   SummarySource
	Price     PriceSource
	Logger    *log.Logger
	Now       func() time.Time
}

// Yahoo implements Provider. Company info goes through yf-go, statements
// through the fundamentals-timeseries endpoint.
type Yahoo struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	summary   SummarySource
	price     PriceSource
	logger    *log.Logger
	now       func() time.Time
}

func NewYahoo(opts Options) *Yahoo {
	y := &Yahoo{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
		http:      &http.Client{},
		summary:   opts.Summary,
		price:     opts.Price,
		logger:    logx.OrDiscard(opts.Logger),
		now:       opts.Now,
	}
	if y.baseURL == "" {
		y.baseURL = DefaultBaseURL
	}
	if y.userAgent == "" {
		y.userAgent = DefaultUserAgent
	}
	if y.timeout <= 0 {
		y.timeout = DefaultTimeout
	}
	if y.summary == nil || y.price == nil {
		yf := NewYF(y.timeout)
		if y.summary == nil {
			y.summary = yf
		}
		if y.price == nil {
			y.price = yf
		}
	}
	if y.now == nil {
		y.now = time.Now
	}
	return y
}

// Info flattens the quoteSummary modules in order, earlier modules
// winning on conflicting keys. The typed price module fills in the
// market price when the summary lacks one.
func (y *Yahoo) Info(ctx context.Context, symbol string) (types.Info, error) {
	result, err := y.summary.Summary(ctx, symbol, summaryModules)
	if err != nil {
		return nil, fmt.Errorf("info %s: %w", symbol, err)
	}

	info := types.Info{}
	for _, mod := range summaryModules {
		body, ok := result[mod].(map[string]any)
		if !ok {
			if _, present := result[mod]; present {
				y.logger.Debug().Str("symbol", symbol).Str("module", mod).Msg("skip module")
			}
			continue
		}
		mergeMissing(info, flatten(body))
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("info %s: %w", symbol, ErrSymbolNotFound)
	}
	if _, ok := info["fullExchangeName"]; !ok {
		if v, ok := info["exchangeName"]; ok {
			info["fullExchangeName"] = v
		}
	}

	if v, ok := info["regularMarketPrice"]; !ok || v.Kind == types.KindMissing {
		if p, err := y.price.Price(ctx, symbol); err != nil {
			y.logger.Debug().Str("symbol", symbol).Err(err).Msg("price module lookup failed")
		} else {
			for k, pv := range p {
				if cur, ok := info[k]; !ok || cur.Kind == types.KindMissing {
					info[k] = pv
				}
			}
		}
	}
	return info, nil
}

func (y *Yahoo) IncomeStatement(ctx context.Context, symbol string) (types.RawStatement, error) {
	return y.statement(ctx, symbol, "annual", fields.IncomeStatement)
}

func (y *Yahoo) QuarterlyIncomeStatement(ctx context.Context, symbol string) (types.RawStatement, error) {
	return y.statement(ctx, symbol, "quarterly", fields.QuarterlyIncome)
}

func (y *Yahoo) BalanceSheet(ctx context.Context, symbol string) (types.RawStatement, error) {
	return y.statement(ctx, symbol, "annual", fields.BalanceSheet)
}

func (y *Yahoo) CashFlow(ctx context.Context, symbol string) (types.RawStatement, error) {
	return y.statement(ctx, symbol, "annual", fields.CashFlow)
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type seriesPoint struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw *float64 `json:"raw"`
	} `json:"reportedValue"`
}

// statement reads one fundamentals-timeseries statement. Rows follow the
// requested order, periods run latest first.
func (y *Yahoo) statement(ctx context.Context, symbol, prefix string, want fields.List) (types.RawStatement, error) {
	keys := make([]string, 0, len(want))
	labels := make(map[string]string, len(want))
	for _, f := range want {
		k := prefix + strings.ReplaceAll(f, " ", "")
		keys = append(keys, k)
		labels[k] = f
	}

	var resp struct {
		Timeseries struct {
			Result []map[string]json.RawMessage `json:"result"`
			Error  *yahooError                  `json:"error"`
		} `json:"timeseries"`
	}
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("type", strings.Join(keys, ","))
	q.Set("period1", strconv.Itoa(seriesStart))
	q.Set("period2", strconv.FormatInt(y.now().Unix(), 10))
	u := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s",
		y.baseURL, url.PathEscape(symbol), q.Encode())
	if err := y.getJSON(ctx, u, &resp); err != nil {
		return types.RawStatement{}, fmt.Errorf("%s statement %s: %w", prefix, symbol, err)
	}
	if e := resp.Timeseries.Error; e != nil {
		return types.RawStatement{}, fmt.Errorf("%s statement %s: %s", prefix, symbol, e.Description)
	}

	byKey := map[string][]seriesPoint{}
	for _, res := range resp.Timeseries.Result {
		var meta struct {
			Type []string `json:"type"`
		}
		if err := json.Unmarshal(res["meta"], &meta); err != nil || len(meta.Type) == 0 {
			continue
		}
		typ := meta.Type[0]
		raw, ok := res[typ]
		if !ok {
			continue
		}
		var points []*seriesPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			y.logger.Debug().Str("symbol", symbol).Str("type", typ).Err(err).Msg("skip series")
			continue
		}
		for _, p := range points {
			if p != nil {
				byKey[typ] = append(byKey[typ], *p)
			}
		}
	}
	return buildStatement(keys, labels, byKey), nil
}

// buildStatement lays series out as a statement labelled with the
// requested field names.
func buildStatement(keys []string, labels map[string]string, byKey map[string][]seriesPoint) types.RawStatement {
	cols := map[time.Time]map[string]types.Value{}
	var st types.RawStatement
	for _, k := range keys {
		points := byKey[k]
		if len(points) == 0 {
			continue
		}
		label := labels[k]
		st.Labels = append(st.Labels, label)
		for _, p := range points {
			d, err := time.Parse("2006-01-02", p.AsOfDate)
			if err != nil {
				continue
			}
			if cols[d] == nil {
				cols[d] = map[string]types.Value{}
			}
			if p.ReportedValue.Raw == nil {
				cols[d][label] = types.Missing()
				continue
			}
			cols[d][label] = types.Number(*p.ReportedValue.Raw)
		}
	}
	periods := make([]time.Time, 0, len(cols))
	for d := range cols {
		periods = append(periods, d)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].After(periods[j]) })
	for _, d := range periods {
		st.Columns = append(st.Columns, types.Column{Period: d, Values: cols[d]})
	}
	return st
}

func (y *Yahoo) getJSON(ctx context.Context, u string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", y.userAgent)
	resp, err := y.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// flatten turns Yahoo {raw, fmt} objects into raw values and drops empty objects.
func flatten(m map[string]any) types.Info {
	out := types.Info{}
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			if len(t) == 0 {
				continue
			}
			if raw, ok := t["raw"]; ok {
				out[k] = types.Scalar(raw)
				continue
			}
			out[k] = types.Scalar(t)
		case nil:
			out[k] = types.Missing()
		default:
			out[k] = types.Scalar(t)
		}
	}
	return out
}

func mergeMissing(dst, src types.Info) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

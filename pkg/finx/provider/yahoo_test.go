package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/finx/pkg/finx/types"
)

type fakePrice struct {
	info  types.Info
	err   error
	calls int
}

func (f *fakePrice) Price(context.Context, string) (types.Info, error) {
	f.calls++
	return f.info, f.err
}

type fakeSummary struct {
	body    string
	err     error
	modules []string
}

func (f *fakeSummary) Summary(_ context.Context, _ string, modules []string) (map[string]any, error) {
	f.modules = modules
	if f.err != nil {
		return nil, f.err
	}
	return summaryMap([]byte(f.body))
}

const summaryJSON = `{"quoteSummary":{"result":[{
  "assetProfile":{"website":"https://www.infosys.com","industry":"Information Technology Services","longBusinessSummary":"Infosys Limited provides consulting.","fullTimeEmployees":317240},
  "summaryDetail":{"previousClose":{"raw":19.1,"fmt":"19.10"},"dayLow":{"raw":18.9,"fmt":"18.90"},"beta":{},"currency":"USD"},
  "financialData":{"currentPrice":{"raw":19.2,"fmt":"19.20"},"totalCash":{"raw":3000000000,"fmt":"3B"}},
  "price":{"shortName":"Infosys Limited","exchangeName":"NSE","regularMarketPrice":{"raw":19.2,"fmt":"19.20"}},
  "quoteType":{"shortName":"ignored","exchange":"NSI"}
}],"error":null}}`

const noPriceJSON = `{"quoteSummary":{"result":[{
  "price":{"shortName":"Infosys Limited","regularMarketPrice":{}},
  "quoteType":{"exchange":"NSI"}
}],"error":null}}`

const seriesJSON = `{"timeseries":{"result":[
 {"meta":{"symbol":["INFY.NS"],"type":["annualTotalRevenue"]},"timestamp":[1,2],
  "annualTotalRevenue":[
   {"asOfDate":"2023-03-31","periodType":"12M","currencyCode":"USD","reportedValue":{"raw":18212,"fmt":"18.2B"}},
   null,
   {"asOfDate":"2024-03-31","periodType":"12M","currencyCode":"USD","reportedValue":{"raw":18562,"fmt":"18.6B"}}]},
 {"meta":{"symbol":["INFY.NS"],"type":["annualNetIncome"]},"timestamp":[2],
  "annualNetIncome":[{"asOfDate":"2024-03-31","reportedValue":{"raw":3169}}]},
 {"meta":{"symbol":["INFY.NS"],"type":["annualEBITDA"]}}
],"error":null}}`

func newTestYahoo(t *testing.T, h http.HandlerFunc) (*Yahoo, *[]*http.Request) {
	t.Helper()
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	y := NewYahoo(Options{
		BaseURL:   srv.URL,
		UserAgent: "finx-test",
		Summary:   &fakeSummary{body: summaryJSON},
		Price:     &fakePrice{info: types.Info{"longName": types.Text("Infosys Limited"), "shortName": types.Text("other")}},
		Now:       func() time.Time { return time.Unix(1700000000, 0) },
	})
	return y, &seen
}

func TestInfoFlattensSummaryModules(t *testing.T) {
	summary := &fakeSummary{body: summaryJSON}
	price := &fakePrice{info: types.Info{"longName": types.Text("from price")}}
	y := NewYahoo(Options{Summary: summary, Price: price})

	info, err := y.Info(context.Background(), "INFY.NS")
	require.NoError(t, err)

	assert.Equal(t, summaryModules, summary.modules)
	assert.Equal(t, types.Text("https://www.infosys.com"), info["website"])
	assert.Equal(t, types.Number(19.1), info["previousClose"])
	assert.Equal(t, types.Number(3000000000), info["totalCash"])
	assert.Equal(t, types.Number(317240), info["fullTimeEmployees"])
	assert.Equal(t, types.Number(19.2), info["regularMarketPrice"])
	assert.NotContains(t, info, "beta")
	// price module is listed before quoteType
	assert.Equal(t, types.Text("Infosys Limited"), info["shortName"])
	assert.Equal(t, types.Text("NSI"), info["exchange"])
	assert.Equal(t, types.Text("NSE"), info["fullExchangeName"])

	// summary already carries a market price
	assert.Zero(t, price.calls)
	assert.NotContains(t, info, "longName")
}

func TestInfoFallsBackToPriceModule(t *testing.T) {
	price := &fakePrice{info: types.Info{
		"regularMarketPrice": types.Number(1600.5),
		"shortName":          types.Text("other"),
		"longName":           types.Text("Infosys Limited"),
	}}
	y := NewYahoo(Options{Summary: &fakeSummary{body: noPriceJSON}, Price: price})

	info, err := y.Info(context.Background(), "INFY.NS")
	require.NoError(t, err)
	assert.Equal(t, 1, price.calls)
	assert.Equal(t, types.Number(1600.5), info["regularMarketPrice"])
	assert.Equal(t, types.Text("Infosys Limited"), info["shortName"])
	assert.Equal(t, types.Text("Infosys Limited"), info["longName"])
}

func TestInfoPriceFailureIsNotFatal(t *testing.T) {
	price := &fakePrice{err: errors.New("offline")}
	y := NewYahoo(Options{Summary: &fakeSummary{body: noPriceJSON}, Price: price})

	info, err := y.Info(context.Background(), "INFY.NS")
	require.NoError(t, err)
	assert.Equal(t, 1, price.calls)
	assert.NotContains(t, info, "regularMarketPrice")
	assert.NotContains(t, info, "longName")
}

func TestInfoNotFound(t *testing.T) {
	y := NewYahoo(Options{
		Summary: &fakeSummary{body: `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol: NOPE"}}}`},
		Price:   &fakePrice{},
	})
	_, err := y.Info(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrSymbolNotFound)
	assert.Contains(t, err.Error(), "NOPE")

	y = NewYahoo(Options{Summary: &fakeSummary{body: `{"quoteSummary":{"result":[{}],"error":null}}`}, Price: &fakePrice{}})
	_, err = y.Info(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrSymbolNotFound)

	y = NewYahoo(Options{Summary: &fakeSummary{err: errors.New("dial tcp: timeout")}, Price: &fakePrice{}})
	_, err = y.Info(context.Background(), "INFY.NS")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSymbolNotFound)
}

func TestSummaryMap(t *testing.T) {
	m, err := summaryMap(map[string]any{"price": map[string]any{"shortName": "X"}})
	require.NoError(t, err)
	assert.Contains(t, m, "price")

	m, err = summaryMap(json.RawMessage(summaryJSON))
	require.NoError(t, err)
	assert.Contains(t, m, "assetProfile")

	type typed struct {
		Price struct {
			ShortName string `json:"shortName"`
		} `json:"price"`
	}
	var v typed
	v.Price.ShortName = "Infosys Limited"
	m, err = summaryMap(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"shortName": "Infosys Limited"}, m["price"])

	_, err = summaryMap(nil)
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = summaryMap([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = summaryMap([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Bad Request","description":"invalid module"}}}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSymbolNotFound)
	assert.Contains(t, err.Error(), "invalid module")

	_, err = summaryMap([]byte(`not json`))
	assert.Error(t, err)
}

func TestIncomeStatement(t *testing.T) {
	y, seen := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, seriesJSON)
	})

	st, err := y.IncomeStatement(context.Background(), "INFY.NS")
	require.NoError(t, err)

	// rows follow the requested allow-list order; EBITDA has no points
	assert.Equal(t, []string{"Net Income", "Total Revenue"}, st.Labels)
	require.Len(t, st.Columns, 2)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), st.Columns[0].Period)
	assert.Equal(t, types.Number(18562), st.Columns[0].Values["Total Revenue"])
	assert.Equal(t, types.Number(3169), st.Columns[0].Values["Net Income"])
	assert.NotContains(t, st.Columns[1].Values, "Net Income")

	q := (*seen)[0].URL.Query()
	assert.Equal(t, "INFY.NS", q.Get("symbol"))
	assert.Equal(t, "1700000000", q.Get("period2"))
	assert.True(t, strings.HasPrefix(q.Get("type"), "annualTaxRateForCalcs,annualNetIncomeFromContinuingOperationNetMinorityInterest,"))
}

func TestQuarterlyEmpty(t *testing.T) {
	y, seen := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"timeseries":{"result":[],"error":null}}`)
	})
	st, err := y.QuarterlyIncomeStatement(context.Background(), "INFY.NS")
	require.NoError(t, err)
	assert.True(t, st.Empty())
	assert.Contains(t, (*seen)[0].URL.Query().Get("type"), "quarterlyNormalizedEBITDA")
}

func TestStatementStatusError(t *testing.T) {
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many", http.StatusTooManyRequests)
	})
	_, err := y.BalanceSheet(context.Background(), "INFY.NS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	_, err = y.CashFlow(context.Background(), "INFY.NS")
	require.Error(t, err)
}

func TestBuildStatement(t *testing.T) {
	var byKey map[string][]seriesPoint
	require.NoError(t, json.Unmarshal([]byte(`{
		"annualTaxRateForCalcs": [
			{"asOfDate": "2023-03-31", "reportedValue": {"raw": 0.27}},
			{"asOfDate": "2024-03-31", "reportedValue": {"raw": 0.26}}
		],
		"annualNetPPE": [
			{"asOfDate": "2024-03-31", "reportedValue": {}},
			{"asOfDate": "bad", "reportedValue": {"raw": 1}}
		]
	}`), &byKey))
	keys := []string{"annualNetPPE", "annualTaxRateForCalcs", "annualEBITDA"}
	labels := map[string]string{
		"annualNetPPE":          "Net PPE",
		"annualTaxRateForCalcs": "Tax Rate For Calcs",
		"annualEBITDA":          "EBITDA",
	}

	st := buildStatement(keys, labels, byKey)

	assert.Equal(t, []string{"Net PPE", "Tax Rate For Calcs"}, st.Labels)
	require.Len(t, st.Columns, 2)
	assert.Equal(t, 2024, st.Columns[0].Period.Year())
	assert.Equal(t, types.KindMissing, st.Columns[0].Values["Net PPE"].Kind)
	assert.Equal(t, 0.26, st.Columns[0].Values["Tax Rate For Calcs"].Scalar)
	assert.NotContains(t, st.Columns[1].Values, "Net PPE")
}

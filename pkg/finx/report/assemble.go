package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/komsit37/finx/pkg/finx/fields"
	"github.com/komsit37/finx/pkg/finx/provider"
	"github.com/komsit37/finx/pkg/finx/types"
)

// Price returns the price snapshot for symbol. Missing fields are null.
func (a *Assembler) Price(ctx context.Context, symbol string) (out types.Payload) {
	defer guard(&out, a.logger(), "price")

	c := a.prepare(ctx, symbol)
	info, err := a.Provider.Info(ctx, symbol)
	if err != nil {
		a.logger().Error().Str("symbol", symbol).Err(err).Msg("price fetch failed")
		return ErrorPayload(err)
	}
	p := types.Payload(fields.Pick(info, fields.PriceSnapshot))
	return a.finish(p, symbol, "price", c)
}

// Financials returns the three statements and company info for symbol.
// Fields absent from the source are omitted.
func (a *Assembler) Financials(ctx context.Context, symbol string) (out types.Payload) {
	defer guard(&out, a.logger(), "financials")

	c := a.prepare(ctx, symbol)
	lg := a.logger()

	income, err := a.Provider.IncomeStatement(ctx, symbol)
	if err != nil {
		lg.Error().Str("symbol", symbol).Err(err).Msg("income statement fetch failed")
		return ErrorPayload(err)
	}
	balance, err := a.Provider.BalanceSheet(ctx, symbol)
	if err != nil {
		lg.Error().Str("symbol", symbol).Err(err).Msg("balance sheet fetch failed")
		return ErrorPayload(err)
	}
	cash, err := a.Provider.CashFlow(ctx, symbol)
	if err != nil {
		lg.Error().Str("symbol", symbol).Err(err).Msg("cash flow fetch failed")
		return ErrorPayload(err)
	}
	info, err := a.Provider.Info(ctx, symbol)
	if err != nil {
		lg.Error().Str("symbol", symbol).Err(err).Msg("info fetch failed")
		return ErrorPayload(err)
	}

	p := types.Payload{
		string(fields.CategoryIncomeStatement): fields.Statement(income, fields.IncomeStatement),
		string(fields.CategoryBalanceSheet):    fields.Statement(balance, fields.BalanceSheet),
		string(fields.CategoryCashFlow):        fields.Statement(cash, fields.CashFlow),
		string(fields.CategoryInfo):            fields.Info(info, fields.CompanyInfo),
	}
	return a.finish(p, symbol, "financials", c)
}

// Quarterly returns the latest quarters of the income statement. Allowed
// fields the source lacks are present as null.
func (a *Assembler) Quarterly(ctx context.Context, symbol string) (out types.Payload) {
	defer guard(&out, a.logger(), "quarterly")

	c := a.prepare(ctx, symbol)
	raw, err := a.Provider.QuarterlyIncomeStatement(ctx, symbol)
	if err == nil && raw.Empty() {
		err = provider.ErrNoQuarterlyData
	}
	if err != nil {
		a.logger().Error().Str("symbol", symbol).Err(err).Msg("quarterly fetch failed")
		return ErrorPayload(err)
	}

	record, periods := fields.Quarterly(raw, fields.QuarterlyIncome, QuarterLimit)
	p := types.Payload{
		"symbol":         symbol,
		"data_type":      string(fields.CategoryQuarterlyIncome),
		"quarters_count": len(periods),
		"fetch_time":     a.now().Format(timeLayout),
		"quarterly_data": record,
	}
	return a.finish(p, symbol, "quarterly", c)
}

// IndexSnapshot fetches every configured index. A failing index yields an
// entry with an "error" field; the others are unaffected. Output order
// follows the configured list. The error is non-nil only when the list
// itself cannot be loaded.
func (a *Assembler) IndexSnapshot(ctx context.Context) ([]types.Payload, error) {
	list, err := a.Indices.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load indices: %w", err)
	}

	start := time.Now()
	out := make([]types.Payload, len(list))
	limit := a.Concurrency
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, idx := range list {
		i, idx := i, idx
		g.Go(func() error {
			out[i] = a.index(ctx, idx)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, e := range out {
		if _, ok := e["error"]; ok {
			failed++
		}
	}
	a.logger().Info().Int("indices", len(out)).Int("failed", failed).Dur("took", time.Since(start)).Msg("index snapshot")
	return out, nil
}

func (a *Assembler) index(ctx context.Context, idx types.Index) (out types.Payload) {
	defer func() {
		if r := recover(); r != nil {
			out = types.Payload{"name": idx.Name, "symbol": idx.Symbol, "error": fmt.Sprintf("%v", r)}
		}
	}()

	info, err := a.Provider.Info(ctx, idx.Symbol)
	if err != nil {
		a.logger().Warn().Str("index", idx.Name).Str("symbol", idx.Symbol).Err(err).Msg("index fetch failed")
		return types.Payload{"name": idx.Name, "symbol": idx.Symbol, "error": err.Error()}
	}
	p := types.Payload(fields.Pick(info, fields.IndexQuote))
	p["name"] = idx.Name
	p["symbol"] = idx.Symbol
	return p
}

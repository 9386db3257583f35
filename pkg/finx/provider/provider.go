// Package provider fetches raw company data from a market-data source.
package provider

import (
	"context"
	"errors"

	"github.com/komsit37/finx/pkg/finx/types"
)

var (
	// ErrSymbolNotFound is returned when the source knows nothing about a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrNoQuarterlyData marks an empty quarterly income statement.
	ErrNoQuarterlyData = errors.New("No quarterly income statement data available")
)

// Provider is the market-data source. Any call may fail or return an
// empty result.
type Provider interface {
	Info(ctx context.Context, symbol string) (types.Info, error)
	IncomeStatement(ctx context.Context, symbol string) (types.RawStatement, error)
	QuarterlyIncomeStatement(ctx context.Context, symbol string) (types.RawStatement, error)
	BalanceSheet(ctx context.Context, symbol string) (types.RawStatement, error)
	CashFlow(ctx context.Context, symbol string) (types.RawStatement, error)
}

// PriceSource supplies price-module fields (shortName, longName,
// regularMarketPrice) used to fill gaps in Info.
type PriceSource interface {
	Price(ctx context.Context, symbol string) (types.Info, error)
}

// SummarySource returns quoteSummary modules of a symbol keyed by module
// name. Module bodies keep Yahoo's {raw, fmt} value objects.
type SummarySource interface {
	Summary(ctx context.Context, symbol string, modules []string) (map[string]any, error)
}

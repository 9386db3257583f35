// Package fakes holds in-memory providers and index sources for tests.
package fakes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/komsit37/finx/pkg/finx/provider"
	"github.com/komsit37/finx/pkg/finx/types"
)

// Company is the data Provider serves for one symbol.
type Company struct {
	Info      types.Info
	Income    types.RawStatement
	Quarterly types.RawStatement
	Balance   types.RawStatement
	CashFlow  types.RawStatement
}

// Provider serves fixed data from memory. Symbols are matched
// case-insensitively; Fail forces an error for a symbol.
type Provider struct {
	Companies map[string]Company
	Fail      map[string]error

	mu    sync.Mutex
	calls map[string]int
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) lookup(symbol, what string) (Company, error) {
	key := strings.ToUpper(symbol)
	p.mu.Lock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[key+"|"+what]++
	p.mu.Unlock()

	if err, ok := p.Fail[key]; ok {
		return Company{}, err
	}
	for k, c := range p.Companies {
		if strings.EqualFold(k, symbol) {
			return c, nil
		}
	}
	return Company{}, fmt.Errorf("%s %s: %w", what, symbol, provider.ErrSymbolNotFound)
}

// Calls reports how often what ("info", "income", ...) was requested for symbol.
func (p *Provider) Calls(symbol, what string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[strings.ToUpper(symbol)+"|"+what]
}

func (p *Provider) Info(_ context.Context, symbol string) (types.Info, error) {
	c, err := p.lookup(symbol, "info")
	return c.Info, err
}

func (p *Provider) IncomeStatement(_ context.Context, symbol string) (types.RawStatement, error) {
	c, err := p.lookup(symbol, "income")
	return c.Income, err
}

func (p *Provider) QuarterlyIncomeStatement(_ context.Context, symbol string) (types.RawStatement, error) {
	c, err := p.lookup(symbol, "quarterly")
	return c.Quarterly, err
}

func (p *Provider) BalanceSheet(_ context.Context, symbol string) (types.RawStatement, error) {
	c, err := p.lookup(symbol, "balance")
	return c.Balance, err
}

func (p *Provider) CashFlow(_ context.Context, symbol string) (types.RawStatement, error) {
	c, err := p.lookup(symbol, "cashflow")
	return c.CashFlow, err
}

package main

import (
	"github.com/phuslu/log"

	"github.com/komsit37/finx/pkg/finx/config"
	"github.com/komsit37/finx/pkg/finx/convert"
	"github.com/komsit37/finx/pkg/finx/fields"
	"github.com/komsit37/finx/pkg/finx/fxrate"
	"github.com/komsit37/finx/pkg/finx/provider"
	"github.com/komsit37/finx/pkg/finx/report"
	"github.com/komsit37/finx/pkg/finx/source"
)

// newAssembler wires the Yahoo provider, the exchange rate client and the
// index list from cfg.
func newAssembler(cfg *config.Config, logger *log.Logger) *report.Assembler {
	yf := provider.NewYF(cfg.Provider.Timeout)
	yahoo := provider.NewYahoo(provider.Options{
		BaseURL:   cfg.Provider.BaseURL,
		UserAgent: cfg.Provider.UserAgent,
		Timeout:   cfg.Provider.Timeout,
		Summary:   yf,
		Price:     yf,
		Logger:    logger,
	})
	rates := fxrate.NewClient(fxrate.Options{
		BaseURL: cfg.ExchangeRate.BaseURL,
		APIKey:  cfg.ExchangeRate.APIKey,
		Timeout: cfg.ExchangeRate.Timeout,
		Logger:  logger,
	})

	a := report.New(yahoo, rates, logger)
	a.Eligible = convert.NewEligibility(cfg.Conversion.Symbols...)
	a.Monetary = fields.Monetary
	a.Indices = source.For(cfg.Indices.File)
	a.Concurrency = cfg.Indices.Concurrency
	return a
}

// Package report assembles the price, financials, quarterly and index
// snapshot payloads. Assemblers never return errors: failures become
// payloads carrying an "error" field.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/komsit37/finx/pkg/finx/convert"
	"github.com/komsit37/finx/pkg/finx/fields"
	"github.com/komsit37/finx/pkg/finx/fxrate"
	"github.com/komsit37/finx/pkg/finx/logx"
	"github.com/komsit37/finx/pkg/finx/provider"
	"github.com/komsit37/finx/pkg/finx/source"
	"github.com/komsit37/finx/pkg/finx/types"
)

const (
	timeLayout = "2006-01-02 15:04:05"

	// QuarterLimit is how many of the latest quarters are reported.
	QuarterLimit = 4

	ReasonNotNeeded   = "No conversion needed"
	ReasonUnavailable = "Exchange rate not available"
)

// Operation selects a report.
type Operation string

const (
	OpPrice      Operation = "price"
	OpFinancials Operation = "financials"
	OpQuarterly  Operation = "quarterly"
	OpIndices    Operation = "indices"
)

// ParseOperation maps a selector to an Operation. Empty means financials.
func ParseOperation(s string) (Operation, bool) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(s))); op {
	case "":
		return OpFinancials, true
	case OpPrice, OpFinancials, OpQuarterly, OpIndices:
		return op, true
	default:
		return OpFinancials, false
	}
}

// Assembler composes provider data, field selection and conversion.
// It holds no state between calls.
type Assembler struct {
	Provider    provider.Provider
	Rates       fxrate.Fetcher
	Eligible    convert.Eligibility
	Monetary    fields.List
	Indices     source.Source
	Concurrency int
	Logger      *log.Logger
	Now         func() time.Time
}

// New returns an Assembler with the default eligibility, monetary fields
// and index list.
func New(p provider.Provider, rates fxrate.Fetcher, logger *log.Logger) *Assembler {
	return &Assembler{
		Provider:    p,
		Rates:       rates,
		Eligible:    convert.NewEligibility(convert.DefaultSymbols...),
		Monetary:    fields.Monetary,
		Indices:     source.Builtin{},
		Concurrency: 1,
		Logger:      logger,
		Now:         time.Now,
	}
}

func (a *Assembler) logger() *log.Logger { return logx.OrDiscard(a.Logger) }

func (a *Assembler) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Run dispatches op. The index snapshot ignores symbol and returns a list.
func (a *Assembler) Run(ctx context.Context, op Operation, symbol string) any {
	switch op {
	case OpPrice:
		return a.Price(ctx, symbol)
	case OpQuarterly:
		return a.Quarterly(ctx, symbol)
	case OpIndices:
		list, err := a.IndexSnapshot(ctx)
		if err != nil {
			return ErrorPayload(err)
		}
		return list
	default:
		return a.Financials(ctx, symbol)
	}
}

// ErrorPayload is the payload returned in place of a failed report.
func ErrorPayload(err error) types.Payload {
	return types.Payload{"error": err.Error()}
}

// conversion is the per-call conversion state.
type conversion struct {
	needed bool
	rate   float64
	ok     bool
}

func (a *Assembler) prepare(ctx context.Context, symbol string) conversion {
	c := conversion{needed: a.Eligible.Needs(symbol)}
	if !c.needed || a.Rates == nil {
		if c.needed {
			a.logger().Warn().Str("symbol", symbol).Msg("no exchange rate source configured, data will remain in " + convert.From)
		}
		return c
	}
	rate, err := a.Rates.FetchUSDToINR(ctx)
	if err != nil || rate <= 0 {
		a.logger().Warn().Str("symbol", symbol).Err(err).Msg("could not fetch exchange rate, data will remain in " + convert.From)
		return c
	}
	c.rate, c.ok = rate, true
	return c
}

// finish converts p when a rate was obtained and attaches the metadata.
func (a *Assembler) finish(p types.Payload, symbol, what string, c conversion) types.Payload {
	if !c.ok {
		reason := ReasonNotNeeded
		if c.needed {
			reason = ReasonUnavailable
		}
		p["currency_conversion"] = types.Conversion{Applied: false, Reason: reason}
		return p
	}

	a.logger().Info().Str("symbol", symbol).Str("report", what).Float64("rate", c.rate).
		Msgf("converting %s to %s", convert.From, convert.To)
	out := convert.New(a.Monetary, c.rate).Apply(p).(types.Payload)
	rate := c.rate
	out["currency_conversion"] = types.Conversion{
		Applied:        true,
		FromCurrency:   convert.Source().Code,
		ToCurrency:     convert.Target().Code,
		ExchangeRate:   &rate,
		ConversionTime: a.now().Format(timeLayout),
	}
	return out
}

// guard turns a panic in an assembler into an error payload.
func guard(out *types.Payload, logger *log.Logger, what string) {
	if r := recover(); r != nil {
		logger.Error().Str("report", what).Msgf("recovered: %v", r)
		*out = ErrorPayload(fmt.Errorf("%s: %v", what, r))
	}
}

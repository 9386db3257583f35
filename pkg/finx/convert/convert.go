// Package convert re-denominates monetary fields of assembled payloads.
package convert

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/komsit37/finx/pkg/finx/fields"
	"github.com/komsit37/finx/pkg/finx/types"
)

// Supported currency pair.
const (
	From = money.USD
	To   = money.INR
)

// places is the rounding precision of converted values: the minor unit of To.
var places = int32(Target().Fraction)

// Source returns the currency payloads are listed in.
func Source() *money.Currency { return money.GetCurrency(From) }

// Target returns the currency payloads are converted to.
func Target() *money.Currency { return money.GetCurrency(To) }

// DefaultSymbols are listed in From but reported in To.
var DefaultSymbols = []string{"INFY.NS"}

// Eligibility decides which symbols need conversion. Comparison is
// case-insensitive.
type Eligibility struct {
	symbols map[string]struct{}
}

// NewEligibility builds an Eligibility for the given symbols.
func NewEligibility(symbols ...string) Eligibility {
	m := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		m[s] = struct{}{}
	}
	return Eligibility{symbols: m}
}

// Needs reports whether symbol must be converted.
func (e Eligibility) Needs(symbol string) bool {
	_, ok := e.symbols[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// NeedsConversion checks symbol against DefaultSymbols.
func NeedsConversion(symbol string) bool {
	return NewEligibility(DefaultSymbols...).Needs(symbol)
}

// Scalar converts one value at rate, rounded to the minor unit of To.
// nil and NaN become nil. Numeric strings are parsed; anything it cannot
// convert is returned unchanged. Scalar never panics.
func Scalar(v any, rate float64) (out any) {
	defer func() {
		if r := recover(); r != nil {
			out = v
		}
	}()

	switch n := v.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return v
		}
		return multiply(v, f, rate)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return v
	}
	if math.IsNaN(f) {
		return nil
	}
	return multiply(v, f, rate)
}

func multiply(orig any, f, rate float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return orig
	}
	out, _ := decimal.NewFromFloat(f).Mul(decimal.NewFromFloat(rate)).Round(places).Float64()
	return out
}

// Structure walks node and converts every entry whose key is in monetary.
// Other entries are walked recursively; sequences keep their order and
// length. node is not modified.
func Structure(node any, monetary map[string]struct{}, rate float64) any {
	switch n := node.(type) {
	case map[string]any:
		return convertMap(n, monetary, rate)
	case types.Payload:
		return types.Payload(convertMap(n, monetary, rate))
	case types.Record:
		out := make(types.Record, len(n))
		for k, row := range n {
			if _, ok := monetary[k]; ok {
				out[k] = row
				continue
			}
			out[k] = convertMap(row, monetary, rate)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = Structure(e, monetary, rate)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(n))
		for i, e := range n {
			out[i] = convertMap(e, monetary, rate)
		}
		return out
	default:
		return node
	}
}

func convertMap(m map[string]any, monetary map[string]struct{}, rate float64) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, ok := monetary[k]; ok {
			out[k] = Scalar(v, rate)
			continue
		}
		out[k] = Structure(v, monetary, rate)
	}
	return out
}

// Converter applies one rate to payloads using a fixed monetary allow-list.
type Converter struct {
	monetary map[string]struct{}
	rate     float64
}

// New returns a Converter over monetary at rate.
func New(monetary fields.List, rate float64) *Converter {
	return &Converter{monetary: monetary.Set(), rate: rate}
}

// Rate returns the conversion rate.
func (c *Converter) Rate() float64 { return c.rate }

// Apply converts node. Callers apply it once per payload; a second pass
// would convert again.
func (c *Converter) Apply(node any) any {
	return Structure(node, c.monetary, c.rate)
}

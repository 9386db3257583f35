package types

import (
	"math"
	"time"
)

// Kind tags the shape carried by a Value.
type Kind int

const (
	// KindScalar is a plain number, string, bool or any other pass-through value.
	KindScalar Kind = iota
	// KindMissing is an absent or NaN cell.
	KindMissing
	// KindDate is a calendar date or timestamp.
	KindDate
	// KindSeries is a one-dimensional labelled column (index -> value).
	KindSeries
	// KindGrid is a two-dimensional table (column -> index -> value).
	KindGrid
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMissing:
		return "missing"
	case KindDate:
		return "date"
	case KindSeries:
		return "series"
	case KindGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// Value is a provider cell. Exactly one of the payload fields is meaningful,
// selected by Kind.
type Value struct {
	Kind   Kind
	Scalar any
	Date   time.Time
	Series map[string]Value
	Grid   map[string]map[string]Value
}

// Number wraps a float; NaN becomes a missing value.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{Kind: KindScalar, Scalar: f}
}

// Text wraps a string.
func Text(s string) Value { return Value{Kind: KindScalar, Scalar: s} }

// Scalar wraps an arbitrary pass-through value. Float NaN is still treated as missing.
func Scalar(v any) Value {
	if v == nil {
		return Missing()
	}
	if f, ok := v.(float64); ok {
		return Number(f)
	}
	return Value{Kind: KindScalar, Scalar: v}
}

// Date wraps a timestamp.
func Date(t time.Time) Value { return Value{Kind: KindDate, Date: t} }

// Missing is the null cell.
func Missing() Value { return Value{Kind: KindMissing} }

// Series wraps an index -> value column.
func Series(m map[string]Value) Value { return Value{Kind: KindSeries, Series: m} }

// Grid wraps a column -> index -> value table.
func Grid(m map[string]map[string]Value) Value { return Value{Kind: KindGrid, Grid: m} }

// Column is one reporting period of a RawStatement.
type Column struct {
	Period time.Time
	Values map[string]Value
}

// RawStatement is a provider statement: periods in provider order (latest
// first) and row labels in provider order. Treat as immutable once fetched.
type RawStatement struct {
	Labels  []string
	Columns []Column
}

// Empty reports whether the statement has no periods or no rows.
func (s RawStatement) Empty() bool {
	return len(s.Columns) == 0 || len(s.Labels) == 0
}

// Cell returns the value at (label, column index), if present.
func (s RawStatement) Cell(label string, col int) (Value, bool) {
	if col < 0 || col >= len(s.Columns) {
		return Value{}, false
	}
	v, ok := s.Columns[col].Values[label]
	return v, ok
}

// Info is the flat key-value company profile returned by the provider.
type Info map[string]Value

// Record is a filtered statement: period key -> field -> JSON-safe value.
type Record map[string]map[string]any

// Payload is an assembled report ready for encoding.
type Payload map[string]any

// Conversion records whether currency conversion was applied to a payload.
type Conversion struct {
	Applied        bool     `json:"applied" yaml:"applied"`
	FromCurrency   string   `json:"from_currency,omitempty" yaml:"from_currency,omitempty"`
	ToCurrency     string   `json:"to_currency,omitempty" yaml:"to_currency,omitempty"`
	ExchangeRate   *float64 `json:"exchange_rate,omitempty" yaml:"exchange_rate,omitempty"`
	ConversionTime string   `json:"conversion_time,omitempty" yaml:"conversion_time,omitempty"`
	Reason         string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Index names a market index tracked by the index snapshot.
type Index struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Symbol string `json:"symbol" yaml:"symbol" validate:"required"`
}

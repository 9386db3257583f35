// Package serialize turns provider cells into JSON-safe values.
package serialize

import (
	"strings"
	"unicode/utf8"

	"github.com/komsit37/finx/pkg/finx/types"
)

const (
	// NarrativeField is the long-form company description subject to summarizing.
	NarrativeField = "longBusinessSummary"
	// SummaryLimit is the byte budget for NarrativeField.
	SummaryLimit = 500
	// Ellipsis marks a summary cut mid-sentence.
	Ellipsis = "..."

	dateLayout = "2006-01-02"
)

// Value serializes v with no field context.
func Value(v types.Value) any { return Field("", v) }

// Field serializes v as the value of field name. Only NarrativeField
// changes behaviour; unknown kinds pass their scalar through.
func Field(name string, v types.Value) any {
	switch v.Kind {
	case types.KindMissing:
		return nil
	case types.KindDate:
		return v.Date.Format(dateLayout)
	case types.KindSeries:
		out := make(map[string]any, len(v.Series))
		for k, e := range v.Series {
			out[k] = Value(e)
		}
		return out
	case types.KindGrid:
		out := make(map[string]any, len(v.Grid))
		for col, rows := range v.Grid {
			inner := make(map[string]any, len(rows))
			for k, e := range rows {
				inner[k] = Value(e)
			}
			out[col] = inner
		}
		return out
	case types.KindScalar:
		if s, ok := v.Scalar.(string); ok && name == NarrativeField {
			return Summarize(s)
		}
		return v.Scalar
	default:
		return v.Scalar
	}
}

// Summarize bounds s to SummaryLimit bytes. It prefers cutting after the
// last period inside the budget, then at the first space past the budget,
// and finally hard-cuts at the budget.
func Summarize(s string) string {
	if len(s) <= SummaryLimit {
		return s
	}
	if i := strings.LastIndexByte(s[:SummaryLimit], '.'); i >= 0 {
		return s[:i+1]
	}
	if j := strings.IndexByte(s[SummaryLimit:], ' '); j >= 0 {
		return s[:SummaryLimit+j] + Ellipsis
	}
	cut := SummaryLimit
	// never split a multi-byte rune
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + Ellipsis
}

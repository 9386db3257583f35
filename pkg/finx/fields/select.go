// Package fields holds the static allow-lists and filters provider output
// down to them.
package fields

import (
	"time"

	"github.com/komsit37/finx/pkg/finx/match"
	"github.com/komsit37/finx/pkg/finx/serialize"
	"github.com/komsit37/finx/pkg/finx/types"
)

const (
	// StampLayout keys annual statement periods.
	StampLayout = "2006-01-02 15:04:05"
	// DateLayout keys quarterly periods.
	DateLayout = "2006-01-02"
)

// Statement keeps, for every period, the allow-listed fields present in raw.
// Fields missing from raw are omitted, not null-filled.
func Statement(raw types.RawStatement, allow List) types.Record {
	allowed := allow.Set()
	out := make(types.Record, len(raw.Columns))
	for _, col := range raw.Columns {
		row := make(map[string]any)
		for _, label := range raw.Labels {
			if _, ok := allowed[label]; !ok {
				continue
			}
			v, ok := col.Values[label]
			if !ok {
				continue
			}
			row[label] = serialize.Value(v)
		}
		out[col.Period.Format(StampLayout)] = row
	}
	return out
}

// Info keeps the allow-listed keys of a flat info mapping. Each value is
// serialized with its key so narrative fields get summarized.
func Info(info types.Info, allow List) map[string]any {
	out := make(map[string]any)
	for _, k := range allow {
		v, ok := info[k]
		if !ok {
			continue
		}
		out[k] = serialize.Field(k, v)
	}
	return out
}

// Pick returns every field of allow, null when info lacks it.
func Pick(info types.Info, allow List) map[string]any {
	out := make(map[string]any, len(allow))
	for _, k := range allow {
		v, ok := info[k]
		if !ok {
			out[k] = nil
			continue
		}
		out[k] = serialize.Field(k, v)
	}
	return out
}

// Quarterly matches each allow-listed field against the provider labels
// with match.Field and keeps at most limit periods (limit <= 0 keeps all).
// Unmatched fields are present with a nil value.
func Quarterly(raw types.RawStatement, allow List, limit int) (types.Record, []time.Time) {
	cols := raw.Columns
	if limit > 0 && len(cols) > limit {
		cols = cols[:limit]
	}
	labels := make(map[string]string, len(allow))
	for _, f := range allow {
		if l, ok := match.Field(f, raw.Labels); ok {
			labels[f] = l
		}
	}

	out := make(types.Record, len(cols))
	periods := make([]time.Time, 0, len(cols))
	for _, col := range cols {
		row := make(map[string]any, len(allow))
		for _, f := range allow {
			l, ok := labels[f]
			if !ok {
				row[f] = nil
				continue
			}
			v, ok := col.Values[l]
			if !ok {
				row[f] = nil
				continue
			}
			row[f] = serialize.Value(v)
		}
		out[col.Period.Format(DateLayout)] = row
		periods = append(periods, col.Period)
	}
	return out, periods
}

package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/komsit37/finx/pkg/finx/fields"
	"github.com/komsit37/finx/pkg/finx/types"
)

// sections is the print order of a financials payload.
var sections = []string{
	string(fields.CategoryIncomeStatement),
	string(fields.CategoryBalanceSheet),
	string(fields.CategoryCashFlow),
	string(fields.CategoryInfo),
	"quarterly_data",
}

// TableRenderer prints payloads for a terminal. Statements become one
// table per section with periods as columns, latest first.
type TableRenderer struct {
	printer *message.Printer
}

func NewTableRenderer() *TableRenderer {
	return &TableRenderer{printer: message.NewPrinter(language.English)}
}

func (r *TableRenderer) Render(w io.Writer, doc any, opts Options) error {
	switch d := doc.(type) {
	case []types.Payload:
		r.indices(w, d, opts)
	case types.Payload:
		r.payload(w, d, opts)
	default:
		return fmt.Errorf("table: unsupported document %T", doc)
	}
	return nil
}

func (r *TableRenderer) newWriter(w io.Writer, opts Options) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

func maxWidth(opts Options) int {
	if opts.MaxColWidth <= 0 {
		return 40
	}
	return opts.MaxColWidth
}

func (r *TableRenderer) indices(w io.Writer, list []types.Payload, opts Options) {
	cols := append([]string{"name", "symbol"}, fields.IndexQuote...)
	cols = append(cols, "error")

	tw := r.newWriter(w, opts)
	hdr := make(table.Row, len(cols))
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for i, c := range cols {
		hdr[i] = c
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth(opts)}
		if i >= 2 && c != "error" && c != "shortName" && c != "fullExchangeName" {
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	tw.AppendHeader(hdr)
	tw.SetColumnConfigs(cfgs)

	for _, e := range list {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = r.cell(e[c], opts)
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

func (r *TableRenderer) payload(w io.Writer, p types.Payload, opts Options) {
	if msg, ok := p["error"]; ok {
		line := fmt.Sprintf("error: %v", msg)
		if opts.Color {
			line = text.Colors{text.FgRed}.Sprint(line)
		}
		fmt.Fprintln(w, line)
		return
	}

	first := true
	sep := func(title string) {
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		if title != "" {
			fmt.Fprintln(w, text.Bold.Sprint(strings.ToUpper(strings.ReplaceAll(title, "_", " "))))
		}
	}

	skip := map[string]bool{"currency_conversion": true}
	for _, name := range sections {
		skip[name] = true
	}
	rest := map[string]any{}
	for k, v := range p {
		if !skip[k] {
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		sep("")
		r.keyValue(w, rest, opts)
	}

	for _, name := range sections {
		switch s := p[name].(type) {
		case types.Record:
			sep(name)
			r.record(w, name, s, opts)
		case map[string]any:
			sep(name)
			r.keyValue(w, s, opts)
		}
	}

	if c, ok := p["currency_conversion"].(types.Conversion); ok {
		sep("currency_conversion")
		r.keyValue(w, conversionMap(c), opts)
	}
}

// record prints a statement with fields as rows and periods as columns.
func (r *TableRenderer) record(w io.Writer, section string, rec types.Record, opts Options) {
	periods := make([]string, 0, len(rec))
	for p := range rec {
		periods = append(periods, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))

	tw := r.newWriter(w, opts)
	hdr := table.Row{"field"}
	cfgs := []table.ColumnConfig{{Number: 1, WidthMax: maxWidth(opts)}}
	for i, p := range periods {
		hdr = append(hdr, strings.TrimSuffix(p, " 00:00:00"))
		cfgs = append(cfgs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	tw.AppendHeader(hdr)
	tw.SetColumnConfigs(cfgs)

	for _, f := range rowOrder(section, rec) {
		row := table.Row{f}
		for _, p := range periods {
			row = append(row, r.cell(rec[p][f], opts))
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

// rowOrder lists the fields of rec in allow-list order, then any others
// sorted.
func rowOrder(section string, rec types.Record) []string {
	seen := map[string]bool{}
	for _, row := range rec {
		for f := range row {
			seen[f] = true
		}
	}
	if section == "quarterly_data" {
		section = string(fields.CategoryQuarterlyIncome)
	}
	out := make([]string, 0, len(seen))
	if list, err := fields.Lookup(section); err == nil {
		for _, f := range list {
			if seen[f] {
				out = append(out, f)
				delete(seen, f)
			}
		}
	}
	extra := make([]string, 0, len(seen))
	for f := range seen {
		extra = append(extra, f)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (r *TableRenderer) keyValue(w io.Writer, m map[string]any, opts Options) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := r.newWriter(w, opts)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: maxWidth(opts)},
		{Number: 2, WidthMax: maxWidth(opts) * 2},
	})
	for _, k := range keys {
		tw.AppendRow(table.Row{k, r.cell(m[k], opts)})
	}
	tw.Render()
}

func conversionMap(c types.Conversion) map[string]any {
	m := map[string]any{"applied": c.Applied}
	if c.Applied {
		m["from_currency"] = c.FromCurrency
		m["to_currency"] = c.ToCurrency
		m["conversion_time"] = c.ConversionTime
		if c.ExchangeRate != nil {
			m["exchange_rate"] = *c.ExchangeRate
		}
	}
	if c.Reason != "" {
		m["reason"] = c.Reason
	}
	return m
}

// cell formats one value with thousands separators. Negative numbers are
// red when color is on.
func (r *TableRenderer) cell(v any, opts Options) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		s := r.number(n)
		if opts.Color && n < 0 {
			return text.Colors{text.FgRed}.Sprint(s)
		}
		return s
	case int:
		return r.printer.Sprintf("%d", n)
	case int64:
		return r.printer.Sprintf("%d", n)
	case string:
		return n
	default:
		return fmt.Sprint(v)
	}
}

func (r *TableRenderer) number(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return r.printer.Sprintf("%d", int64(f))
	}
	return r.printer.Sprintf("%.2f", f)
}

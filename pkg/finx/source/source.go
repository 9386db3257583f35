// Package source supplies the list of market indices for the index snapshot.
package source

import (
	"context"

	"github.com/komsit37/finx/pkg/finx/types"
)

// Source loads the configured indices, in snapshot order.
type Source interface {
	Load(ctx context.Context) ([]types.Index, error)
}

// DefaultIndices are the major Indian and US indices.
var DefaultIndices = []types.Index{
	{Name: "NIFTY 50", Symbol: "^NSEI"},
	{Name: "NIFTY BANK", Symbol: "^NSEBANK"},
	{Name: "NIFTY IT", Symbol: "^CNXIT"},
	{Name: "NIFTY MIDCAP 50", Symbol: "^NSEMDCP50"},
	{Name: "BSE SENSEX", Symbol: "^BSESN"},
	{Name: "NYSE", Symbol: "^NYA"},
	{Name: "NASDAQ", Symbol: "^IXIC"},
}

// Builtin serves DefaultIndices.
type Builtin struct{}

func (Builtin) Load(context.Context) ([]types.Index, error) {
	return append([]types.Index(nil), DefaultIndices...), nil
}

// For returns a YAMLSource for path, or Builtin when path is empty.
func For(path string) Source {
	if path == "" {
		return Builtin{}
	}
	return YAMLSource{Path: path}
}

package fakes

import (
	"context"

	"github.com/komsit37/finx/pkg/finx/source"
	"github.com/komsit37/finx/pkg/finx/types"
)

// Indices serves a fixed index list.
type Indices []types.Index

var _ source.Source = Indices(nil)

func (s Indices) Load(context.Context) ([]types.Index, error) {
	return append([]types.Index(nil), s...), nil
}

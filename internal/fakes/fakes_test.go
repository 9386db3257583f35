package fakes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/finx/pkg/finx/provider"
	"github.com/komsit37/finx/pkg/finx/types"
)

func TestProvider(t *testing.T) {
	p := &Provider{
		Companies: map[string]Company{"INFY.NS": {Info: types.Info{"currency": types.Text("USD")}}},
		Fail:      map[string]error{"BAD": errors.New("boom")},
	}
	info, err := p.Info(context.Background(), "infy.ns")
	require.NoError(t, err)
	assert.Equal(t, types.Text("USD"), info["currency"])
	assert.Equal(t, 1, p.Calls("INFY.NS", "info"))

	_, err = p.CashFlow(context.Background(), "bad")
	assert.EqualError(t, err, "boom")

	_, err = p.BalanceSheet(context.Background(), "MSFT")
	assert.ErrorIs(t, err, provider.ErrSymbolNotFound)
}

func TestIndices(t *testing.T) {
	s := Indices{{Name: "A", Symbol: "^A"}}
	list, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.Index{{Name: "A", Symbol: "^A"}}, list)

	list[0].Name = "B"
	again, _ := s.Load(context.Background())
	assert.Equal(t, "A", again[0].Name)
}

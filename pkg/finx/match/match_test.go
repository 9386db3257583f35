package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Net Income":         "netincome",
		"net_income ":        "netincome",
		"  NET__INCOME  ":    "netincome",
		"Basic EPS":          "basiceps",
		"Net PPE":            "netppe",
		"":                   "",
		"Total\tRevenue":     "total\trevenue",
		"Réserves Générales": "réservesgénérales",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestField(t *testing.T) {
	t.Run("case space underscore insensitive", func(t *testing.T) {
		got, ok := Field("Net Income", []string{"Total Revenue", "net_income "})
		assert.True(t, ok)
		assert.Equal(t, "net_income ", got)
	})

	t.Run("no prefix match", func(t *testing.T) {
		_, ok := Field("Net Income", []string{"Net Income Tax"})
		assert.False(t, ok)
	})

	t.Run("first match wins", func(t *testing.T) {
		got, ok := Field("EBIT", []string{"EBITDA", "ebit", "E B I T"})
		assert.True(t, ok)
		assert.Equal(t, "ebit", got)
	})

	t.Run("empty labels", func(t *testing.T) {
		_, ok := Field("EBIT", nil)
		assert.False(t, ok)
	})
}

func TestFirstKeepsLabelOrder(t *testing.T) {
	labels := []string{"net income", "Net Income"}
	got, ok := First(NewFuzzy("Net Income"), labels)
	assert.True(t, ok)
	assert.Equal(t, "net income", got)
	assert.Equal(t, "fuzzy:netincome", NewFuzzy("Net_Income").String())
}

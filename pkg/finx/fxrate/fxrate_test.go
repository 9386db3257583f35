package fxrate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func server(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchUSDToINR(t *testing.T) {
	var gotPath string
	srv := server(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"result":"success","base_code":"USD","conversion_rates":{"USD":1,"INR":83.4521,"EUR":0.92}}`)
	})

	c := NewClient(Options{BaseURL: srv.URL + "/", APIKey: "k3y"})
	rate, err := c.FetchUSDToINR(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 83.4521, rate)
	assert.Equal(t, "/k3y/latest/USD", gotPath)
}

func TestFetchFailures(t *testing.T) {
	cases := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}},
		{"malformed", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":`)
		}},
		{"error result", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":"error","error-type":"invalid-key"}`)
		}},
		{"missing result", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"conversion_rates":{"INR":83}}`)
		}},
		{"missing INR", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":"success","conversion_rates":{"EUR":0.9}}`)
		}},
		{"zero INR", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":"success","conversion_rates":{"INR":0}}`)
		}},
		{"string INR", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":"success","conversion_rates":{"INR":"83"}}`)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := server(t, tc.h)
			c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
			_, err := c.FetchUSDToINR(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRateUnavailable)
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := server(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "secret", Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.FetchUSDToINR(context.Background())
	require.ErrorIs(t, err, ErrRateUnavailable)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.NotContains(t, err.Error(), "secret")
}

func TestMissingKeyNeverCallsOut(t *testing.T) {
	called := false
	srv := server(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	c := NewClient(Options{BaseURL: srv.URL})
	_, err := c.FetchUSDToINR(context.Background())
	require.ErrorIs(t, err, ErrRateUnavailable)
	assert.False(t, called)
}

func TestRateRejectsUnknownCurrency(t *testing.T) {
	c := NewClient(Options{APIKey: "k"})
	_, err := c.Rate(context.Background(), "USD", "XXQ")
	require.ErrorIs(t, err, ErrRateUnavailable)
	assert.Contains(t, err.Error(), "XXQ")
}

func TestDefaults(t *testing.T) {
	c := NewClient(Options{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, DefaultTimeout, c.Timeout)
	assert.NotNil(t, c.Logger)
}

package ticker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"marketmood/internal/models"
	"marketmood/internal/ticker"
)

func TestResolve(t *testing.T) {
	r := ticker.Resolver{DefaultSuffix: "NS"}

	tests := []struct {
		name    string
		input   string
		want    models.Ticker
		wantErr bool
	}{
		{name: "already qualified", input: "RELIANCE.NS", want: "RELIANCE.NS"},
		{name: "lowercase", input: "reliance.ns", want: "RELIANCE.NS"},
		{name: "bare symbol gets suffix", input: "ZOMATO", want: "ZOMATO.NS"},
		{name: "whitespace trimmed", input: "  TCS.NS ", want: "TCS.NS"},
		{name: "ampersand symbol", input: "M&M", want: "M&M.NS"},
		{name: "hyphen symbol", input: "BAJAJ-AUTO.NS", want: "BAJAJ-AUTO.NS"},
		{name: "bse suffix", input: "500325.BO", want: "500325.BO"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "inner space", input: "RELIANCE IND", wantErr: true},
		{name: "bad characters", input: "REL!ANCE", wantErr: true},
		{name: "suffix too long", input: "RELIANCE.WRONG", wantErr: true},
		{name: "trailing dot", input: "RELIANCE.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ticker.ErrInvalidTicker)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := ticker.Resolver{DefaultSuffix: ".NS"}

	first, err := r.Resolve("infy")
	require.NoError(t, err)

	second, err := r.Resolve(first.String())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestResolveNoDefaultSuffix(t *testing.T) {
	r := ticker.Resolver{}

	got, err := r.Resolve("AAPL")
	require.NoError(t, err)
	require.Equal(t, models.Ticker("AAPL"), got)
}

package conversion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinkpay/offramp-engine/engine"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		rate       string
		feePercent string
		wantFiat   string
		wantFee    string
		wantNet    string
	}{
		{
			name:   "100 USDC to KSH at 2.5 percent",
			amount: "100", rate: "129.50", feePercent: "2.5",
			wantFiat: "12950.00", wantFee: "323.75", wantNet: "12626.25",
		},
		{
			name:   "zero fee",
			amount: "50", rate: "1649.50", feePercent: "0",
			wantFiat: "82475.00", wantFee: "0", wantNet: "82475.00",
		},
		{
			name:   "sub-unit crypto amount",
			amount: "0.5", rate: "324500", feePercent: "2.5",
			wantFiat: "162250.00", wantFee: "4056.25", wantNet: "158193.75",
		},
		{
			name:   "fiat rounded to 2dp",
			amount: "0.333333", rate: "129.50", feePercent: "1.5",
			wantFiat: "43.17", wantFee: "0.65", wantNet: "42.52",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Convert(d(tt.amount), d(tt.rate), d(tt.feePercent))
			require.NoError(t, err)
			assert.True(t, q.FiatAmount.Equal(d(tt.wantFiat)), "fiat: got %s", q.FiatAmount)
			assert.True(t, q.Fee.Equal(d(tt.wantFee)), "fee: got %s", q.Fee)
			assert.True(t, q.NetAmount.Equal(d(tt.wantNet)), "net: got %s", q.NetAmount)

			// Net must always reconcile against fiat minus fee exactly.
			assert.True(t, q.NetAmount.Equal(q.FiatAmount.Sub(q.Fee)))
		})
	}
}

func TestConvertRejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		rate       string
		feePercent string
	}{
		{"zero amount", "0", "129.50", "2.5"},
		{"negative amount", "-10", "129.50", "2.5"},
		{"negative rate", "100", "-1", "2.5"},
		{"fee above 100", "100", "129.50", "100.01"},
		{"negative fee", "100", "129.50", "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(d(tt.amount), d(tt.rate), d(tt.feePercent))
			assert.ErrorIs(t, err, engine.ErrInvalidAmount)
		})
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	a, err := Convert(d("12.345678"), d("2649.50"), d("3"))
	require.NoError(t, err)
	b, err := Convert(d("12.345678"), d("2649.50"), d("3"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

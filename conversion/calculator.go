// Package conversion computes crypto→fiat quotes. Pure arithmetic, no
// state: callers resolve the exchange rate and fee schedule first.
package conversion

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pinkpay/offramp-engine/engine"
)

var hundred = decimal.NewFromInt(100)

// Quote is the preview shown before a payout is submitted. All three
// values are fiat amounts rounded to 2 decimal places, and
// NetAmount = FiatAmount - Fee holds exactly.
type Quote struct {
	FiatAmount decimal.Decimal `json:"fiat_amount"`
	Fee        decimal.Decimal `json:"fee"`
	NetAmount  decimal.Decimal `json:"net_amount"`
}

// Convert prices cryptoAmount at rate and applies a percentage fee.
// The crypto amount keeps full precision; only fiat results are rounded.
func Convert(cryptoAmount, rate, feePercent decimal.Decimal) (Quote, error) {
	if cryptoAmount.LessThanOrEqual(decimal.Zero) {
		return Quote{}, fmt.Errorf("%w: crypto amount must be positive, got %s", engine.ErrInvalidAmount, cryptoAmount)
	}
	if rate.IsNegative() {
		return Quote{}, fmt.Errorf("%w: negative exchange rate %s", engine.ErrInvalidAmount, rate)
	}
	if feePercent.IsNegative() || feePercent.GreaterThan(hundred) {
		return Quote{}, fmt.Errorf("%w: fee percent %s outside [0,100]", engine.ErrInvalidAmount, feePercent)
	}

	fiat := cryptoAmount.Mul(rate).Round(2)
	fee := fiat.Mul(feePercent).Div(hundred).Round(2)
	return Quote{
		FiatAmount: fiat,
		Fee:        fee,
		NetAmount:  fiat.Sub(fee),
	}, nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one (crypto, fiat) quote. Rates use a precise decimal
// type; a pair with no entry has no rate at all, never an implicit zero.
type ExchangeRate struct {
	FromAsset  string          `json:"from_asset"`
	ToCurrency string          `json:"to_currency"`
	Rate       decimal.Decimal `json:"rate"`
	ObservedAt time.Time       `json:"observed_at"`
}

// PayoutMethod is a fiat payout channel. FeePercent applies to the gross
// fiat amount of a payout.
type PayoutMethod struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"` // mpesa, bank, mobile_money
	Currency       string  `json:"currency"`
	FeePercent     float64 `json:"fee_percent"`
	ProcessingTime string  `json:"processing_time"`
	Available      bool    `json:"available"`
}

// PayoutMethods is the reference payout channel table.
var PayoutMethods = []PayoutMethod{
	{ID: "mpesa_ke", Name: "M-Pesa Kenya", Type: "mpesa", Currency: "KSH", FeePercent: 2.5, ProcessingTime: "1-5 minutes", Available: true},
	{ID: "mpesa_tz", Name: "M-Pesa Tanzania", Type: "mpesa", Currency: "TZS", FeePercent: 3.0, ProcessingTime: "1-5 minutes", Available: true},
	{ID: "bank_ng", Name: "Nigerian Bank Transfer", Type: "bank", Currency: "NGN", FeePercent: 1.5, ProcessingTime: "5-30 minutes", Available: true},
}

// PayoutMethodByID looks up a payout method in the reference table.
func PayoutMethodByID(id string) (PayoutMethod, bool) {
	for _, m := range PayoutMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PayoutMethod{}, false
}

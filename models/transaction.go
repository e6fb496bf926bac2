package models

import "time"

type TransactionType string

const (
	TypeOfframp TransactionType = "offramp"
	TypeOnramp  TransactionType = "onramp"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"
)

// Transaction is one offramp/onramp record. NetAmount always equals
// FiatAmount - Fees; all three are fiat values rounded to 2 decimals.
type Transaction struct {
	ID             string            `json:"id"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	Type           TransactionType   `json:"type"`
	Status         TransactionStatus `json:"status"`
	CryptoAmount   float64           `json:"crypto_amount"`
	CryptoCurrency string            `json:"crypto_currency"`
	FiatAmount     float64           `json:"fiat_amount"`
	FiatCurrency   string            `json:"fiat_currency"`
	PayoutMethodID string            `json:"payout_method_id"`
	ExchangeRate   float64           `json:"exchange_rate"`
	Fees           float64           `json:"fees"`
	NetAmount      float64           `json:"net_amount"`
	CreatedAt      time.Time         `json:"created_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	TxHash         string            `json:"tx_hash,omitempty"`
	Reference      string            `json:"reference"`
	Notes          string            `json:"notes,omitempty"`
}

// TransactionFilter narrows Query results. Zero values match everything;
// set fields are combined with AND. Currency matches either the crypto or
// the fiat currency code. Search is a case-insensitive substring match
// over id, reference and tx hash.
type TransactionFilter struct {
	Status   TransactionStatus
	Type     TransactionType
	Currency string
	Search   string
}

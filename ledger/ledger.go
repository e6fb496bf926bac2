// Package ledger keeps the per-account transaction history and enforces
// the payout lifecycle:
//
//	pending → processing → completed | failed | cancelled
//	failed  → processing (retry)
//	pending → cancelled
//
// Completed and cancelled are terminal. The ledger does no KYC gating;
// that is the caller's job.
package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pinkpay/offramp-engine/engine"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/store"
)

type Ledger struct {
	store store.Store
}

func NewLedger(s store.Store) *Ledger {
	return &Ledger{store: s}
}

func (l *Ledger) load(accountID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if _, err := l.store.Load(accountID, store.KindTransactions, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (l *Ledger) save(accountID string, txs []models.Transaction) error {
	return l.store.Save(accountID, store.KindTransactions, txs)
}

// CreateInput carries the priced payout details. Amount fields come from
// the conversion quote; the ledger re-checks their consistency but never
// reprices.
type CreateInput struct {
	Type           models.TransactionType
	CryptoAmount   float64
	CryptoCurrency string
	FiatAmount     float64
	FiatCurrency   string
	PayoutMethodID string
	ExchangeRate   float64
	Fees           float64
	NetAmount      float64
	Notes          string
	IdempotencyKey string
}

// referencePrefix picks the human-readable reference prefix for a payout
// channel: MP for mobile money, the country code for bank transfers.
func referencePrefix(methodID string) string {
	method, ok := models.PayoutMethodByID(methodID)
	if !ok {
		return "TX"
	}
	if method.Type == "mpesa" || method.Type == "mobile_money" {
		return "MP"
	}
	return strings.ToUpper(method.Currency[:2])
}

// Create appends a new pending transaction. When the input carries an
// idempotency key already seen for this account, the existing record is
// returned instead of a duplicate being written.
func (l *Ledger) Create(accountID string, in CreateInput, now time.Time) (models.Transaction, error) {
	if in.CryptoAmount <= 0 || in.FiatAmount < 0 || in.Fees < 0 || in.NetAmount < 0 {
		return models.Transaction{}, fmt.Errorf("%w: transaction amounts must be positive", engine.ErrInvalidAmount)
	}
	if math.Abs(in.FiatAmount-in.Fees-in.NetAmount) > 0.01 {
		return models.Transaction{}, fmt.Errorf("%w: net amount does not reconcile with fiat minus fees", engine.ErrInvalidAmount)
	}

	txs, err := l.load(accountID)
	if err != nil {
		return models.Transaction{}, err
	}

	if in.IdempotencyKey != "" {
		for _, tx := range txs {
			if tx.IdempotencyKey == in.IdempotencyKey {
				return tx, nil
			}
		}
	}

	tx := models.Transaction{
		ID:             uuid.New().String(),
		IdempotencyKey: in.IdempotencyKey,
		Type:           in.Type,
		Status:         models.StatusPending,
		CryptoAmount:   in.CryptoAmount,
		CryptoCurrency: in.CryptoCurrency,
		FiatAmount:     in.FiatAmount,
		FiatCurrency:   in.FiatCurrency,
		PayoutMethodID: in.PayoutMethodID,
		ExchangeRate:   in.ExchangeRate,
		Fees:           in.Fees,
		NetAmount:      in.NetAmount,
		CreatedAt:      now,
		Reference:      fmt.Sprintf("%s%s%03d", referencePrefix(in.PayoutMethodID), now.Format("060102150405"), len(txs)+1),
		Notes:          in.Notes,
	}

	txs = append(txs, tx)
	if err := l.save(accountID, txs); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Get returns one transaction by id.
func (l *Ledger) Get(accountID, id string) (models.Transaction, error) {
	txs, err := l.load(accountID)
	if err != nil {
		return models.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return models.Transaction{}, fmt.Errorf("transaction %s not found", id)
}

// transition applies mutate to the transaction iff its current status is
// one of from. Nothing is written when the transition is illegal.
func (l *Ledger) transition(accountID, id string, from []models.TransactionStatus, mutate func(*models.Transaction)) (models.Transaction, error) {
	txs, err := l.load(accountID)
	if err != nil {
		return models.Transaction{}, err
	}
	for i := range txs {
		if txs[i].ID != id {
			continue
		}
		allowed := false
		for _, s := range from {
			if txs[i].Status == s {
				allowed = true
				break
			}
		}
		if !allowed {
			return models.Transaction{}, fmt.Errorf("%w: transaction %s is %s", engine.ErrInvalidTransition, id, txs[i].Status)
		}
		mutate(&txs[i])
		if err := l.save(accountID, txs); err != nil {
			return models.Transaction{}, err
		}
		return txs[i], nil
	}
	return models.Transaction{}, fmt.Errorf("transaction %s not found", id)
}

// Process moves a pending transaction into processing.
func (l *Ledger) Process(accountID, id string) (models.Transaction, error) {
	return l.transition(accountID, id, []models.TransactionStatus{models.StatusPending}, func(tx *models.Transaction) {
		tx.Status = models.StatusProcessing
	})
}

// Complete finishes a processing transaction and stamps CompletedAt.
func (l *Ledger) Complete(accountID, id string, now time.Time) (models.Transaction, error) {
	return l.transition(accountID, id, []models.TransactionStatus{models.StatusProcessing}, func(tx *models.Transaction) {
		tx.Status = models.StatusCompleted
		tx.CompletedAt = &now
	})
}

// Fail marks a processing transaction as failed, keeping it retryable.
func (l *Ledger) Fail(accountID, id, reason string) (models.Transaction, error) {
	return l.transition(accountID, id, []models.TransactionStatus{models.StatusProcessing}, func(tx *models.Transaction) {
		tx.Status = models.StatusFailed
		if reason != "" {
			tx.Notes = reason
		}
	})
}

// Retry puts a failed transaction back into processing.
func (l *Ledger) Retry(accountID, id string) (models.Transaction, error) {
	return l.transition(accountID, id, []models.TransactionStatus{models.StatusFailed}, func(tx *models.Transaction) {
		tx.Status = models.StatusProcessing
	})
}

// Cancel aborts a transaction that has not settled yet.
func (l *Ledger) Cancel(accountID, id string) (models.Transaction, error) {
	return l.transition(accountID, id, []models.TransactionStatus{models.StatusPending, models.StatusProcessing}, func(tx *models.Transaction) {
		tx.Status = models.StatusCancelled
	})
}

// Query returns matching transactions in insertion order.
func (l *Ledger) Query(accountID string, f models.TransactionFilter) ([]models.Transaction, error) {
	txs, err := l.load(accountID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(f.Search)
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Status != "" && tx.Status != f.Status {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Currency != "" && tx.CryptoCurrency != f.Currency && tx.FiatCurrency != f.Currency {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(tx.ID), needle) &&
			!strings.Contains(strings.ToLower(tx.Reference), needle) &&
			!strings.Contains(strings.ToLower(tx.TxHash), needle) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// Recent returns the newest n transactions, newest first. The stored
// order is left untouched.
func (l *Ledger) Recent(accountID string, n int) ([]models.Transaction, error) {
	txs, err := l.load(accountID)
	if err != nil {
		return nil, err
	}
	if n > len(txs) {
		n = len(txs)
	}
	out := make([]models.Transaction, 0, n)
	for i := len(txs) - 1; i >= len(txs)-n; i-- {
		out = append(out, txs[i])
	}
	return out, nil
}

// Stats summarizes completed volume for the account.
type Stats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletedFiat  float64 `json:"completed_fiat"`
	CompletedTotal float64 `json:"completed_net"`
}

func (l *Ledger) Stats(accountID string) (Stats, error) {
	txs, err := l.load(accountID)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Total: len(txs)}
	for _, tx := range txs {
		if tx.Status == models.StatusCompleted {
			s.Completed++
			s.CompletedFiat += tx.FiatAmount
			s.CompletedTotal += tx.NetAmount
		}
	}
	return s, nil
}

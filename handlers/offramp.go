package handlers

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pinkpay/offramp-engine/conversion"
	"github.com/pinkpay/offramp-engine/kyc"
	"github.com/pinkpay/offramp-engine/ledger"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/rates"
	"github.com/pinkpay/offramp-engine/rewards"
)

type OfframpHandler struct {
	rates           rates.Provider
	ledger          *ledger.Ledger
	kyc             *kyc.Workflow
	rewards         *rewards.Engine
	settlementDelay time.Duration
	rng             *lockedRand
}

func NewOfframpHandler(p rates.Provider, l *ledger.Ledger, w *kyc.Workflow, r *rewards.Engine, settlementDelay time.Duration, rng *rand.Rand) *OfframpHandler {
	return &OfframpHandler{
		rates:           p,
		ledger:          l,
		kyc:             w,
		rewards:         r,
		settlementDelay: settlementDelay,
		rng:             newLockedRand(rng),
	}
}

// ListRates returns the current rate snapshot.
func (h *OfframpHandler) ListRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rates": h.rates.Rates()})
}

// ListPayoutMethods returns the payout channel reference table.
func (h *OfframpHandler) ListPayoutMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payout_methods": models.PayoutMethods})
}

type QuoteRequest struct {
	CryptoAmount   float64 `json:"crypto_amount" binding:"required,gt=0"`
	CryptoCurrency string  `json:"crypto_currency" binding:"required"`
	PayoutMethodID string  `json:"payout_method_id" binding:"required"`
}

type quoteDetails struct {
	method models.PayoutMethod
	rate   decimal.Decimal
	quote  conversion.Quote
}

func (h *OfframpHandler) price(req QuoteRequest) (quoteDetails, error) {
	method, ok := models.PayoutMethodByID(req.PayoutMethodID)
	if !ok {
		return quoteDetails{}, errUnknownPayoutMethod
	}
	rate, err := h.rates.GetRate(req.CryptoCurrency, method.Currency)
	if err != nil {
		return quoteDetails{}, err
	}
	quote, err := conversion.Convert(decimal.NewFromFloat(req.CryptoAmount), rate, decimal.NewFromFloat(method.FeePercent))
	if err != nil {
		return quoteDetails{}, err
	}
	return quoteDetails{method: method, rate: rate, quote: quote}, nil
}

// Quote previews a payout without committing anything.
func (h *OfframpHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priced, err := h.price(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"crypto_amount":   req.CryptoAmount,
		"crypto_currency": req.CryptoCurrency,
		"fiat_currency":   priced.method.Currency,
		"exchange_rate":   priced.rate,
		"fiat_amount":     priced.quote.FiatAmount,
		"fee":             priced.quote.Fee,
		"net_amount":      priced.quote.NetAmount,
		"payout_method":   priced.method,
	})
}

type SubmitPayoutRequest struct {
	QuoteRequest
	Notes          string `json:"notes"`
	IdempotencyKey string `json:"idempotency_key"`
}

// SubmitPayout creates a KYC-gated payout and schedules its settlement.
func (h *OfframpHandler) SubmitPayout(c *gin.Context) {
	var req SubmitPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account := accountID(c)

	allowed, reason, err := h.kyc.AllowPayout(account)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": reason, "code": "KYCRequired"})
		return
	}

	priced, err := h.price(req.QuoteRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	tx, err := h.ledger.Create(account, ledger.CreateInput{
		Type:           models.TypeOfframp,
		CryptoAmount:   req.CryptoAmount,
		CryptoCurrency: req.CryptoCurrency,
		FiatAmount:     priced.quote.FiatAmount.InexactFloat64(),
		FiatCurrency:   priced.method.Currency,
		PayoutMethodID: priced.method.ID,
		ExchangeRate:   priced.rate.InexactFloat64(),
		Fees:           priced.quote.Fee.InexactFloat64(),
		NetAmount:      priced.quote.NetAmount.InexactFloat64(),
		Notes:          req.Notes,
		IdempotencyKey: req.IdempotencyKey,
	}, now)
	if err != nil {
		respondError(c, err)
		return
	}

	// A replayed idempotency key returns the already-submitted payout
	// without scheduling a second settlement.
	if tx.Status != models.StatusPending || !tx.CreatedAt.Equal(now) {
		c.JSON(http.StatusOK, tx)
		return
	}

	if _, err := h.ledger.Process(account, tx.ID); err != nil {
		respondError(c, err)
		return
	}
	h.scheduleSettlement(account, tx.ID)

	tx, err = h.ledger.Get(account, tx.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"transaction": tx,
		"message":     "Payout initiated. You will be notified once settlement completes.",
	})
}

// scheduleSettlement stands in for the payout rail: after the configured
// delay the transaction completes and the loyalty event is recorded.
func (h *OfframpHandler) scheduleSettlement(account, txID string) {
	ledger.Schedule(h.settlementDelay, func() {
		if _, err := h.ledger.Complete(account, txID, time.Now()); err != nil {
			// Cancelled while in flight; nothing to reward.
			logrus.WithError(err).WithField("transaction", txID).Info("settlement skipped")
			return
		}

		state, err := h.rewards.State(account)
		if err != nil {
			logrus.WithError(err).Error("reward state load failed")
			return
		}
		tier := h.rewards.TierFor(state.TransactionCount)
		var amount float64
		h.rng.draw(func(rng *rand.Rand) {
			amount = rewards.Reward(tier, rng)
		})
		event, err := h.rewards.RecordEvent(account, amount)
		if err != nil {
			logrus.WithError(err).Error("reward event failed")
			return
		}
		if event.TierUp {
			logrus.WithFields(logrus.Fields{
				"account": account,
				"tier":    event.TierAfter.Name,
			}).Info("loyalty tier up")
		}
	})
}

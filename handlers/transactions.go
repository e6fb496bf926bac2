package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pinkpay/offramp-engine/ledger"
	"github.com/pinkpay/offramp-engine/models"
)

type TransactionHandler struct {
	ledger *ledger.Ledger
}

func NewTransactionHandler(l *ledger.Ledger) *TransactionHandler {
	return &TransactionHandler{ledger: l}
}

// ListTransactions returns the account's history, filtered by the query
// string. `recent=N` flips to a newest-first view of the last N records.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	account := accountID(c)

	if recent := c.Query("recent"); recent != "" {
		n, err := strconv.Atoi(recent)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recent must be a positive integer"})
			return
		}
		txs, err := h.ledger.Recent(account, n)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": txs})
		return
	}

	filter := models.TransactionFilter{
		Status:   models.TransactionStatus(c.Query("status")),
		Type:     models.TransactionType(c.Query("type")),
		Currency: c.Query("currency"),
		Search:   c.Query("search"),
	}
	txs, err := h.ledger.Query(account, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.ledger.Get(accountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// RetryTransaction puts a failed payout back into processing.
func (h *TransactionHandler) RetryTransaction(c *gin.Context) {
	tx, err := h.ledger.Retry(accountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// CancelTransaction aborts a payout that has not settled.
func (h *TransactionHandler) CancelTransaction(c *gin.Context) {
	tx, err := h.ledger.Cancel(accountID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) TransactionStats(c *gin.Context) {
	stats, err := h.ledger.Stats(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package handlers

import (
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pinkpay/offramp-engine/engine"
)

var errUnknownPayoutMethod = errors.New("payout method not found")

// accountID reads the session account set by the auth middleware.
func accountID(c *gin.Context) string {
	return c.GetString("accountID")
}

// respondError maps engine errors onto HTTP statuses. Validation errors
// are the caller's fault; persistence failures are retryable.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidAmount), errors.Is(err, engine.ErrUnknownCategory):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrRateUnavailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrInvalidTransition), errors.Is(err, engine.ErrAlreadyResolved):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrPersistenceUnavailable):
		status = http.StatusServiceUnavailable
	case strings.Contains(err.Error(), "not found"):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		logrus.WithError(err).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// lockedRand serializes draws from a shared rand.Rand so concurrent
// requests can use one injected source.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(rng *rand.Rand) *lockedRand {
	return &lockedRand{rng: rng}
}

func (l *lockedRand) draw(fn func(rng *rand.Rand)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.rng)
}

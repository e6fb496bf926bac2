package handlers

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinkpay/offramp-engine/rewards"
)

type RewardsHandler struct {
	rewards *rewards.Engine
	rng     *lockedRand
}

func NewRewardsHandler(r *rewards.Engine, rng *rand.Rand) *RewardsHandler {
	return &RewardsHandler{rewards: r, rng: newLockedRand(rng)}
}

// GetRewards returns the loyalty state with the full ladder and progress
// toward the next tier.
func (h *RewardsHandler) GetRewards(c *gin.Context) {
	state, err := h.rewards.State(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"state":    state,
		"tier":     h.rewards.TierFor(state.TransactionCount),
		"tiers":    h.rewards.Tiers(),
		"progress": h.rewards.ProgressToNext(state.TransactionCount),
	}
	if next, ok := h.rewards.NextTier(state.TransactionCount); ok {
		resp["next_tier"] = next
	}
	c.JSON(http.StatusOK, resp)
}

// SimulateEvent records a demo reward event so users can watch the
// ladder move without a real payout.
func (h *RewardsHandler) SimulateEvent(c *gin.Context) {
	account := accountID(c)
	state, err := h.rewards.State(account)
	if err != nil {
		respondError(c, err)
		return
	}

	tier := h.rewards.TierFor(state.TransactionCount)
	var amount float64
	h.rng.draw(func(rng *rand.Rand) {
		amount = rewards.Reward(tier, rng)
	})

	event, err := h.rewards.RecordEvent(account, amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

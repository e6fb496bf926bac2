// Package rewards maps lifetime transaction counts onto the loyalty
// ladder and mints reward tokens for completed transactions.
package rewards

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/pinkpay/offramp-engine/engine"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/store"
)

type Engine struct {
	store store.Store
	tiers []models.RewardTier
}

// NewEngine sorts tiers ascending by threshold so tier selection is
// well-defined regardless of input order.
func NewEngine(s store.Store, tiers []models.RewardTier) *Engine {
	sorted := make([]models.RewardTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinTransactions < sorted[j].MinTransactions
	})
	return &Engine{store: s, tiers: sorted}
}

func (e *Engine) Tiers() []models.RewardTier {
	return e.tiers
}

// TierFor picks the tier with the greatest threshold at or below count.
// The lowest tier has threshold 0, so every count matches something.
func (e *Engine) TierFor(count int) models.RewardTier {
	current := e.tiers[0]
	for _, tier := range e.tiers {
		if count >= tier.MinTransactions {
			current = tier
		}
	}
	return current
}

// NextTier returns the first tier above count, or false when the ladder
// is maxed out.
func (e *Engine) NextTier(count int) (models.RewardTier, bool) {
	for _, tier := range e.tiers {
		if tier.MinTransactions > count {
			return tier, true
		}
	}
	return models.RewardTier{}, false
}

// Reward draws the base token amount in [10,59] from rng and scales it by
// the tier multiplier. The rng is injected so callers can pin the draw.
func Reward(tier models.RewardTier, rng *rand.Rand) float64 {
	base := float64(rng.Intn(50) + 10)
	return math.Floor(base) * tier.Multiplier
}

// State loads the account's reward state, zero-valued when absent.
func (e *Engine) State(accountID string) (models.UserRewardState, error) {
	var state models.UserRewardState
	if _, err := e.store.Load(accountID, store.KindRewards, &state); err != nil {
		return models.UserRewardState{}, err
	}
	return state, nil
}

// Event is the outcome of one rewarded transaction: the state after the
// update plus the tiers before and after, so a tier-up is observable.
type Event struct {
	State      models.UserRewardState `json:"state"`
	Amount     float64                `json:"amount"`
	TierBefore models.RewardTier      `json:"tier_before"`
	TierAfter  models.RewardTier      `json:"tier_after"`
	TierUp     bool                   `json:"tier_up"`
}

// RecordEvent increments the transaction count and credits amount in one
// write; count and balance never diverge.
func (e *Engine) RecordEvent(accountID string, amount float64) (Event, error) {
	if amount < 0 {
		return Event{}, fmt.Errorf("%w: reward amount cannot be negative", engine.ErrInvalidAmount)
	}
	state, err := e.State(accountID)
	if err != nil {
		return Event{}, err
	}

	before := e.TierFor(state.TransactionCount)
	state.TransactionCount++
	state.TokenBalance += amount
	after := e.TierFor(state.TransactionCount)

	if err := e.store.Save(accountID, store.KindRewards, state); err != nil {
		return Event{}, err
	}
	return Event{
		State:      state,
		Amount:     amount,
		TierBefore: before,
		TierAfter:  after,
		TierUp:     after.MinTransactions > before.MinTransactions,
	}, nil
}

// AddTokens credits tokens without counting a transaction (quiz winnings).
func (e *Engine) AddTokens(accountID string, amount float64) (models.UserRewardState, error) {
	if amount <= 0 {
		return models.UserRewardState{}, fmt.Errorf("%w: token credit must be positive", engine.ErrInvalidAmount)
	}
	state, err := e.State(accountID)
	if err != nil {
		return models.UserRewardState{}, err
	}
	state.TokenBalance += amount
	if err := e.store.Save(accountID, store.KindRewards, state); err != nil {
		return models.UserRewardState{}, err
	}
	return state, nil
}

// ProgressToNext is the percentage of the way from the current tier's
// threshold to the next one, 100 at the top of the ladder.
func (e *Engine) ProgressToNext(count int) float64 {
	current := e.TierFor(count)
	next, ok := e.NextTier(count)
	if !ok {
		return 100
	}
	span := float64(next.MinTransactions - current.MinTransactions)
	return float64(count-current.MinTransactions) / span * 100
}

package rewards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pinkpay/offramp-engine/engine"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/store"
)

const account = "0xbaddie"

func setupEngine(t *testing.T) *Engine {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	return NewEngine(store.NewGormStore(db), models.DefaultRewardTiers)
}

func TestTierFor(t *testing.T) {
	e := setupEngine(t)

	tests := []struct {
		count      int
		wantName   string
		multiplier float64
	}{
		{0, "Rookie Baddie", 1},
		{9, "Rookie Baddie", 1},
		{10, "Pro Baddie", 1.5},
		{49, "Pro Baddie", 1.5},
		{50, "Elite Baddie", 2},
		{100, "Crypto Baddie Legend", 3},
		{5000, "Crypto Baddie Legend", 3},
	}
	for _, tt := range tests {
		tier := e.TierFor(tt.count)
		assert.Equal(t, tt.wantName, tier.Name, "count=%d", tt.count)
		assert.Equal(t, tt.multiplier, tier.Multiplier, "count=%d", tt.count)
	}
}

func TestTierSelectionIsMonotone(t *testing.T) {
	e := setupEngine(t)
	prev := 0.0
	for count := 0; count <= 150; count++ {
		m := e.TierFor(count).Multiplier
		assert.GreaterOrEqual(t, m, prev, "count=%d", count)
		prev = m
	}
}

func TestTiersSortedRegardlessOfInputOrder(t *testing.T) {
	shuffled := []models.RewardTier{
		models.DefaultRewardTiers[2],
		models.DefaultRewardTiers[0],
		models.DefaultRewardTiers[3],
		models.DefaultRewardTiers[1],
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	e := NewEngine(store.NewGormStore(db), shuffled)

	assert.Equal(t, "Rookie Baddie", e.TierFor(0).Name)
	assert.Equal(t, "Pro Baddie", e.TierFor(10).Name)
}

func TestRewardDrawRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tier := models.RewardTier{Multiplier: 1}
	for i := 0; i < 1000; i++ {
		amount := Reward(tier, rng)
		assert.GreaterOrEqual(t, amount, 10.0)
		assert.LessOrEqual(t, amount, 59.0)
	}
}

func TestRewardIsDeterministicWithPinnedRNG(t *testing.T) {
	tier := models.DefaultRewardTiers[1] // 1.5x
	a := Reward(tier, rand.New(rand.NewSource(7)))
	b := Reward(tier, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)

	base := Reward(models.DefaultRewardTiers[0], rand.New(rand.NewSource(7)))
	assert.Equal(t, base*1.5, a)
}

func TestRecordEventUpdatesCountAndBalanceTogether(t *testing.T) {
	e := setupEngine(t)

	ev, err := e.RecordEvent(account, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, ev.State.TransactionCount)
	assert.Equal(t, 25.0, ev.State.TokenBalance)

	state, err := e.State(account)
	require.NoError(t, err)
	assert.Equal(t, ev.State, state)
}

func TestRecordEventRejectsNegativeAmount(t *testing.T) {
	e := setupEngine(t)

	_, err := e.RecordEvent(account, -5)
	assert.ErrorIs(t, err, engine.ErrInvalidAmount)

	state, err := e.State(account)
	require.NoError(t, err)
	assert.Equal(t, 0, state.TransactionCount)
}

func TestTierUpIsObservable(t *testing.T) {
	e := setupEngine(t)

	var last Event
	for i := 0; i < 10; i++ {
		var err error
		last, err = e.RecordEvent(account, 10)
		require.NoError(t, err)
	}

	// The tenth event crosses the Pro Baddie threshold.
	assert.True(t, last.TierUp)
	assert.Equal(t, "Rookie Baddie", last.TierBefore.Name)
	assert.Equal(t, "Pro Baddie", last.TierAfter.Name)

	next, err := e.RecordEvent(account, 10)
	require.NoError(t, err)
	assert.False(t, next.TierUp)
}

func TestAddTokens(t *testing.T) {
	e := setupEngine(t)

	state, err := e.AddTokens(account, 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, state.TokenBalance)
	// Quiz winnings never count as transactions.
	assert.Equal(t, 0, state.TransactionCount)

	_, err = e.AddTokens(account, 0)
	assert.ErrorIs(t, err, engine.ErrInvalidAmount)
}

func TestProgressToNext(t *testing.T) {
	e := setupEngine(t)

	assert.Equal(t, 0.0, e.ProgressToNext(0))
	assert.Equal(t, 50.0, e.ProgressToNext(5))
	assert.Equal(t, 100.0, e.ProgressToNext(150))
}

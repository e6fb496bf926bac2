package models

// RewardTier is one rung of the loyalty ladder. Tiers are kept sorted by
// MinTransactions ascending; the active tier is the highest threshold at
// or below the user's transaction count.
type RewardTier struct {
	Name            string   `json:"name"`
	MinTransactions int      `json:"min_transactions"`
	Multiplier      float64  `json:"multiplier"`
	Perks           []string `json:"perks"`
}

// DefaultRewardTiers is the built-in loyalty ladder.
var DefaultRewardTiers = []RewardTier{
	{
		Name:            "Rookie Baddie",
		MinTransactions: 0,
		Multiplier:      1,
		Perks:           []string{"1x $THECRYPTOBADDIE per transaction", "Basic rewards"},
	},
	{
		Name:            "Pro Baddie",
		MinTransactions: 10,
		Multiplier:      1.5,
		Perks:           []string{"1.5x $THECRYPTOBADDIE per transaction", "Priority support"},
	},
	{
		Name:            "Elite Baddie",
		MinTransactions: 50,
		Multiplier:      2,
		Perks:           []string{"2x $THECRYPTOBADDIE per transaction", "Exclusive features", "VIP support"},
	},
	{
		Name:            "Crypto Baddie Legend",
		MinTransactions: 100,
		Multiplier:      3,
		Perks:           []string{"3x $THECRYPTOBADDIE per transaction", "All exclusive features", "Direct line to team"},
	},
}

// UserRewardState is persisted per account. TransactionCount only ever
// increases; count and balance are always written together.
type UserRewardState struct {
	TransactionCount int     `json:"transaction_count"`
	TokenBalance     float64 `json:"token_balance"`
}

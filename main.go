package main

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pinkpay/offramp-engine/budget"
	"github.com/pinkpay/offramp-engine/config"
	"github.com/pinkpay/offramp-engine/game"
	"github.com/pinkpay/offramp-engine/handlers"
	"github.com/pinkpay/offramp-engine/kyc"
	"github.com/pinkpay/offramp-engine/ledger"
	"github.com/pinkpay/offramp-engine/middleware"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/rates"
	"github.com/pinkpay/offramp-engine/rewards"
	"github.com/pinkpay/offramp-engine/store"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	// Rate polling: static table for local development, live endpoint when
	// RATE_API_URL is set. The table is replaced whole on every refresh.
	var source rates.Source = rates.NewStaticProvider(rates.DefaultRates())
	if cfg.RateAPIURL != "" {
		pairs := make([][2]string, 0)
		for _, r := range rates.DefaultRates() {
			pairs = append(pairs, [2]string{r.FromAsset, r.ToCurrency})
		}
		source = rates.NewHTTPProvider(cfg.RateAPIURL, cfg.RateAPIKey, pairs)
	}
	poller := rates.NewPoller(source, cfg.RateRefreshInterval)
	poller.Start()
	defer poller.Stop()

	kv := store.NewGormStore(db)
	txLedger := ledger.NewLedger(kv)
	kycWorkflow := kyc.NewWorkflow(kv, kyc.PolicyAllSteps)
	rewardEngine := rewards.NewEngine(kv, models.DefaultRewardTiers)
	quizGame := game.NewGame(kv, rewardEngine)
	budgetTracker := budget.NewTracker(kv)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	router := buildRouter(cfg, routerDeps{
		rates:   poller,
		ledger:  txLedger,
		kyc:     kycWorkflow,
		rewards: rewardEngine,
		game:    quizGame,
		budget:  budgetTracker,
		store:   kv,
		rng:     rng,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	logrus.WithField("port", port).Info("Starting offramp engine API server")
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

type routerDeps struct {
	rates   rates.Provider
	ledger  *ledger.Ledger
	kyc     *kyc.Workflow
	rewards *rewards.Engine
	game    *game.Game
	budget  *budget.Tracker
	store   store.Store
	rng     *rand.Rand
}

func buildRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	router := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "offramp-engine-api",
		})
	})

	authHandler := handlers.NewAuthHandler(cfg)
	offrampHandler := handlers.NewOfframpHandler(deps.rates, deps.ledger, deps.kyc, deps.rewards, cfg.SettlementDelay, deps.rng)
	txHandler := handlers.NewTransactionHandler(deps.ledger)
	kycHandler := handlers.NewKYCHandler(deps.kyc)
	rewardsHandler := handlers.NewRewardsHandler(deps.rewards, deps.rng)
	gameHandler := handlers.NewGameHandler(deps.game, deps.rng)
	budgetHandler := handlers.NewBudgetHandler(deps.budget)
	settingsHandler := handlers.NewSettingsHandler(deps.store)

	api := router.Group("/api/v1")
	api.POST("/auth/session", authHandler.CreateSession)

	// Rates and payout methods are public; everything account-scoped sits
	// behind the JWT middleware.
	api.GET("/rates", offrampHandler.ListRates)
	api.GET("/payout-methods", offrampHandler.ListPayoutMethods)

	auth := api.Group("")
	auth.Use(middleware.JwtAuthMiddleware(cfg))
	{
		auth.POST("/offramp/quote", offrampHandler.Quote)
		auth.POST("/offramp/payouts", offrampHandler.SubmitPayout)

		auth.GET("/transactions", txHandler.ListTransactions)
		auth.GET("/transactions/stats", txHandler.TransactionStats)
		auth.GET("/transactions/:id", txHandler.GetTransaction)
		auth.POST("/transactions/:id/retry", txHandler.RetryTransaction)
		auth.POST("/transactions/:id/cancel", txHandler.CancelTransaction)

		auth.GET("/kyc", kycHandler.GetApplication)
		auth.PUT("/kyc/personal", kycHandler.UpdatePersonalInfo)
		auth.PUT("/kyc/identity", kycHandler.UpdateIDVerification)
		auth.PUT("/kyc/financial", kycHandler.UpdateFinancialInfo)
		auth.PUT("/kyc/compliance", kycHandler.UpdateCompliance)
		auth.POST("/kyc/submit", kycHandler.Submit)
		auth.POST("/kyc/reset", kycHandler.Reset)
		auth.POST("/kyc/decision", middleware.RequireRole("verifier"), kycHandler.Decide)

		auth.GET("/rewards", rewardsHandler.GetRewards)
		auth.POST("/rewards/simulate", rewardsHandler.SimulateEvent)

		auth.GET("/game/question", gameHandler.DrawQuestion)
		auth.POST("/game/answer", gameHandler.SubmitAnswer)
		auth.GET("/game/stats", gameHandler.GetStats)

		auth.GET("/budget/categories", budgetHandler.ListCategories)
		auth.POST("/budget/expenses", budgetHandler.AddExpense)
		auth.GET("/budget/expenses", budgetHandler.ListExpenses)
		auth.GET("/budget/budgets", budgetHandler.ListBudgets)
		auth.PUT("/budget/budgets/:category", budgetHandler.SetBudget)
		auth.POST("/budget/goals", budgetHandler.AddGoal)
		auth.GET("/budget/goals", budgetHandler.ListGoals)
		auth.POST("/budget/goals/:id/contribute", budgetHandler.Contribute)
		auth.GET("/budget/summary", budgetHandler.Summary)

		auth.GET("/settings/language", settingsHandler.GetLanguage)
		auth.PUT("/settings/language", settingsHandler.SetLanguage)
	}

	return router
}

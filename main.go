package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"casino-service/internal/config"
	"casino-service/internal/database"
	"casino-service/internal/handlers"
	"casino-service/internal/lock"
	"casino-service/internal/middleware"
	"casino-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Initialize Database
	database.Connect(cfg)
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisURL})
	defer asynqClient.Close()
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	defer rdb.Close()

	// Init Services
	locks := lock.New()
	ledgerService := services.NewLedgerService(db)
	seedService := services.NewSeedService(db)
	auditService := services.NewAuditService(db)
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	accountService := services.NewAccountService(db, jwtService, ledgerService, auditService, cfg)
	settlementService := services.NewSettlementService(db, ledgerService, seedService, locks, cfg)
	depositService := services.NewDepositService(db, ledgerService, cfg, asynqClient)
	withdrawalService := services.NewWithdrawalService(db, ledgerService, locks, cfg, asynqClient, auditService)
	rateLimiter := services.NewRateLimitService(rdb, cfg.BetRateLimit, cfg.BetRateWindow)

	// Handlers
	authHandler := handlers.NewAuthHandler(accountService)
	gameHandler := handlers.NewGameHandler(settlementService)
	fairnessHandler := handlers.NewFairnessHandler(seedService)
	depositHandler := handlers.NewDepositHandler(depositService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	adminHandler := handlers.NewAdminHandler(withdrawalService, depositService, accountService, auditService, ledgerService)

	// Initialize Gin
	r := gin.Default()
	r.HandleMethodNotAllowed = true

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to Casino service"})
	})

	// Public routes
	r.POST("/auth/login", authHandler.Login)
	r.POST("/fairness/verify", fairnessHandler.Verify)
	r.POST("/webhooks/payment", depositHandler.Webhook)

	// Authenticated routes
	auth := r.Group("/", middleware.Auth(jwtService))
	{
		auth.GET("/me", authHandler.Me)
		auth.POST("/bonus/unlock", authHandler.UnlockBonus)
		auth.GET("/ledger", ledgerHandler.Entries)

		auth.GET("/fairness/seed", fairnessHandler.Seed)
		auth.POST("/fairness/rotate", fairnessHandler.Rotate)

		games := auth.Group("/games", middleware.RateLimit(rateLimiter, "bet"))
		{
			games.POST("/dice", gameHandler.PlayDice)
			games.POST("/limbo", gameHandler.PlayLimbo)
			games.POST("/plinko", gameHandler.PlayPlinko)
			games.POST("/roulette", gameHandler.PlayRoulette)
			games.POST("/blackjack", gameHandler.PlayBlackjack)
			games.GET("/history", gameHandler.History)
		}

		auth.POST("/deposits", depositHandler.Create)
		auth.GET("/deposits", depositHandler.List)
		auth.GET("/deposits/:orderId", depositHandler.Get)

		auth.POST("/withdrawals", withdrawalHandler.Request)
		auth.GET("/withdrawals", withdrawalHandler.List)
		auth.GET("/withdrawals/:id", withdrawalHandler.Get)

		admin := auth.Group("/admin", middleware.AdminOnly())
		{
			admin.GET("/withdrawals", adminHandler.ReviewQueue)
			admin.GET("/deposits", adminHandler.DepositLedger)
			admin.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
			admin.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
			admin.POST("/withdrawals/:id/complete", adminHandler.CompleteWithdrawal)
			admin.POST("/withdrawals/:id/fail", adminHandler.FailWithdrawal)
			admin.POST("/accounts/:id/freeze", adminHandler.FreezeAccount)
			admin.POST("/accounts/:id/unfreeze", adminHandler.UnfreezeAccount)
			admin.GET("/accounts/:id/ledger", adminHandler.AccountLedger)
			admin.GET("/audit", adminHandler.AuditLog)
		}
	}

	// Start Cron Schedulers
	depositService.StartScheduler()
	withdrawalService.StartScheduler()

	log.Info().Str("port", cfg.Port).Msg("HTTP server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

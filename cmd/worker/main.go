package main

import (
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"casino-service/internal/config"
	"casino-service/internal/consumers"
	"casino-service/internal/database"
	"casino-service/internal/lock"
	"casino-service/internal/services"
	"casino-service/internal/worker"
)

func main() {
	// Load env
	if err := godotenv.Load("../../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Info().Msg("No .env file found, using system env")
		}
	}

	cfg := config.Load()

	// Connect DB
	database.Connect(cfg)
	db := database.DB

	// Init Services
	locks := lock.New()
	ledgerService := services.NewLedgerService(db)
	auditService := services.NewAuditService(db)
	withdrawalService := services.NewWithdrawalService(db, ledgerService, locks, cfg, nil, auditService)

	// Processor
	processor := consumers.NewProcessor(db, withdrawalService, ledgerService, cfg)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisURL}

	log.Info().Msg("Starting Asynq Worker...")
	worker.StartWorker(redisOpt, processor)
}

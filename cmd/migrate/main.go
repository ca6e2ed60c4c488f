package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"casino-service/internal/config"
	"casino-service/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Info().Msg("No .env file found, using system environment variables")
		}
	}

	cfg := config.Load()

	// Initialize Database
	database.Connect(cfg)

	// Run Migrations
	log.Info().Msg("Running database migrations...")
	database.Migrate()

	log.Info().Msg("Migrations completed successfully!")
}

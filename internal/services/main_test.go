package services

import (
	"log"
	"os"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"casino-service/internal/config"
	"casino-service/internal/models"
)

// NOTE: These tests require a running MySQL instance.
// Set DATABASE_URL to run them; without it the DB-backed tests skip.

var testDB *gorm.DB

func setup() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Skipping DB tests: DATABASE_URL not set")
		return
	}

	var err error
	testDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return
	}

	testDB.AutoMigrate(
		&models.Account{},
		&models.SeedPair{},
		&models.WagerOutcome{},
		&models.LedgerEntry{},
		&models.Deposit{},
		&models.WithdrawalRequest{},
		&models.AuditLog{},
		&models.CallbackLog{},
	)
}

func cleanup() {
	if testDB != nil {
		testDB.Exec("DELETE FROM ledger_entries")
		testDB.Exec("DELETE FROM wager_outcomes")
		testDB.Exec("DELETE FROM seed_pairs")
		testDB.Exec("DELETE FROM deposits")
		testDB.Exec("DELETE FROM withdrawal_requests")
		testDB.Exec("DELETE FROM audit_logs")
		testDB.Exec("DELETE FROM callback_logs")
		testDB.Exec("DELETE FROM accounts")
	}
}

// testConfig returns permissive limits so individual tests only trip the
// rule they target.
func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		JWTTTL:               time.Hour,
		PaymentWebhookSecret: "webhook-secret",

		MinDepositForGames: 1000,
		MaxBetPerRound:     10000000,

		MinWithdrawal:           1000,
		MaxWithdrawalPerRequest: 500000000,
		DailyWithdrawalLimit:    1000000000,
		WithdrawalVelocityLimit: 100,
		WithdrawalCooldown:      0,
		ManualReviewThreshold:   100000000,
		AnomalousWinRatio:       5.0,
		AutoApproveDelay:        15 * time.Minute,

		DepositTTL: 24 * time.Hour,

		ReferralPayoutThreshold: 5,
		ReferralBonusAmount:     500,
	}
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	os.Exit(code)
}

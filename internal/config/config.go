package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every operational knob. Values come from the environment;
// godotenv is loaded by the entrypoints before Load runs.
type Config struct {
	Port     string
	GinMode  string
	RedisURL string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret            string
	JWTTTL               time.Duration
	PaymentWebhookSecret string

	// Gameplay
	MinDepositForGames int64 // gated games require this much lifetime deposit
	MaxBetPerRound     int64
	BetRateLimit       int
	BetRateWindow      time.Duration

	// Withdrawals
	MinWithdrawal           int64
	MaxWithdrawalPerRequest int64
	DailyWithdrawalLimit    int64
	WithdrawalVelocityLimit int
	WithdrawalCooldown      time.Duration
	ManualReviewThreshold   int64
	AnomalousWinRatio       float64
	AutoApproveDelay        time.Duration

	// Deposits
	DepositTTL time.Duration

	// Referral economy
	ReferralPayoutThreshold int
	ReferralBonusAmount     int64

	// Bonus unlock: bonus winnings above this are withdrawable
	BonusUnlockThreshold int64
}

// Load reads the environment into a Config, applying defaults suitable for
// local development. Amounts are integer minor units.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", ""),
		RedisURL: getEnv("REDIS_URL", "localhost:6379"),

		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "casino"),

		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTTTL:               getEnvDuration("JWT_TTL", 24*time.Hour),
		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),

		MinDepositForGames: getEnvInt64("MIN_DEPOSIT_FOR_GAMES", 1000),
		MaxBetPerRound:     getEnvInt64("MAX_BET_PER_ROUND", 10000000),
		BetRateLimit:       getEnvInt("BET_RATE_LIMIT", 30),
		BetRateWindow:      getEnvDuration("BET_RATE_WINDOW", time.Minute),

		MinWithdrawal:           getEnvInt64("MIN_WITHDRAWAL", 1000),
		MaxWithdrawalPerRequest: getEnvInt64("MAX_WITHDRAWAL_PER_REQUEST", 500000000),
		DailyWithdrawalLimit:    getEnvInt64("DAILY_WITHDRAWAL_LIMIT", 1000000000),
		WithdrawalVelocityLimit: getEnvInt("WITHDRAWAL_VELOCITY_LIMIT", 5),
		WithdrawalCooldown:      getEnvDuration("WITHDRAWAL_COOLDOWN", 10*time.Minute),
		ManualReviewThreshold:   getEnvInt64("MANUAL_REVIEW_THRESHOLD", 100000000),
		AnomalousWinRatio:       getEnvFloat("ANOMALOUS_WIN_RATIO", 5.0),
		AutoApproveDelay:        getEnvDuration("AUTO_APPROVE_DELAY", 15*time.Minute),

		DepositTTL: getEnvDuration("DEPOSIT_TTL", 24*time.Hour),

		ReferralPayoutThreshold: getEnvInt("REFERRAL_PAYOUT_THRESHOLD", 5),
		ReferralBonusAmount:     getEnvInt64("REFERRAL_BONUS_AMOUNT", 500),

		BonusUnlockThreshold: getEnvInt64("BONUS_UNLOCK_THRESHOLD", 10000),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package models

import (
	"time"
)

// Game types
const (
	GameDice      = "dice"
	GameLimbo     = "limbo"
	GamePlinko    = "plinko"
	GameRoulette  = "roulette"
	GameBlackjack = "blackjack"
)

// Balance partitions
const (
	PartitionReal  = "real"
	PartitionBonus = "bonus"
)

// WagerOutcome is the append-only record of one settled game round. Rows are
// never updated after creation.
type WagerOutcome struct {
	ID             int       `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID      int       `gorm:"column:account_id;not null;index:idx_outcome_account" json:"account_id"`
	GameType       string    `gorm:"column:game_type;size:20;not null" json:"game_type"`
	BetAmount      int64     `gorm:"column:bet_amount;not null" json:"bet_amount"`
	Partition      string    `gorm:"column:partition;size:10;not null;default:real" json:"partition"`
	ServerSeedHash string    `gorm:"column:server_seed_hash;size:64;not null" json:"server_seed_hash"`
	ClientSeed     string    `gorm:"column:client_seed;size:64;not null" json:"client_seed"`
	Nonce          int64     `gorm:"column:nonce;not null" json:"nonce"`
	Outcome        string    `gorm:"column:outcome;type:text;not null" json:"outcome"`
	Multiplier     float64   `gorm:"column:multiplier;type:decimal(12,4);not null" json:"multiplier"`
	Payout         int64     `gorm:"column:payout;not null" json:"payout"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WagerOutcome) TableName() string {
	return "wager_outcomes"
}

package models

import (
	"time"
)

// SeedPair holds the fairness inputs for one commit/reveal cycle. The server
// seed stays secret while the pair is active; only its sha256 hash is shown
// to the player. Nonce increments once per settled wager.
type SeedPair struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	AccountID      int        `gorm:"column:account_id;not null;index:idx_seed_account" json:"account_id"`
	ServerSeed     string     `gorm:"column:server_seed;size:64;not null" json:"-"`
	ServerSeedHash string     `gorm:"column:server_seed_hash;size:64;not null" json:"server_seed_hash"`
	ClientSeed     string     `gorm:"column:client_seed;size:64;not null" json:"client_seed"`
	Nonce          int64      `gorm:"column:nonce;not null;default:0" json:"nonce"`
	Active         bool       `gorm:"column:active;default:true;index:idx_seed_account" json:"active"`
	RevealedAt     *time.Time `gorm:"column:revealed_at" json:"revealed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SeedPair) TableName() string {
	return "seed_pairs"
}

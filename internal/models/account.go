package models

import (
	"time"
)

// Account statuses
const (
	AccountActive = 0
	AccountFrozen = 1
)

// Account is the authoritative per-player record. All money columns are
// integer minor units (cents). real_balance and bonus_balance may never go
// negative; mutations go through the ledger service only.
type Account struct {
	ID             int    `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletAddress  string `gorm:"column:wallet_address;size:128;not null;uniqueIndex" json:"wallet_address"`
	RealBalance    int64  `gorm:"column:real_balance;not null;default:0" json:"real_balance"`
	BonusBalance   int64  `gorm:"column:bonus_balance;not null;default:0" json:"bonus_balance"`
	TotalDeposited int64  `gorm:"column:total_deposited;not null;default:0" json:"total_deposited"`
	TotalWagered   int64  `gorm:"column:total_wagered;not null;default:0" json:"total_wagered"`
	TotalWon       int64  `gorm:"column:total_won;not null;default:0" json:"total_won"`
	// Flips false -> true exactly once, when the first deposit finishes.
	HasDeposited       bool      `gorm:"column:has_deposited;default:false" json:"has_deposited"`
	ReferralCounted    bool      `gorm:"column:referral_counted;default:false" json:"-"`
	ReferredBy         *string   `gorm:"column:referred_by;size:128" json:"referred_by,omitempty"`
	ValidReferralCount int       `gorm:"column:valid_referral_count;default:0" json:"valid_referral_count"`
	IsAdmin            bool      `gorm:"column:is_admin;default:false" json:"is_admin"`
	Status             int       `gorm:"column:status;default:0" json:"status"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

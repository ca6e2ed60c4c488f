package models

import (
	"time"
)

// LedgerEntry is one row per balance mutation, written in the same database
// transaction as the mutation itself. balance_after is the partition balance
// immediately after the delta was applied, which makes per-account history
// reconcilable by commit order.
type LedgerEntry struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID    int       `gorm:"column:account_id;not null;index:idx_ledger_account" json:"account_id"`
	Partition    string    `gorm:"column:partition;size:10;not null" json:"partition"`
	Delta        int64     `gorm:"column:delta;not null" json:"delta"`
	BalanceAfter int64     `gorm:"column:balance_after;not null" json:"balance_after"`
	Cause        string    `gorm:"column:cause;size:100;not null" json:"cause"`
	Reference    string    `gorm:"column:reference;size:100;index" json:"reference"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

package models

import (
	"time"
)

// WithdrawalRequest statuses
const (
	WithdrawalPendingAuto   = "pending_auto"
	WithdrawalPendingManual = "pending_manual"
	WithdrawalApproved      = "approved"
	WithdrawalRejected      = "rejected"
	WithdrawalCompleted     = "completed"
	WithdrawalFailed        = "failed"
)

// Risk levels
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// WithdrawalRequest reserves funds at creation time: the real balance is
// debited in the same transaction that inserts the row. The debit is
// refunded exactly once if the request ends rejected or failed.
type WithdrawalRequest struct {
	ID                 int        `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID          int        `gorm:"column:account_id;not null;index:idx_withdrawal_account" json:"account_id"`
	Amount             int64      `gorm:"column:amount;not null" json:"amount"`
	Token              string     `gorm:"column:token;size:20;not null;default:usdt" json:"token"`
	DestinationAddress string     `gorm:"column:destination_address;size:128;not null" json:"destination_address"`
	Chain              string     `gorm:"column:chain;size:20;not null" json:"chain"`
	Status             string     `gorm:"column:status;size:20;not null;index" json:"status"`
	RiskLevel          string     `gorm:"column:risk_level;size:10;not null" json:"risk_level"`
	RejectionReason    string     `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	TxHash             string     `gorm:"column:tx_hash;size:128" json:"tx_hash,omitempty"`
	AutoApproveAt      *time.Time `gorm:"column:auto_approve_at;index" json:"auto_approve_at,omitempty"`
	ApprovedAt         *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	CompletedAt        *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

// Pending reports whether the request still awaits approval or rejection.
func (w *WithdrawalRequest) Pending() bool {
	return w.Status == WithdrawalPendingAuto || w.Status == WithdrawalPendingManual
}

package models

import (
	"time"
)

// Deposit statuses. Transitions are monotone toward a terminal state;
// finished, failed, expired and flagged_fraud are terminal.
const (
	DepositPending       = "pending"
	DepositConfirming    = "confirming"
	DepositPartiallyPaid = "partially_paid"
	DepositFinished      = "finished"
	DepositFailed        = "failed"
	DepositExpired       = "expired"
	DepositFlaggedFraud  = "flagged_fraud"
)

// Deposit is one payment attempt against the crypto payment provider. The
// order id is the idempotency key for webhook processing; exactly one ledger
// credit may ever be applied per row.
type Deposit struct {
	ID               int        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          string     `gorm:"column:order_id;size:64;not null;uniqueIndex" json:"order_id"`
	AccountID        int        `gorm:"column:account_id;not null;index:idx_deposit_account" json:"account_id"`
	PaymentID        string     `gorm:"column:payment_id;size:64;index" json:"payment_id"`
	ExpectedAmount   int64      `gorm:"column:expected_amount;not null" json:"expected_amount"`
	ExpectedCurrency string     `gorm:"column:expected_currency;size:10;not null" json:"expected_currency"`
	PayAddress       string     `gorm:"column:pay_address;size:128" json:"pay_address"`
	ActuallyPaid     int64      `gorm:"column:actually_paid;default:0" json:"actually_paid"`
	Status           string     `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	CreditedAt       *time.Time `gorm:"column:credited_at" json:"credited_at,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Deposit) TableName() string {
	return "deposits"
}

// Terminal reports whether no further webhook event may change this deposit.
func (d *Deposit) Terminal() bool {
	switch d.Status {
	case DepositFinished, DepositFailed, DepositExpired, DepositFlaggedFraud:
		return true
	}
	return false
}

package models

import (
	"time"
)

// CallbackLog captures every webhook delivery from the payment provider,
// including ones that were rejected or short-circuited, for reconciliation.
type CallbackLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Request   string    `gorm:"column:request;type:longtext" json:"request"`
	Response  string    `gorm:"column:response;type:longtext" json:"response"`
	Status    int       `gorm:"column:status;default:0" json:"status"`
	OrderID   string    `gorm:"column:order_id;size:64;index" json:"order_id"`
	PaymentID string    `gorm:"column:payment_id;size:64" json:"payment_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CallbackLog) TableName() string {
	return "callback_logs"
}

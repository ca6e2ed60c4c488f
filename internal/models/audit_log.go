package models

import (
	"time"
)

// AuditLog records every admin action as an append-only row.
type AuditLog struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string    `gorm:"column:actor;size:128;not null" json:"actor"`
	Action    string    `gorm:"column:action;size:50;not null" json:"action"`
	Target    string    `gorm:"column:target;size:100;not null" json:"target"`
	Details   string    `gorm:"column:details;type:text" json:"details"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

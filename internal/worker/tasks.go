package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task Types
const (
	TypeWithdrawalAutoApprove = "withdrawal:auto-approve"
	TypeFirstDepositConfirmed = "deposit:first-confirmed"
)

// --- Payloads ---

// WithdrawalAutoApprovePayload identifies a low-risk withdrawal whose hold
// window has elapsed.
type WithdrawalAutoApprovePayload struct {
	WithdrawalID int `json:"withdrawal_id"`
}

// FirstDepositPayload is emitted once per account, when its first deposit
// reaches a terminal credited state.
type FirstDepositPayload struct {
	AccountID int    `json:"account_id"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
}

// Task Creators

func NewWithdrawalAutoApproveTask(payload WithdrawalAutoApprovePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWithdrawalAutoApprove, data), nil
}

func NewFirstDepositTask(payload FirstDepositPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeFirstDepositConfirmed, data), nil
}

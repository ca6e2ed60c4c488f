package services

import (
	"errors"
)

// Service errors. Handlers map these to structured response codes; internal
// detail never reaches the caller.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountFrozen      = errors.New("account is frozen")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDepositRequired    = errors.New("minimum deposit required")
	ErrInvalidWagerParams = errors.New("invalid wager parameters")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidPartition   = errors.New("unknown balance partition")

	ErrDepositNotFound = errors.New("deposit not found")

	ErrWithdrawalNotFound    = errors.New("withdrawal request not found")
	ErrInvalidAddress        = errors.New("invalid destination address for chain")
	ErrAmountBelowMinimum    = errors.New("amount below minimum withdrawal")
	ErrAmountAboveMaximum    = errors.New("amount above maximum withdrawal")
	ErrDailyLimitExceeded    = errors.New("daily withdrawal limit reached")
	ErrVelocityLimitExceeded = errors.New("too many withdrawal requests today")
	ErrCooldownActive        = errors.New("withdrawal cooldown active")
	ErrInvalidSignature      = errors.New("invalid authentication signature")
	ErrAlreadyResolved       = errors.New("request already resolved")
	ErrReasonRequired        = errors.New("rejection reason required")
	ErrNotApproved           = errors.New("request is not approved")

	ErrBonusLocked = errors.New("bonus wagering requirement not met")
	ErrRateLimited = errors.New("rate limit exceeded")
)

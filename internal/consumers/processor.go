package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-service/internal/config"
	"casino-service/internal/models"
	"casino-service/internal/services"
	"casino-service/internal/worker"
)

// Processor handles the background task types: delayed withdrawal
// auto-approval and first-deposit referral accounting.
type Processor struct {
	DB          *gorm.DB
	Withdrawals *services.WithdrawalService
	Ledger      *services.LedgerService
	Config      *config.Config
}

func NewProcessor(db *gorm.DB, withdrawals *services.WithdrawalService, ledger *services.LedgerService, cfg *config.Config) *Processor {
	return &Processor{DB: db, Withdrawals: withdrawals, Ledger: ledger, Config: cfg}
}

// ProcessTask dispatches on task type. Registered as the catch-all handler
// on the worker mux.
func (p *Processor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	switch t.Type() {
	case worker.TypeWithdrawalAutoApprove:
		return p.processAutoApproval(t)
	case worker.TypeFirstDepositConfirmed:
		return p.processFirstDeposit(t)
	default:
		return fmt.Errorf("unexpected task type: %s", t.Type())
	}
}

func (p *Processor) processAutoApproval(t *asynq.Task) error {
	var payload worker.WithdrawalAutoApprovePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.Withdrawals.AutoApprove(payload.WithdrawalID); err != nil {
		if errors.Is(err, services.ErrWithdrawalNotFound) {
			return fmt.Errorf("withdrawal %d not found: %w", payload.WithdrawalID, asynq.SkipRetry)
		}
		return err
	}
	return nil
}

// processFirstDeposit credits referral progress for the depositor's
// referrer. The referral_counted flag on the depositor makes the whole
// operation idempotent under task redelivery.
func (p *Processor) processFirstDeposit(t *asynq.Task) error {
	var payload worker.FirstDepositPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	return p.DB.Transaction(func(tx *gorm.DB) error {
		var depositor models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&depositor, payload.AccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("account %d not found: %w", payload.AccountID, asynq.SkipRetry)
			}
			return err
		}
		if depositor.ReferralCounted || depositor.ReferredBy == nil {
			return nil
		}

		var referrer models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("wallet_address = ?", *depositor.ReferredBy).
			First(&referrer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Referrer gone; mark counted so we never retry.
				return tx.Model(&depositor).Update("referral_counted", true).Error
			}
			return err
		}

		newCount := referrer.ValidReferralCount + 1
		if newCount >= p.Config.ReferralPayoutThreshold {
			if _, err := p.Ledger.Credit(tx, referrer.ID, models.PartitionBonus,
				p.Config.ReferralBonusAmount, "referral:payout",
				fmt.Sprintf("referral-batch:%d", referrer.ID)); err != nil {
				return err
			}
			newCount = 0
			log.Info().Int("referrer_id", referrer.ID).
				Int64("bonus", p.Config.ReferralBonusAmount).
				Msg("referral batch paid out")
		}
		if err := tx.Model(&referrer).Update("valid_referral_count", newCount).Error; err != nil {
			return err
		}
		return tx.Model(&depositor).Update("referral_counted", true).Error
	})
}

package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-service/internal/config"
	"casino-service/internal/lock"
	"casino-service/internal/models"
	"casino-service/internal/worker"
	"casino-service/pkg/common"
)

// Per-chain destination address formats.
var addressPatterns = map[string]*regexp.Regexp{
	"ethereum": regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
	"bsc":      regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
	"polygon":  regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
	"solana":   regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`),
	"tron":     regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`),
}

// WithdrawalService runs the request, review and payout pipeline. Funds are
// reserved the moment a request is accepted and released back exactly once
// if the request ends rejected or failed.
type WithdrawalService struct {
	DB          *gorm.DB
	Ledger      *LedgerService
	Locks       *lock.AccountLock
	Config      *config.Config
	AsynqClient *asynq.Client
	Audit       *AuditService
}

func NewWithdrawalService(db *gorm.DB, ledger *LedgerService, locks *lock.AccountLock, cfg *config.Config, client *asynq.Client, audit *AuditService) *WithdrawalService {
	return &WithdrawalService{DB: db, Ledger: ledger, Locks: locks, Config: cfg, AsynqClient: client, Audit: audit}
}

type WithdrawRequestDTO struct {
	AccountID int    `json:"-"`
	Amount    int64  `json:"amount" binding:"required"`
	Token     string `json:"token"`
	Address   string `json:"address" binding:"required"`
	Chain     string `json:"chain" binding:"required"`
	Nonce     int64  `json:"nonce" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// RequestWithdrawal validates, risk-classifies and reserves a withdrawal.
// Validation order is fixed so clients get a stable first-failure reason:
// address format, amount bounds, balance, daily limit, velocity, cooldown,
// then signature.
func (s *WithdrawalService) RequestWithdrawal(req WithdrawRequestDTO) (*models.WithdrawalRequest, error) {
	pattern, ok := addressPatterns[req.Chain]
	if !ok || !pattern.MatchString(req.Address) {
		return nil, ErrInvalidAddress
	}
	if req.Amount < s.Config.MinWithdrawal {
		return nil, ErrAmountBelowMinimum
	}
	if req.Amount > s.Config.MaxWithdrawalPerRequest {
		return nil, ErrAmountAboveMaximum
	}

	var request *models.WithdrawalRequest

	err := s.Locks.WithLock(req.AccountID, func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			var acct models.Account
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acct, req.AccountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAccountNotFound
				}
				return err
			}
			if acct.Status == models.AccountFrozen {
				return ErrAccountFrozen
			}
			if acct.RealBalance < req.Amount {
				return ErrInsufficientFunds
			}

			dayStart := time.Now().Add(-24 * time.Hour)

			var dayTotal int64
			if err := tx.Model(&models.WithdrawalRequest{}).
				Where("account_id = ? AND created_at >= ? AND status NOT IN ?",
					req.AccountID, dayStart,
					[]string{models.WithdrawalRejected, models.WithdrawalFailed}).
				Select("COALESCE(SUM(amount), 0)").Scan(&dayTotal).Error; err != nil {
				return err
			}
			if dayTotal+req.Amount > s.Config.DailyWithdrawalLimit {
				return ErrDailyLimitExceeded
			}

			var dayCount int64
			if err := tx.Model(&models.WithdrawalRequest{}).
				Where("account_id = ? AND created_at >= ?", req.AccountID, dayStart).
				Count(&dayCount).Error; err != nil {
				return err
			}
			if dayCount >= int64(s.Config.WithdrawalVelocityLimit) {
				return ErrVelocityLimitExceeded
			}

			var last models.WithdrawalRequest
			err := tx.Where("account_id = ?", req.AccountID).
				Order("created_at DESC").First(&last).Error
			if err == nil && time.Since(last.CreatedAt) < s.Config.WithdrawalCooldown {
				return ErrCooldownActive
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			message := fmt.Sprintf("withdraw:%s:%d:%d", req.Address, req.Amount, req.Nonce)
			if !VerifyWalletSignature(acct.WalletAddress, message, req.Signature) {
				return ErrInvalidSignature
			}

			status, risk, autoApproveAt := s.classifyRisk(&acct, req.Amount)

			if _, err := s.Ledger.Debit(tx, req.AccountID, models.PartitionReal,
				req.Amount, "withdrawal:reserve", req.Address); err != nil {
				return err
			}

			token := req.Token
			if token == "" {
				token = "usdt"
			}
			request = &models.WithdrawalRequest{
				AccountID:          req.AccountID,
				Amount:             req.Amount,
				Token:              token,
				DestinationAddress: req.Address,
				Chain:              req.Chain,
				Status:             status,
				RiskLevel:          risk,
				AutoApproveAt:      autoApproveAt,
			}
			return tx.Create(request).Error
		})
	})
	if err != nil {
		return nil, err
	}

	if request.Status == models.WithdrawalPendingAuto && s.AsynqClient != nil {
		task, terr := worker.NewWithdrawalAutoApproveTask(worker.WithdrawalAutoApprovePayload{WithdrawalID: request.ID})
		if terr == nil {
			_, terr = s.AsynqClient.Enqueue(task,
				asynq.ProcessIn(s.Config.AutoApproveDelay),
				asynq.TaskID(fmt.Sprintf("withdrawal-auto:%d", request.ID)),
				asynq.Queue("critical"))
		}
		if terr != nil && !errors.Is(terr, asynq.ErrTaskIDConflict) {
			// The cron sweep picks up anything that failed to enqueue.
			log.Error().Err(terr).Int("withdrawal_id", request.ID).
				Msg("failed to enqueue auto-approval")
		}
	}

	log.Info().Int("withdrawal_id", request.ID).Int("account_id", req.AccountID).
		Int64("amount", req.Amount).Str("risk", request.RiskLevel).
		Msg("withdrawal requested")
	return request, nil
}

// classifyRisk decides the review path. Large amounts always go to manual
// review; accounts whose winnings run far ahead of their wagering go to
// manual at medium risk; everything else auto-approves after the hold.
func (s *WithdrawalService) classifyRisk(acct *models.Account, amount int64) (status, risk string, autoApproveAt *time.Time) {
	if amount >= s.Config.ManualReviewThreshold {
		return models.WithdrawalPendingManual, models.RiskHigh, nil
	}
	if acct.TotalWagered > 0 &&
		float64(acct.TotalWon)/float64(acct.TotalWagered) >= s.Config.AnomalousWinRatio {
		return models.WithdrawalPendingManual, models.RiskMedium, nil
	}
	at := time.Now().Add(s.Config.AutoApproveDelay)
	return models.WithdrawalPendingAuto, models.RiskLow, &at
}

// Approve moves a pending request to approved. Manual path only; the payout
// executor later calls Complete or Fail.
func (s *WithdrawalService) Approve(withdrawalID int, actor string) (*models.WithdrawalRequest, error) {
	req, err := s.transition(withdrawalID, func(tx *gorm.DB, w *models.WithdrawalRequest) error {
		if !w.Pending() {
			return ErrAlreadyResolved
		}
		now := time.Now()
		w.Status = models.WithdrawalApproved
		w.ApprovedAt = &now
		return tx.Save(w).Error
	})
	if err != nil {
		return nil, err
	}
	s.Audit.Record(actor, "withdrawal.approve", fmt.Sprintf("withdrawal:%d", withdrawalID), "")
	return req, nil
}

// Reject refuses a pending request and refunds the reserved amount. A
// reason is mandatory.
func (s *WithdrawalService) Reject(withdrawalID int, actor, reason string) (*models.WithdrawalRequest, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	req, err := s.transition(withdrawalID, func(tx *gorm.DB, w *models.WithdrawalRequest) error {
		if !w.Pending() {
			return ErrAlreadyResolved
		}
		w.Status = models.WithdrawalRejected
		w.RejectionReason = reason
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		_, err := s.Ledger.Credit(tx, w.AccountID, models.PartitionReal,
			w.Amount, "withdrawal:refund", fmt.Sprintf("withdrawal:%d", w.ID))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Audit.Record(actor, "withdrawal.reject", fmt.Sprintf("withdrawal:%d", withdrawalID), reason)
	return req, nil
}

// Complete records the on-chain payout for an approved request.
func (s *WithdrawalService) Complete(withdrawalID int, actor, txHash string) (*models.WithdrawalRequest, error) {
	req, err := s.transition(withdrawalID, func(tx *gorm.DB, w *models.WithdrawalRequest) error {
		if w.Status != models.WithdrawalApproved {
			return ErrNotApproved
		}
		now := time.Now()
		w.Status = models.WithdrawalCompleted
		w.TxHash = txHash
		w.CompletedAt = &now
		return tx.Save(w).Error
	})
	if err != nil {
		return nil, err
	}
	s.Audit.Record(actor, "withdrawal.complete", fmt.Sprintf("withdrawal:%d", withdrawalID), txHash)
	return req, nil
}

// Fail marks an approved request failed after the payout could not be made,
// refunding the reserved amount.
func (s *WithdrawalService) Fail(withdrawalID int, actor, reason string) (*models.WithdrawalRequest, error) {
	req, err := s.transition(withdrawalID, func(tx *gorm.DB, w *models.WithdrawalRequest) error {
		if w.Status != models.WithdrawalApproved {
			return ErrNotApproved
		}
		w.Status = models.WithdrawalFailed
		w.RejectionReason = reason
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		_, err := s.Ledger.Credit(tx, w.AccountID, models.PartitionReal,
			w.Amount, "withdrawal:refund", fmt.Sprintf("withdrawal:%d", w.ID))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Audit.Record(actor, "withdrawal.fail", fmt.Sprintf("withdrawal:%d", withdrawalID), reason)
	return req, nil
}

// AutoApprove completes a low-risk request once its hold has elapsed. Called
// by the delayed task and by the sweep; the status guard under the row lock
// makes double delivery harmless.
func (s *WithdrawalService) AutoApprove(withdrawalID int) error {
	_, err := s.transition(withdrawalID, func(tx *gorm.DB, w *models.WithdrawalRequest) error {
		if w.Status != models.WithdrawalPendingAuto {
			return ErrAlreadyResolved
		}
		if w.AutoApproveAt == nil || time.Now().Before(*w.AutoApproveAt) {
			return fmt.Errorf("withdrawal %d not yet due for auto-approval", w.ID)
		}
		now := time.Now()
		w.Status = models.WithdrawalCompleted
		w.ApprovedAt = &now
		w.CompletedAt = &now
		return tx.Save(w).Error
	})
	if errors.Is(err, ErrAlreadyResolved) {
		return nil
	}
	if err == nil {
		s.Audit.Record("system", "withdrawal.auto_approve", fmt.Sprintf("withdrawal:%d", withdrawalID), "")
	}
	return err
}

// SweepDueAutoApprovals is the backstop for auto-approval tasks that were
// lost or never enqueued.
func (s *WithdrawalService) SweepDueAutoApprovals() (int, error) {
	var due []models.WithdrawalRequest
	err := s.DB.Where("status = ? AND auto_approve_at <= ?",
		models.WithdrawalPendingAuto, time.Now()).
		Limit(100).Find(&due).Error
	if err != nil {
		return 0, err
	}
	approved := 0
	for _, w := range due {
		if err := s.AutoApprove(w.ID); err != nil {
			log.Error().Err(err).Int("withdrawal_id", w.ID).Msg("sweep auto-approval failed")
			continue
		}
		approved++
	}
	return approved, nil
}

// StartScheduler runs the auto-approval backstop sweep.
func (s *WithdrawalService) StartScheduler() *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 5m", func() {
		n, err := s.SweepDueAutoApprovals()
		if err != nil {
			log.Error().Err(err).Msg("auto-approval sweep failed")
			return
		}
		if n > 0 {
			log.Info().Int("approved", n).Msg("swept due auto-approvals")
		}
	})
	c.Start()
	return c
}

// transition loads a request under FOR UPDATE and applies fn in one
// transaction.
func (s *WithdrawalService) transition(withdrawalID int, fn func(tx *gorm.DB, w *models.WithdrawalRequest) error) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&w, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWithdrawalNotFound
			}
			return err
		}
		return fn(tx, &w)
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetWithdrawal returns a request scoped to the owning account.
func (s *WithdrawalService) GetWithdrawal(accountID, withdrawalID int) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := s.DB.Where("id = ? AND account_id = ?", withdrawalID, accountID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListForAccount returns an account's withdrawal requests, newest first.
func (s *WithdrawalService) ListForAccount(accountID, page, limit int) (common.PaginationResult, error) {
	return s.list(s.DB.Model(&models.WithdrawalRequest{}).Where("account_id = ?", accountID), page, limit)
}

// ListByStatus is the admin review queue.
func (s *WithdrawalService) ListByStatus(status string, page, limit int) (common.PaginationResult, error) {
	query := s.DB.Model(&models.WithdrawalRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return s.list(query, page, limit)
}

func (s *WithdrawalService) list(query *gorm.DB, page, limit int) (common.PaginationResult, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}
	var rows []models.WithdrawalRequest
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(rows, total, page, limit, "Withdrawals fetched"), nil
}

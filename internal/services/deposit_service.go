package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-service/internal/config"
	"casino-service/internal/models"
	"casino-service/internal/worker"
	"casino-service/pkg/common"
)

// DepositService owns the deposit lifecycle: intent creation, webhook
// intake from the payment provider, and expiry of stale intents.
type DepositService struct {
	DB          *gorm.DB
	Ledger      *LedgerService
	Config      *config.Config
	AsynqClient *asynq.Client
}

func NewDepositService(db *gorm.DB, ledger *LedgerService, cfg *config.Config, client *asynq.Client) *DepositService {
	return &DepositService{DB: db, Ledger: ledger, Config: cfg, AsynqClient: client}
}

type CreateDepositRequest struct {
	AccountID int    `json:"account_id"`
	Amount    int64  `json:"amount" binding:"required"`
	Currency  string `json:"currency"`
}

// CreateDeposit records a deposit intent and returns the order id the
// payment provider will echo back in webhook events.
func (s *DepositService) CreateDeposit(req CreateDepositRequest) (*models.Deposit, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}
	deposit := models.Deposit{
		OrderID:          uuid.NewString(),
		AccountID:        req.AccountID,
		ExpectedAmount:   req.Amount,
		ExpectedCurrency: currency,
		Status:           models.DepositPending,
	}
	if err := s.DB.Create(&deposit).Error; err != nil {
		return nil, err
	}
	return &deposit, nil
}

// WebhookPayload mirrors the provider's IPN body. Amounts arrive in minor
// units of the price currency.
type WebhookPayload struct {
	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`
	OrderID       string `json:"order_id"`
	ActuallyPaid  int64  `json:"actually_paid"`
	PayAmount     int64  `json:"pay_amount"`
	PriceCurrency string `json:"price_currency"`
	PayAddress    string `json:"pay_address"`
}

// VerifySignature checks the HMAC-SHA512 signature the provider computes
// over the raw request body. Comparison is constant time.
func (s *DepositService) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(s.Config.PaymentWebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook applies one verified webhook event. Processing is
// idempotent on the order id: once a deposit row is terminal, later events
// are logged and ignored. The ledger credit and the status flip to finished
// commit in the same transaction, so a crash cannot credit twice.
func (s *DepositService) ProcessWebhook(payload WebhookPayload, rawBody []byte) error {
	var firstDeposit *worker.FirstDepositPayload

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var deposit models.Deposit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", payload.OrderID).
			First(&deposit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDepositNotFound
			}
			return err
		}

		if deposit.Terminal() {
			log.Info().Str("order_id", deposit.OrderID).Str("status", deposit.Status).
				Msg("webhook for terminal deposit ignored")
			return nil
		}

		updates := map[string]interface{}{
			"payment_id":    payload.PaymentID,
			"actually_paid": payload.ActuallyPaid,
		}
		if payload.PayAddress != "" {
			updates["pay_address"] = payload.PayAddress
		}

		switch payload.PaymentStatus {
		case models.DepositFinished:
			if payload.ActuallyPaid < deposit.ExpectedAmount {
				updates["status"] = models.DepositFlaggedFraud
				if err := tx.Model(&deposit).Updates(updates).Error; err != nil {
					return err
				}
				log.Warn().Str("order_id", deposit.OrderID).
					Int64("expected", deposit.ExpectedAmount).
					Int64("paid", payload.ActuallyPaid).
					Msg("underpaid deposit flagged")
				return nil
			}

			if _, err := s.Ledger.Credit(tx, deposit.AccountID, models.PartitionReal,
				payload.ActuallyPaid, "deposit", deposit.OrderID); err != nil {
				return err
			}

			var acct models.Account
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&acct, deposit.AccountID).Error; err != nil {
				return err
			}
			acctUpdates := map[string]interface{}{
				"total_deposited": gorm.Expr("total_deposited + ?", payload.ActuallyPaid),
			}
			if !acct.HasDeposited {
				acctUpdates["has_deposited"] = true
				firstDeposit = &worker.FirstDepositPayload{
					AccountID: deposit.AccountID,
					OrderID:   deposit.OrderID,
					Amount:    payload.ActuallyPaid,
				}
			}
			if err := tx.Model(&models.Account{}).
				Where("id = ?", deposit.AccountID).
				Updates(acctUpdates).Error; err != nil {
				return err
			}

			now := time.Now()
			updates["status"] = models.DepositFinished
			updates["credited_at"] = &now
			return tx.Model(&deposit).Updates(updates).Error

		case models.DepositConfirming, models.DepositPartiallyPaid,
			models.DepositFailed, models.DepositExpired:
			updates["status"] = payload.PaymentStatus
			return tx.Model(&deposit).Updates(updates).Error

		default:
			// Unknown intermediate status from the provider. Keep the
			// payment details, leave our status untouched.
			return tx.Model(&deposit).Updates(updates).Error
		}
	})

	s.logCallback(payload, rawBody, err)
	if err != nil {
		return err
	}

	if firstDeposit != nil && s.AsynqClient != nil {
		task, terr := worker.NewFirstDepositTask(*firstDeposit)
		if terr == nil {
			// TaskID makes redelivered webhooks enqueue at most once.
			_, terr = s.AsynqClient.Enqueue(task, asynq.TaskID(firstDeposit.OrderID), asynq.Queue("default"))
		}
		if terr != nil && !errors.Is(terr, asynq.ErrTaskIDConflict) {
			log.Error().Err(terr).Str("order_id", firstDeposit.OrderID).
				Msg("failed to enqueue first-deposit task")
		}
	}
	return nil
}

func (s *DepositService) logCallback(payload WebhookPayload, rawBody []byte, procErr error) {
	status := 1
	response := "processed"
	if procErr != nil {
		status = 0
		response = procErr.Error()
	}
	entry := models.CallbackLog{
		Request:   string(rawBody),
		Response:  response,
		Status:    status,
		OrderID:   payload.OrderID,
		PaymentID: payload.PaymentID,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Error().Err(err).Msg("failed to write callback log")
	}
}

// GetDeposit returns a deposit by order id, scoped to the owning account.
func (s *DepositService) GetDeposit(accountID int, orderID string) (*models.Deposit, error) {
	var deposit models.Deposit
	err := s.DB.Where("order_id = ? AND account_id = ?", orderID, accountID).First(&deposit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDepositNotFound
	}
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}

// ListDeposits returns an account's deposits, newest first.
func (s *DepositService) ListDeposits(accountID, page, limit int) (common.PaginationResult, error) {
	var deposits []models.Deposit
	var total int64

	query := s.DB.Model(&models.Deposit{}).Where("account_id = ?", accountID)
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&deposits).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(deposits, total, page, limit, "Deposits fetched"), nil
}

// ListAllDeposits is the admin reconciliation view, filterable by status.
func (s *DepositService) ListAllDeposits(status string, page, limit int) (common.PaginationResult, error) {
	query := s.DB.Model(&models.Deposit{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}
	var deposits []models.Deposit
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&deposits).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(deposits, total, page, limit, "Deposits fetched"), nil
}

// ExpireStalePending marks pending deposits older than the TTL expired.
// Webhooks arriving later still short-circuit on the terminal status.
func (s *DepositService) ExpireStalePending() (int64, error) {
	cutoff := time.Now().Add(-s.Config.DepositTTL)
	res := s.DB.Model(&models.Deposit{}).
		Where("status = ? AND created_at < ?", models.DepositPending, cutoff).
		Update("status", models.DepositExpired)
	return res.RowsAffected, res.Error
}

// StartScheduler runs periodic deposit housekeeping.
func (s *DepositService) StartScheduler() *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 10m", func() {
		n, err := s.ExpireStalePending()
		if err != nil {
			log.Error().Err(err).Msg("deposit expiry sweep failed")
			return
		}
		if n > 0 {
			log.Info().Int64("expired", n).Msg("expired stale deposits")
		}
	})
	c.Start()
	return c
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-service/internal/config"
	"casino-service/internal/models"
)

const loginWindow = 5 * time.Minute

// AccountService handles wallet-signature login and account administration.
type AccountService struct {
	DB     *gorm.DB
	JWT    *JWTService
	Ledger *LedgerService
	Audit  *AuditService
	Config *config.Config
}

func NewAccountService(db *gorm.DB, jwtService *JWTService, ledger *LedgerService, audit *AuditService, cfg *config.Config) *AccountService {
	return &AccountService{DB: db, JWT: jwtService, Ledger: ledger, Audit: audit, Config: cfg}
}

type LoginRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Timestamp     int64  `json:"timestamp" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
	ReferredBy    string `json:"referred_by"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

// Login verifies ownership of the wallet address and finds or creates the
// account. The signed timestamp must be within a short window to stop
// replay of captured signatures.
func (s *AccountService) Login(req LoginRequest) (*LoginResponse, error) {
	ts := time.Unix(req.Timestamp, 0)
	if d := time.Since(ts); d > loginWindow || d < -loginWindow {
		return nil, ErrInvalidSignature
	}
	message := fmt.Sprintf("login:%s:%d", req.WalletAddress, req.Timestamp)
	if !VerifyWalletSignature(req.WalletAddress, message, req.Signature) {
		return nil, ErrInvalidSignature
	}

	var acct models.Account
	err := s.DB.Where("wallet_address = ?", req.WalletAddress).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		acct = models.Account{
			WalletAddress: req.WalletAddress,
		}
		// A referrer has to exist; unknown codes are dropped silently.
		if req.ReferredBy != "" && req.ReferredBy != req.WalletAddress {
			var referrer models.Account
			if rerr := s.DB.Where("wallet_address = ?", req.ReferredBy).
				First(&referrer).Error; rerr == nil {
				acct.ReferredBy = &req.ReferredBy
			}
		}
		if cerr := s.DB.Create(&acct).Error; cerr != nil {
			return nil, cerr
		}
		log.Info().Str("wallet", acct.WalletAddress).Int("account_id", acct.ID).
			Msg("account created")
	} else if err != nil {
		return nil, err
	}

	if acct.Status == models.AccountFrozen {
		return nil, ErrAccountFrozen
	}

	token, err := s.JWT.Generate(acct.ID, acct.WalletAddress, acct.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, Account: &acct}, nil
}

func (s *AccountService) GetAccount(accountID int) (*models.Account, error) {
	var acct models.Account
	err := s.DB.First(&acct, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// UnlockBonus converts the bonus balance into withdrawable real funds once
// the account's lifetime wagering meets the unlock threshold. The whole
// balance moves at once; partial unlocks are not supported.
func (s *AccountService) UnlockBonus(accountID int) (int64, error) {
	var unlocked int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var acct models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acct, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		if acct.Status == models.AccountFrozen {
			return ErrAccountFrozen
		}
		if acct.TotalWagered < s.Config.BonusUnlockThreshold {
			return ErrBonusLocked
		}
		if acct.BonusBalance <= 0 {
			return ErrInvalidAmount
		}

		amount := acct.BonusBalance
		if _, err := s.Ledger.Debit(tx, accountID, models.PartitionBonus, amount, "bonus:unlock", ""); err != nil {
			return err
		}
		if _, err := s.Ledger.Credit(tx, accountID, models.PartitionReal, amount, "bonus:unlock", ""); err != nil {
			return err
		}
		unlocked = amount
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info().Int("account_id", accountID).Int64("amount", unlocked).Msg("bonus unlocked")
	return unlocked, nil
}

// Freeze blocks all wagers and withdrawals for the account.
func (s *AccountService) Freeze(accountID int, actor, reason string) error {
	return s.setStatus(accountID, models.AccountFrozen, actor, "account.freeze", reason)
}

func (s *AccountService) Unfreeze(accountID int, actor, reason string) error {
	return s.setStatus(accountID, models.AccountActive, actor, "account.unfreeze", reason)
}

func (s *AccountService) setStatus(accountID, status int, actor, action, reason string) error {
	res := s.DB.Model(&models.Account{}).Where("id = ?", accountID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	s.Audit.Record(actor, action, fmt.Sprintf("account:%d", accountID), reason)
	return nil
}

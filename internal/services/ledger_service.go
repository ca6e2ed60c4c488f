package services

import (
	"gorm.io/gorm"

	"casino-service/internal/models"
	"casino-service/pkg/common"
)

// LedgerService owns every balance mutation. Callers pass the transaction
// handle they are already inside; the guarded UPDATE plus the appended
// ledger entry commit or roll back together with the caller's work.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

func balanceColumn(partition string) (string, error) {
	switch partition {
	case models.PartitionReal:
		return "real_balance", nil
	case models.PartitionBonus:
		return "bonus_balance", nil
	}
	return "", ErrInvalidPartition
}

func partitionBalance(acct *models.Account, partition string) int64 {
	if partition == models.PartitionBonus {
		return acct.BonusBalance
	}
	return acct.RealBalance
}

// Credit adds amount to the partition and appends a ledger entry with the
// resulting balance.
func (s *LedgerService) Credit(tx *gorm.DB, accountID int, partition string, amount int64, cause, reference string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	col, err := balanceColumn(partition)
	if err != nil {
		return 0, err
	}

	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn(col, gorm.Expr(col+" + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrAccountNotFound
	}

	return s.append(tx, accountID, partition, amount, cause, reference)
}

// Debit removes amount from the partition. The update is guarded by the
// current balance, so a delta that would go negative is rejected entirely;
// nothing is written.
func (s *LedgerService) Debit(tx *gorm.DB, accountID int, partition string, amount int64, cause, reference string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	col, err := balanceColumn(partition)
	if err != nil {
		return 0, err
	}

	res := tx.Model(&models.Account{}).
		Where("id = ? AND "+col+" >= ?", accountID, amount).
		UpdateColumn(col, gorm.Expr(col+" - ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrInsufficientFunds
	}

	return s.append(tx, accountID, partition, -amount, cause, reference)
}

func (s *LedgerService) append(tx *gorm.DB, accountID int, partition string, delta int64, cause, reference string) (int64, error) {
	var acct models.Account
	if err := tx.First(&acct, accountID).Error; err != nil {
		return 0, err
	}
	after := partitionBalance(&acct, partition)

	entry := models.LedgerEntry{
		AccountID:    accountID,
		Partition:    partition,
		Delta:        delta,
		BalanceAfter: after,
		Cause:        cause,
		Reference:    reference,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, err
	}
	return after, nil
}

// Entries lists an account's ledger history, newest first.
func (s *LedgerService) Entries(accountID, page, limit int) (common.PaginationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.LedgerEntry{}).Where("account_id = ?", accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var entries []models.LedgerEntry
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(entries, total, page, limit, "Ledger entries fetched"), nil
}

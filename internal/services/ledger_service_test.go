package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-service/internal/models"
)

func TestLedgerCreditDebit(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewLedgerService(testDB)
	acct := models.Account{WalletAddress: "ledger-test"}
	require.NoError(t, testDB.Create(&acct).Error)

	after, err := svc.Credit(testDB, acct.ID, models.PartitionReal, 10000, "deposit", "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), after)

	after, err = svc.Debit(testDB, acct.ID, models.PartitionReal, 4000, "wager:dice", "n:1")
	require.NoError(t, err)
	assert.Equal(t, int64(6000), after)

	// Overdraw fails and leaves the balance untouched.
	_, err = svc.Debit(testDB, acct.ID, models.PartitionReal, 6001, "wager:dice", "n:2")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(6000), fresh.RealBalance)

	// Partitions are independent.
	after, err = svc.Credit(testDB, acct.ID, models.PartitionBonus, 500, "referral:payout", "batch:1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), after)
	_, err = svc.Debit(testDB, acct.ID, models.PartitionBonus, 501, "wager:dice", "n:3")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestLedgerEntriesBalanceChain(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewLedgerService(testDB)
	acct := models.Account{WalletAddress: "ledger-chain-test"}
	require.NoError(t, testDB.Create(&acct).Error)

	svc.Credit(testDB, acct.ID, models.PartitionReal, 10000, "deposit", "ORD-1")
	svc.Debit(testDB, acct.ID, models.PartitionReal, 3000, "wager:limbo", "n:1")
	svc.Credit(testDB, acct.ID, models.PartitionReal, 6000, "payout:limbo", "n:1")

	var entries []models.LedgerEntry
	require.NoError(t, testDB.Where("account_id = ? AND partition = ?",
		acct.ID, models.PartitionReal).Order("id").Find(&entries).Error)
	require.Len(t, entries, 3)

	// Each balance_after equals the running sum of deltas.
	var running int64
	for _, e := range entries {
		running += e.Delta
		assert.Equal(t, running, e.BalanceAfter)
	}

	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, running, fresh.RealBalance)

	// Rejected amounts never reach the ledger.
	_, err := svc.Credit(testDB, acct.ID, models.PartitionReal, 0, "deposit", "ORD-2")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Debit(testDB, acct.ID, models.PartitionReal, -5, "wager:dice", "n:2")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

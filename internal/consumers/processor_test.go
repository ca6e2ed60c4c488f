package consumers

import (
	"context"
	"os"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"casino-service/internal/config"
	"casino-service/internal/models"
	"casino-service/internal/services"
	"casino-service/internal/worker"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			testDB = db
			testDB.AutoMigrate(&models.Account{}, &models.LedgerEntry{})
		}
	}
	os.Exit(m.Run())
}

func cleanup() {
	if testDB != nil {
		testDB.Exec("DELETE FROM ledger_entries")
		testDB.Exec("DELETE FROM accounts")
	}
}

func firstDepositTask(t *testing.T, accountID int) *asynq.Task {
	t.Helper()
	task, err := worker.NewFirstDepositTask(worker.FirstDepositPayload{
		AccountID: accountID,
		OrderID:   "ORD-REF1",
		Amount:    5000,
	})
	require.NoError(t, err)
	return task
}

func TestFirstDepositReferralAccounting(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	cfg := &config.Config{ReferralPayoutThreshold: 2, ReferralBonusAmount: 500}
	ledger := services.NewLedgerService(testDB)
	p := NewProcessor(testDB, nil, ledger, cfg)

	referrer := models.Account{WalletAddress: "referrer-wallet"}
	require.NoError(t, testDB.Create(&referrer).Error)

	ref := referrer.WalletAddress
	first := models.Account{WalletAddress: "referred-1", ReferredBy: &ref}
	require.NoError(t, testDB.Create(&first).Error)

	require.NoError(t, p.ProcessTask(context.Background(), firstDepositTask(t, first.ID)))

	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, referrer.ID).Error)
	assert.Equal(t, 1, fresh.ValidReferralCount)
	assert.Equal(t, int64(0), fresh.BonusBalance)

	// Redelivery does not count the same depositor twice.
	require.NoError(t, p.ProcessTask(context.Background(), firstDepositTask(t, first.ID)))
	require.NoError(t, testDB.First(&fresh, referrer.ID).Error)
	assert.Equal(t, 1, fresh.ValidReferralCount)

	// Second referral reaches the threshold: bonus paid, counter reset.
	second := models.Account{WalletAddress: "referred-2", ReferredBy: &ref}
	require.NoError(t, testDB.Create(&second).Error)
	require.NoError(t, p.ProcessTask(context.Background(), firstDepositTask(t, second.ID)))

	require.NoError(t, testDB.First(&fresh, referrer.ID).Error)
	assert.Equal(t, 0, fresh.ValidReferralCount)
	assert.Equal(t, int64(500), fresh.BonusBalance)
}

func TestProcessTaskUnknownType(t *testing.T) {
	p := NewProcessor(nil, nil, nil, &config.Config{})
	err := p.ProcessTask(context.Background(), asynq.NewTask("no-such-type", nil))
	assert.Error(t, err)
}

package services

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-service/internal/lock"
	"casino-service/internal/models"
)

func TestAddressPatterns(t *testing.T) {
	valid := map[string]string{
		"ethereum": "0x52908400098527886E0F7030069857D2E4169EE7",
		"bsc":      "0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		"polygon":  "0xde709f2102306220921060314715629080e2fb77",
		"solana":   "4Nd1mYQqLkmFoCyvpqRzCGCLMXAhkRFLjbLMWaXVo2xi",
		"tron":     "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8",
	}
	for chain, addr := range valid {
		assert.True(t, addressPatterns[chain].MatchString(addr), "chain %s", chain)
	}

	invalid := map[string]string{
		"ethereum": "0x529084000985278",
		"solana":   "0x52908400098527886E0F7030069857D2E4169EE7",
		"tron":     "4Nd1mYQqLkmFoCyvpqRzCGCLMXAhkRFLjbLMWaXVo2xi",
	}
	for chain, addr := range invalid {
		assert.False(t, addressPatterns[chain].MatchString(addr), "chain %s", chain)
	}
}

func TestClassifyRisk(t *testing.T) {
	svc := &WithdrawalService{Config: testConfig()}

	// Amount at the manual review threshold is always high risk.
	status, risk, at := svc.classifyRisk(&models.Account{}, svc.Config.ManualReviewThreshold)
	assert.Equal(t, models.WithdrawalPendingManual, status)
	assert.Equal(t, models.RiskHigh, risk)
	assert.Nil(t, at)

	// Winnings running far ahead of wagering go to manual review.
	anomalous := &models.Account{TotalWagered: 1000, TotalWon: 5000}
	status, risk, at = svc.classifyRisk(anomalous, 5000)
	assert.Equal(t, models.WithdrawalPendingManual, status)
	assert.Equal(t, models.RiskMedium, risk)
	assert.Nil(t, at)

	// Ordinary account auto-approves after the hold.
	ordinary := &models.Account{TotalWagered: 10000, TotalWon: 9000}
	status, risk, at = svc.classifyRisk(ordinary, 5000)
	assert.Equal(t, models.WithdrawalPendingAuto, status)
	assert.Equal(t, models.RiskLow, risk)
	require.NotNil(t, at)
	assert.WithinDuration(t, time.Now().Add(svc.Config.AutoApproveDelay), *at, 5*time.Second)
}

func TestVerifyWalletSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := hex.EncodeToString(pub)

	message := "withdraw:0xde709f2102306220921060314715629080e2fb77:5000:1"
	sig := hex.EncodeToString(ed25519.Sign(priv, []byte(message)))

	assert.True(t, VerifyWalletSignature(wallet, message, sig))
	assert.False(t, VerifyWalletSignature(wallet, message+"x", sig))
	assert.False(t, VerifyWalletSignature(wallet, message, sig[:len(sig)-2]+"00"))
	assert.False(t, VerifyWalletSignature("not-hex", message, sig))
	assert.False(t, VerifyWalletSignature(hex.EncodeToString(pub[:16]), message, sig))
}

// signedWithdrawal builds a request with a valid signature for the account.
func signedWithdrawal(priv ed25519.PrivateKey, accountID int, amount int64, address string, nonce int64) WithdrawRequestDTO {
	message := fmt.Sprintf("withdraw:%s:%d:%d", address, amount, nonce)
	return WithdrawRequestDTO{
		AccountID: accountID,
		Amount:    amount,
		Address:   address,
		Chain:     "ethereum",
		Nonce:     nonce,
		Signature: hex.EncodeToString(ed25519.Sign(priv, []byte(message))),
	}
}

func newWithdrawalTestAccount(t *testing.T, balance int64) (*models.Account, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	acct := models.Account{
		WalletAddress: hex.EncodeToString(pub),
		RealBalance:   balance,
		TotalWagered:  100000,
		TotalWon:      50000,
	}
	require.NoError(t, testDB.Create(&acct).Error)
	return &acct, priv
}

func TestRequestWithdrawal(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	cfg := testConfig()
	ledger := NewLedgerService(testDB)
	audit := NewAuditService(testDB)
	svc := NewWithdrawalService(testDB, ledger, lock.New(), cfg, nil, audit)

	acct, priv := newWithdrawalTestAccount(t, 100000)
	address := "0xde709f2102306220921060314715629080e2fb77"

	req := signedWithdrawal(priv, acct.ID, 50000, address, 1)
	w, err := svc.RequestWithdrawal(req)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalPendingAuto, w.Status)
	assert.Equal(t, models.RiskLow, w.RiskLevel)

	// Funds are reserved immediately.
	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(50000), fresh.RealBalance)

	// Second request for more than the remainder fails before any debit.
	req2 := signedWithdrawal(priv, acct.ID, 60000, address, 2)
	_, err = svc.RequestWithdrawal(req2)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(50000), fresh.RealBalance)
}

func TestRequestWithdrawalValidationOrder(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	cfg := testConfig()
	ledger := NewLedgerService(testDB)
	svc := NewWithdrawalService(testDB, ledger, lock.New(), cfg, nil, NewAuditService(testDB))

	acct, priv := newWithdrawalTestAccount(t, 100000)
	address := "0xde709f2102306220921060314715629080e2fb77"

	// Bad address reported before the bad amount.
	bad := signedWithdrawal(priv, acct.ID, 1, "nonsense", 1)
	_, err := svc.RequestWithdrawal(bad)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	low := signedWithdrawal(priv, acct.ID, cfg.MinWithdrawal-1, address, 2)
	_, err = svc.RequestWithdrawal(low)
	assert.ErrorIs(t, err, ErrAmountBelowMinimum)

	high := signedWithdrawal(priv, acct.ID, cfg.MaxWithdrawalPerRequest+1, address, 3)
	_, err = svc.RequestWithdrawal(high)
	assert.ErrorIs(t, err, ErrAmountAboveMaximum)

	// Tampered signature fails even when everything else passes.
	tampered := signedWithdrawal(priv, acct.ID, 5000, address, 4)
	tampered.Amount = 6000
	_, err = svc.RequestWithdrawal(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestRejectRefundsExactlyOnce(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	cfg := testConfig()
	ledger := NewLedgerService(testDB)
	svc := NewWithdrawalService(testDB, ledger, lock.New(), cfg, nil, NewAuditService(testDB))

	acct, priv := newWithdrawalTestAccount(t, 100000)
	address := "0xde709f2102306220921060314715629080e2fb77"

	w, err := svc.RequestWithdrawal(signedWithdrawal(priv, acct.ID, 40000, address, 1))
	require.NoError(t, err)

	// Rejection without a reason is refused.
	_, err = svc.Reject(w.ID, "admin", "")
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = svc.Reject(w.ID, "admin", "suspicious destination")
	require.NoError(t, err)

	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(100000), fresh.RealBalance)

	// A second rejection must not refund again.
	_, err = svc.Reject(w.ID, "admin", "again")
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(100000), fresh.RealBalance)
}

func TestAutoApproveIdempotent(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	cfg := testConfig()
	cfg.AutoApproveDelay = -time.Minute // already due
	ledger := NewLedgerService(testDB)
	svc := NewWithdrawalService(testDB, ledger, lock.New(), cfg, nil, NewAuditService(testDB))

	acct, priv := newWithdrawalTestAccount(t, 100000)
	w, err := svc.RequestWithdrawal(signedWithdrawal(priv, acct.ID, 20000,
		"0xde709f2102306220921060314715629080e2fb77", 1))
	require.NoError(t, err)

	require.NoError(t, svc.AutoApprove(w.ID))
	// Double delivery is harmless.
	require.NoError(t, svc.AutoApprove(w.ID))

	got, err := svc.GetWithdrawal(acct.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalCompleted, got.Status)
}

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

	"casino-service/internal/models"
)

func accountTestService() *AccountService {
	cfg := testConfig()
	cfg.BonusUnlockThreshold = 10000
	jwt := NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	return NewAccountService(testDB, jwt, NewLedgerService(testDB), NewAuditService(testDB), cfg)
}

func loginRequest(priv ed25519.PrivateKey, wallet string, ts int64) LoginRequest {
	message := fmt.Sprintf("login:%s:%d", wallet, ts)
	return LoginRequest{
		WalletAddress: wallet,
		Timestamp:     ts,
		Signature:     hex.EncodeToString(ed25519.Sign(priv, []byte(message))),
	}
}

func TestLoginCreatesAccountOnce(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := accountTestService()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := hex.EncodeToString(pub)

	resp, err := svc.Login(loginRequest(priv, wallet, time.Now().Unix()))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, wallet, resp.Account.WalletAddress)

	// Second login reuses the account.
	again, err := svc.Login(loginRequest(priv, wallet, time.Now().Unix()))
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, again.Account.ID)

	var count int64
	testDB.Model(&models.Account{}).Where("wallet_address = ?", wallet).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLoginRejectsStaleAndForgedSignatures(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := accountTestService()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := hex.EncodeToString(pub)

	// Stale timestamp outside the replay window.
	stale := loginRequest(priv, wallet, time.Now().Add(-10*time.Minute).Unix())
	_, err = svc.Login(stale)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// Signature from a different key.
	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	forged := loginRequest(otherPriv, wallet, time.Now().Unix())
	_, err = svc.Login(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestUnlockBonus(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := accountTestService()

	locked := models.Account{
		WalletAddress: "bonus-locked",
		BonusBalance:  5000,
		TotalWagered:  9999,
	}
	require.NoError(t, testDB.Create(&locked).Error)
	_, err := svc.UnlockBonus(locked.ID)
	assert.ErrorIs(t, err, ErrBonusLocked)

	eligible := models.Account{
		WalletAddress: "bonus-eligible",
		BonusBalance:  5000,
		TotalWagered:  10000,
	}
	require.NoError(t, testDB.Create(&eligible).Error)
	amount, err := svc.UnlockBonus(eligible.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), amount)

	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, eligible.ID).Error)
	assert.Equal(t, int64(5000), fresh.RealBalance)
	assert.Equal(t, int64(0), fresh.BonusBalance)

	// Nothing left to unlock.
	_, err = svc.UnlockBonus(eligible.ID)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-service/internal/models"
)

func signWebhook(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := &DepositService{Config: testConfig()}
	body := []byte(`{"order_id":"ORD-TEST123","payment_status":"finished"}`)

	assert.True(t, svc.VerifySignature(body, signWebhook("webhook-secret", body)))
	assert.False(t, svc.VerifySignature(body, signWebhook("wrong-secret", body)))
	assert.False(t, svc.VerifySignature(body, ""))

	// Signature covers the exact bytes; reformatting the body breaks it.
	sig := signWebhook("webhook-secret", body)
	reformatted := []byte(`{"order_id": "ORD-TEST123", "payment_status": "finished"}`)
	assert.False(t, svc.VerifySignature(reformatted, sig))
}

func depositTestService(t *testing.T) (*DepositService, *models.Account) {
	t.Helper()
	acct := models.Account{
		WalletAddress: "deposit-test-wallet",
	}
	require.NoError(t, testDB.Create(&acct).Error)
	ledger := NewLedgerService(testDB)
	return NewDepositService(testDB, ledger, testConfig(), nil), &acct
}

func webhookBody(t *testing.T, payload WebhookPayload) []byte {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func TestCreateDepositOrderID(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, acct := depositTestService(t)

	// Order ids are uuids; the column is unique-indexed, so anything
	// shorter would eventually collide.
	first, err := svc.CreateDeposit(CreateDepositRequest{AccountID: acct.ID, Amount: 5000})
	require.NoError(t, err)
	_, err = uuid.Parse(first.OrderID)
	assert.NoError(t, err)

	second, err := svc.CreateDeposit(CreateDepositRequest{AccountID: acct.ID, Amount: 5000})
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderID, second.OrderID)
}

func TestProcessWebhookCreditsOnce(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, acct := depositTestService(t)
	deposit, err := svc.CreateDeposit(CreateDepositRequest{AccountID: acct.ID, Amount: 5000})
	require.NoError(t, err)

	payload := WebhookPayload{
		PaymentID:     "pay-1",
		PaymentStatus: models.DepositFinished,
		OrderID:       deposit.OrderID,
		ActuallyPaid:  5000,
	}
	require.NoError(t, svc.ProcessWebhook(payload, webhookBody(t, payload)))

	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(5000), fresh.RealBalance)
	assert.Equal(t, int64(5000), fresh.TotalDeposited)
	assert.True(t, fresh.HasDeposited)

	// Redelivery of the same terminal event must not credit again.
	require.NoError(t, svc.ProcessWebhook(payload, webhookBody(t, payload)))
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(5000), fresh.RealBalance)

	got, err := svc.GetDeposit(acct.ID, deposit.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DepositFinished, got.Status)
	assert.NotNil(t, got.CreditedAt)
}

func TestProcessWebhookUnderpayment(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, acct := depositTestService(t)
	deposit, err := svc.CreateDeposit(CreateDepositRequest{AccountID: acct.ID, Amount: 5000})
	require.NoError(t, err)

	payload := WebhookPayload{
		PaymentID:     "pay-2",
		PaymentStatus: models.DepositFinished,
		OrderID:       deposit.OrderID,
		ActuallyPaid:  4999,
	}
	require.NoError(t, svc.ProcessWebhook(payload, webhookBody(t, payload)))

	got, err := svc.GetDeposit(acct.ID, deposit.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DepositFlaggedFraud, got.Status)

	// No credit was applied.
	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(0), fresh.RealBalance)

	// A later full payment cannot resurrect the flagged deposit.
	payload.ActuallyPaid = 5000
	require.NoError(t, svc.ProcessWebhook(payload, webhookBody(t, payload)))
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(0), fresh.RealBalance)
}

func TestProcessWebhookIntermediateStatuses(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, acct := depositTestService(t)
	deposit, err := svc.CreateDeposit(CreateDepositRequest{AccountID: acct.ID, Amount: 5000})
	require.NoError(t, err)

	payload := WebhookPayload{
		PaymentID:     "pay-3",
		PaymentStatus: models.DepositConfirming,
		OrderID:       deposit.OrderID,
	}
	require.NoError(t, svc.ProcessWebhook(payload, webhookBody(t, payload)))

	got, err := svc.GetDeposit(acct.ID, deposit.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DepositConfirming, got.Status)

	var fresh models.Account
	require.NoError(t, testDB.First(&fresh, acct.ID).Error)
	assert.Equal(t, int64(0), fresh.RealBalance)

	// Unknown order ids surface as errors but still get logged.
	missing := WebhookPayload{PaymentStatus: models.DepositFinished, OrderID: "ORD-MISSING"}
	err = svc.ProcessWebhook(missing, webhookBody(t, missing))
	assert.ErrorIs(t, err, ErrDepositNotFound)

	var logs int64
	testDB.Model(&models.CallbackLog{}).Count(&logs)
	assert.GreaterOrEqual(t, logs, int64(2))
}

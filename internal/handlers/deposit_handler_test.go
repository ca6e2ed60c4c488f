package handlers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"casino-service/internal/config"
	"casino-service/internal/services"
)

func webhookRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := &services.DepositService{Config: &config.Config{PaymentWebhookSecret: secret}}
	h := NewDepositHandler(svc)
	r := gin.New()
	r.POST("/webhooks/payment", h.Webhook)
	return r
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r := webhookRouter("secret")
	body := `{"order_id":"ORD-X","payment_status":"finished"}`

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("x-provider-signature", "deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	r := webhookRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookAcceptsMalformedBodyAfterSignature(t *testing.T) {
	// A signed but unparseable body still gets a 200 so the provider stops
	// retrying; the delivery is only logged.
	r := webhookRouter("secret")
	body := "not-json"

	mac := hmac.New(sha512.New, []byte("secret"))
	mac.Write([]byte(body))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("x-provider-signature", hex.EncodeToString(mac.Sum(nil)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"casino-service/internal/middleware"
	"casino-service/internal/services"
	"casino-service/pkg/common"
)

type DepositHandler struct {
	Deposits *services.DepositService
}

func NewDepositHandler(deposits *services.DepositService) *DepositHandler {
	return &DepositHandler{Deposits: deposits}
}

func (h *DepositHandler) Create(c *gin.Context) {
	var req services.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	req.AccountID = c.GetInt(middleware.ContextAccountID)
	deposit, err := h.Deposits.CreateDeposit(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(deposit, "Deposit created"))
}

func (h *DepositHandler) Get(c *gin.Context) {
	deposit, err := h.Deposits.GetDeposit(c.GetInt(middleware.ContextAccountID), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(deposit, "Deposit fetched"))
}

func (h *DepositHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	result, err := h.Deposits.ListDeposits(c.GetInt(middleware.ContextAccountID), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Webhook receives provider IPN callbacks. The signature covers the raw
// body, so the body is read before any JSON decoding. Once the signature
// checks out the response is 200 regardless of processing outcome; the
// provider retries on anything else and every delivery is already logged.
func (h *DepositHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader("x-provider-signature")
	if !h.Deposits.VerifySignature(body, signature) {
		log.Warn().Msg("webhook rejected: bad signature")
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
		return
	}

	var payload services.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn().Err(err).Msg("webhook rejected: malformed body")
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := h.Deposits.ProcessWebhook(payload, body); err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("webhook processing failed")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casino-service/internal/middleware"
	"casino-service/internal/services"
)

type LedgerHandler struct {
	Ledger *services.LedgerService
}

func NewLedgerHandler(ledger *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{Ledger: ledger}
}

// Entries lists the authenticated account's ledger, newest first.
func (h *LedgerHandler) Entries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	result, err := h.Ledger.Entries(c.GetInt(middleware.ContextAccountID), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

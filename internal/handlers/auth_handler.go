package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-service/internal/middleware"
	"casino-service/internal/services"
	"casino-service/pkg/common"
)

type AuthHandler struct {
	Accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

// Login exchanges a wallet signature for a bearer token, creating the
// account on first sight of the address.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	resp, err := h.Accounts.Login(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(resp, "Login successful"))
}

// Me returns the authenticated account with its authoritative balances.
func (h *AuthHandler) Me(c *gin.Context) {
	acct, err := h.Accounts.GetAccount(c.GetInt(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(acct, "Account fetched"))
}

// UnlockBonus moves the bonus balance into real funds once the wagering
// requirement is met.
func (h *AuthHandler) UnlockBonus(c *gin.Context) {
	amount, err := h.Accounts.UnlockBonus(c.GetInt(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"unlocked": amount}, "Bonus unlocked"))
}

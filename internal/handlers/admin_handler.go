package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casino-service/internal/middleware"
	"casino-service/internal/services"
	"casino-service/pkg/common"
)

// AdminHandler exposes the review and account-administration surface. All
// routes sit behind the admin middleware; the acting admin's wallet address
// becomes the audit actor.
type AdminHandler struct {
	Withdrawals *services.WithdrawalService
	Deposits    *services.DepositService
	Accounts    *services.AccountService
	Audit       *services.AuditService
	Ledger      *services.LedgerService
}

func NewAdminHandler(withdrawals *services.WithdrawalService, deposits *services.DepositService, accounts *services.AccountService, audit *services.AuditService, ledger *services.LedgerService) *AdminHandler {
	return &AdminHandler{Withdrawals: withdrawals, Deposits: deposits, Accounts: accounts, Audit: audit, Ledger: ledger}
}

func (h *AdminHandler) actor(c *gin.Context) string {
	return c.GetString(middleware.ContextWalletAddress)
}

// ReviewQueue lists withdrawal requests, filterable by status.
func (h *AdminHandler) ReviewQueue(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	result, err := h.Withdrawals.ListByStatus(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DepositLedger lists all deposits for reconciliation, filterable by status.
func (h *AdminHandler) DepositLedger(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	result, err := h.Deposits.ListAllDeposits(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid withdrawal id", nil, http.StatusBadRequest))
		return
	}
	request, err := h.Withdrawals.Approve(id, h.actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Withdrawal approved"))
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid withdrawal id", nil, http.StatusBadRequest))
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Rejection reason is required", nil, http.StatusBadRequest))
		return
	}
	request, err := h.Withdrawals.Reject(id, h.actor(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Withdrawal rejected"))
}

type completeRequest struct {
	TxHash string `json:"tx_hash" binding:"required"`
}

func (h *AdminHandler) CompleteWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid withdrawal id", nil, http.StatusBadRequest))
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("tx_hash is required", nil, http.StatusBadRequest))
		return
	}
	request, err := h.Withdrawals.Complete(id, h.actor(c), req.TxHash)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Withdrawal completed"))
}

type failRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *AdminHandler) FailWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid withdrawal id", nil, http.StatusBadRequest))
		return
	}
	var req failRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Failure reason is required", nil, http.StatusBadRequest))
		return
	}
	request, err := h.Withdrawals.Fail(id, h.actor(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Withdrawal failed and refunded"))
}

type freezeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *AdminHandler) FreezeAccount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid account id", nil, http.StatusBadRequest))
		return
	}
	var req freezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Reason is required", nil, http.StatusBadRequest))
		return
	}
	if err := h.Accounts.Freeze(id, h.actor(c), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Account frozen"))
}

func (h *AdminHandler) UnfreezeAccount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid account id", nil, http.StatusBadRequest))
		return
	}
	var req freezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Reason is required", nil, http.StatusBadRequest))
		return
	}
	if err := h.Accounts.Unfreeze(id, h.actor(c), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Account unfrozen"))
}

// AccountLedger lists an account's ledger entries for reconciliation.
func (h *AdminHandler) AccountLedger(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid account id", nil, http.StatusBadRequest))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	result, err := h.Ledger.Entries(id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) AuditLog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	result, err := h.Audit.List(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

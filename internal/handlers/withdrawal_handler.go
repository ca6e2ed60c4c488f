package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casino-service/internal/middleware"
	"casino-service/internal/services"
	"casino-service/pkg/common"
)

type WithdrawalHandler struct {
	Withdrawals *services.WithdrawalService
}

func NewWithdrawalHandler(withdrawals *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{Withdrawals: withdrawals}
}

func (h *WithdrawalHandler) Request(c *gin.Context) {
	var req services.WithdrawRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	req.AccountID = c.GetInt(middleware.ContextAccountID)
	request, err := h.Withdrawals.RequestWithdrawal(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(request, "Withdrawal requested"))
}

func (h *WithdrawalHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid withdrawal id", nil, http.StatusBadRequest))
		return
	}
	request, err := h.Withdrawals.GetWithdrawal(c.GetInt(middleware.ContextAccountID), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(request, "Withdrawal fetched"))
}

func (h *WithdrawalHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	result, err := h.Withdrawals.ListForAccount(c.GetInt(middleware.ContextAccountID), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

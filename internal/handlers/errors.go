package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-service/internal/services"
	"casino-service/pkg/common"
)

// httpStatus maps service sentinel errors onto response codes. Anything
// unmapped is a 500 with a generic message so internals never leak.
func httpStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrDepositNotFound),
		errors.Is(err, services.ErrWithdrawalNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidWagerParams),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidPartition),
		errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrAmountBelowMinimum),
		errors.Is(err, services.ErrAmountAboveMaximum),
		errors.Is(err, services.ErrReasonRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrDepositRequired):
		return http.StatusPaymentRequired, err.Error()
	case errors.Is(err, services.ErrAccountFrozen),
		errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrBonusLocked):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrDailyLimitExceeded),
		errors.Is(err, services.ErrVelocityLimitExceeded),
		errors.Is(err, services.ErrCooldownActive),
		errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, services.ErrAlreadyResolved),
		errors.Is(err, services.ErrNotApproved):
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

func respondError(c *gin.Context, err error) {
	status, message := httpStatus(err)
	c.JSON(status, common.NewErrorResponse(message, nil, status))
}

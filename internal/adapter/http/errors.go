package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"kobolend-backend/internal/domain/bureau"
	"kobolend-backend/internal/domain/loan"
	"kobolend-backend/internal/domain/offer"
	"kobolend-backend/internal/gateway/switchclient"
	eliguc "kobolend-backend/internal/usecase/eligibility"
	loanuc "kobolend-backend/internal/usecase/loan"
	paymentuc "kobolend-backend/internal/usecase/payment"
)

// respondError translates domain and gateway errors into HTTP answers.
// Unknown errors are never echoed to the caller.
func respondError(c echo.Context, err error) error {
	var se *paymentuc.SwitchError
	if errors.As(err, &se) {
		return c.JSON(http.StatusPaymentRequired, ErrorResponse{
			Error: "transaction declined: " + se.Message,
			Code:  se.Code,
		})
	}

	switch {
	case errors.Is(err, eliguc.ErrNoOffer):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no qualifying offer"})
	case errors.Is(err, eliguc.ErrBlacklisted):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "customer is blacklisted"})
	case errors.Is(err, loanuc.ErrCustomerIneligible):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "customer failed credit checks"})
	case errors.Is(err, loan.ErrOutstandingLoan):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "customer has an outstanding loan"})
	case errors.Is(err, loan.ErrOfferExpired):
		return c.JSON(http.StatusGone, ErrorResponse{Error: "loan offer has expired"})
	case errors.Is(err, loan.ErrOfferDeclined):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "loan offer was declined"})
	case errors.Is(err, loan.ErrLoanPaidInFull):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "loan is already settled"})
	case errors.Is(err, loan.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "loan offer is not in a valid state for this operation"})
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, offer.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, switchclient.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "payment switch unavailable, try again later"})
	case errors.Is(err, bureau.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "credit bureau unavailable, try again later"})
	}

	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}

package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	paymentuc "kobolend-backend/internal/usecase/payment"
)

type PaymentHandler struct {
	payments *paymentuc.Usecase
}

func NewPaymentHandler(payments *paymentuc.Usecase) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type notificationReq struct {
	LoanOfferID      string `json:"loan_offer_id" validate:"required,hex32"`
	PaymentReference string `json:"payment_reference" validate:"required"`
	Amount           int64  `json:"amount" validate:"required,gt=0"`
}

// Notification takes the switch's inbound payment webhook. Always
// answers 200 on a recognized payload so the switch stops redelivering;
// replays are deduped on the payment reference.
func (h *PaymentHandler) Notification(c echo.Context) error {
	var req notificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}
	ack, err := h.payments.Notification(c.Request().Context(), req.LoanOfferID, req.PaymentReference, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"kobolend-backend/internal/domain/loan"
	eliguc "kobolend-backend/internal/usecase/eligibility"
	loanuc "kobolend-backend/internal/usecase/loan"
	paymentuc "kobolend-backend/internal/usecase/payment"
)

type LoanHandler struct {
	eligibility *eliguc.Usecase
	loans       *loanuc.Usecase
	payments    *paymentuc.Usecase
}

func NewLoanHandler(eligibility *eliguc.Usecase, loans *loanuc.Usecase, payments *paymentuc.Usecase) *LoanHandler {
	return &LoanHandler{eligibility: eligibility, loans: loans, payments: payments}
}

type offersReq struct {
	Phone           string `json:"phone" validate:"required,phone"`
	RequestedAmount int64  `json:"requested_amount" validate:"gte=0"`
	ChannelCode     string `json:"channel_code"`
}

type offerResp struct {
	LoanOfferID string `json:"loan_offer_id"`
	Amount      int64  `json:"amount"`
	InterestPct string `json:"interest_pct"`
	Fees        int64  `json:"fees"`
	TenureDays  int    `json:"tenure_days"`
	ExpiryDate  string `json:"expiry_date"`
	Status      string `json:"status"`
}

// Offers runs the eligibility funnel and returns the qualifying offers.
func (h *LoanHandler) Offers(c echo.Context) error {
	var req offersReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}
	offers, err := h.eligibility.GetOffers(c.Request().Context(), eliguc.GetOffersInput{
		Phone:           req.Phone,
		RequestedAmount: req.RequestedAmount,
		ChannelCode:     req.ChannelCode,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]offerResp, 0, len(offers))
	for _, lo := range offers {
		out = append(out, toOfferResp(lo))
	}
	return c.JSON(http.StatusOK, map[string]any{"offers": out})
}

type acceptReq struct {
	DestinationAcct string `json:"destination_account" validate:"required"`
	DestinationBank string `json:"destination_bank" validate:"required,bankcode"`
}

// Accept transitions the offer to ACCEPTED and immediately attempts the
// disbursement. An ambiguous disbursement outcome is acknowledged as
// processing rather than failed.
func (h *LoanHandler) Accept(c echo.Context) error {
	loanOfferID := c.Param("loan_offer_id")
	if !reHex32.MatchString(loanOfferID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan offer id"})
	}
	var req acceptReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}
	ctx := c.Request().Context()
	if _, err := h.loans.Accept(ctx, loanuc.AcceptInput{
		LoanOfferID:     loanOfferID,
		DestinationAcct: req.DestinationAcct,
		DestinationBank: req.DestinationBank,
	}); err != nil {
		return respondError(c, err)
	}
	ack, err := h.payments.Credit(ctx, loanOfferID)
	if err != nil {
		return respondError(c, err)
	}
	if ack.Processing {
		return c.JSON(http.StatusAccepted, ack)
	}
	return c.JSON(http.StatusOK, ack)
}

type amountReq struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

// Debit collects against the loan. Zero amount means the full
// outstanding balance.
func (h *LoanHandler) Debit(c echo.Context) error {
	loanOfferID := c.Param("loan_offer_id")
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}
	ack, err := h.payments.Debit(c.Request().Context(), loanOfferID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	if ack.Processing {
		return c.JSON(http.StatusAccepted, ack)
	}
	return c.JSON(http.StatusOK, ack)
}

type refundReq struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (h *LoanHandler) Refund(c echo.Context) error {
	loanOfferID := c.Param("loan_offer_id")
	var req refundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}
	ack, err := h.payments.Refund(c.Request().Context(), loanOfferID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	if ack.Processing {
		return c.JSON(http.StatusAccepted, ack)
	}
	return c.JSON(http.StatusOK, ack)
}

type manualPaymentReq struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	UserID uint64 `json:"user_id" validate:"required"`
}

// ManualPayment records a staff-entered repayment.
func (h *LoanHandler) ManualPayment(c echo.Context) error {
	loanOfferID := c.Param("loan_offer_id")
	var req manualPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}
	ack, err := h.payments.ManualPayment(c.Request().Context(), loanOfferID, req.Amount, req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

func toOfferResp(lo *loan.LoanOffer) offerResp {
	return offerResp{
		LoanOfferID: lo.LoanOfferID,
		Amount:      lo.Amount,
		InterestPct: lo.InterestPct.String(),
		Fees:        lo.Fees,
		TenureDays:  lo.TenureDays,
		ExpiryDate:  lo.ExpiryDate.UTC().Format(time.RFC3339),
		Status:      string(lo.Status),
	}
}

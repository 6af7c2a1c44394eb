package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kobolend-backend/internal/domain/customer"
	accountuc "kobolend-backend/internal/usecase/account"
)

type CustomerHandler struct {
	accounts *accountuc.Usecase
}

func NewCustomerHandler(accounts *accountuc.Usecase) *CustomerHandler {
	return &CustomerHandler{accounts: accounts}
}

type resolveAccountReq struct {
	Phone         string `json:"phone" validate:"required,phone"`
	AccountNumber string `json:"account_number" validate:"required,len=10,numeric"`
	BankCode      string `json:"bank_code" validate:"required,bankcode"`
}

type customerResp struct {
	CustomerID           string `json:"customer_id"`
	Phone                string `json:"phone"`
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	VirtualAccountNumber string `json:"virtual_account_number,omitempty"`
	VirtualAccountBank   string `json:"virtual_account_bank,omitempty"`
}

// ResolveAccount verifies a destination bank account and backfills the
// customer's identity details from the resolution.
func (h *CustomerHandler) ResolveAccount(c echo.Context) error {
	var req resolveAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}
	cust, err := h.accounts.ResolveAccount(c.Request().Context(), req.Phone, req.AccountNumber, req.BankCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResp(cust))
}

type virtualAccountReq struct {
	Phone string `json:"phone" validate:"required,phone"`
}

// VirtualAccount provisions (or returns the existing) dedicated
// repayment account for the customer.
func (h *CustomerHandler) VirtualAccount(c echo.Context) error {
	var req virtualAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}
	cust, err := h.accounts.ProvisionVirtualAccount(c.Request().Context(), req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResp(cust))
}

func toCustomerResp(cust *customer.Customer) customerResp {
	return customerResp{
		CustomerID:           cust.CustomerID,
		Phone:                cust.PhoneNumber,
		FirstName:            cust.FirstName,
		LastName:             cust.LastName,
		VirtualAccountNumber: cust.VirtualAccountNumber,
		VirtualAccountBank:   cust.VirtualAccountBank,
	}
}

package switchmock

import (
	"context"

	"kobolend-backend/internal/gateway/switchclient"
)

// Client is a function-backed mock that satisfies switchclient.Client.
// Nil funcs answer explicit success, which keeps happy-path tests short.
type Client struct {
	CreditFn            func(ctx context.Context, phone, loanOfferID string, amount int64, transactionID string) (switchclient.Response, error)
	DebitFn             func(ctx context.Context, amount int64, phone, loanOfferID, transactionID string, takeAvailableBalance bool) (switchclient.DebitResponse, error)
	RefundFn            func(ctx context.Context, amount int64, phone, loanOfferID, transactionID string) (switchclient.Response, error)
	StatusFn            func(ctx context.Context, newStatus, loanOfferID string) error
	QueryFn             func(ctx context.Context, transactionID string) (switchclient.QueryResponse, error)
	CreditScoreFn       func(ctx context.Context, phone string) (switchclient.CreditScoreResponse, error)
	AccountResolutionFn func(ctx context.Context, accountNumber, bankCode string) (switchclient.AccountResolution, error)
	VirtualAccountFn    func(ctx context.Context, customerID, phone, firstName, lastName string) (switchclient.VirtualAccount, error)
}

func ok() switchclient.Response {
	return switchclient.Response{ResponseCode: switchclient.CodeSuccess, ResponseMessage: "Approved"}
}

func (m *Client) Credit(ctx context.Context, phone, loanOfferID string, amount int64, transactionID string) (switchclient.Response, error) {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, phone, loanOfferID, amount, transactionID)
	}
	return ok(), nil
}

func (m *Client) Debit(ctx context.Context, amount int64, phone, loanOfferID, transactionID string, takeAvailableBalance bool) (switchclient.DebitResponse, error) {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, amount, phone, loanOfferID, transactionID, takeAvailableBalance)
	}
	return switchclient.DebitResponse{Response: ok()}, nil
}

func (m *Client) Refund(ctx context.Context, amount int64, phone, loanOfferID, transactionID string) (switchclient.Response, error) {
	if m.RefundFn != nil {
		return m.RefundFn(ctx, amount, phone, loanOfferID, transactionID)
	}
	return ok(), nil
}

func (m *Client) Status(ctx context.Context, newStatus, loanOfferID string) error {
	if m.StatusFn != nil {
		return m.StatusFn(ctx, newStatus, loanOfferID)
	}
	return nil
}

func (m *Client) Query(ctx context.Context, transactionID string) (switchclient.QueryResponse, error) {
	if m.QueryFn != nil {
		return m.QueryFn(ctx, transactionID)
	}
	return switchclient.QueryResponse{Response: ok()}, nil
}

func (m *Client) CreditScore(ctx context.Context, phone string) (switchclient.CreditScoreResponse, error) {
	if m.CreditScoreFn != nil {
		return m.CreditScoreFn(ctx, phone)
	}
	return switchclient.CreditScoreResponse{
		Response:     ok(),
		CreditScores: []switchclient.CreditScore{{Score: 50}},
	}, nil
}

func (m *Client) AccountResolution(ctx context.Context, accountNumber, bankCode string) (switchclient.AccountResolution, error) {
	if m.AccountResolutionFn != nil {
		return m.AccountResolutionFn(ctx, accountNumber, bankCode)
	}
	return switchclient.AccountResolution{}, nil
}

func (m *Client) VirtualAccount(ctx context.Context, customerID, phone, firstName, lastName string) (switchclient.VirtualAccount, error) {
	if m.VirtualAccountFn != nil {
		return m.VirtualAccountFn(ctx, customerID, phone, firstName, lastName)
	}
	return switchclient.VirtualAccount{AccountNumber: "0000000000", BankName: "Test Bank"}, nil
}

package switchclient

import (
	"context"
	"errors"
)

// ErrUnavailable means the switch could not be reached or answered with
// something uninterpretable. Callers treat this as an ambiguous outcome,
// never as an explicit failure.
var ErrUnavailable = errors.New("payment switch unavailable")

const CodeSuccess = "00"

// Response is the common shape of a switch reply. A nil ResponseCode
// never occurs here; transport-level trouble surfaces as ErrUnavailable
// instead, so a returned Response always carries an interpretable code.
type Response struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
	TransactionRef  string `json:"transactionRef"`
}

func (r Response) Success() bool { return r.ResponseCode == CodeSuccess }

// DebitResponse may carry the amount the switch says it can actually
// deduct when the requested debit fails for insufficiency.
type DebitResponse struct {
	Response
	DeductableAmount *int64 `json:"deductableAmount,omitempty"`
}

type QueryResponse struct {
	Response
	TransactionDate string `json:"transactionDate"`
}

type CreditScore struct {
	Score       int    `json:"score"`
	DateCreated string `json:"dateCreated"`
}

type CreditScoreResponse struct {
	Response
	CreditScores []CreditScore `json:"creditScores"`
}

type AccountResolution struct {
	BVN                string `json:"bvn"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	ResidentialAddress string `json:"residentialAddress"`
}

type VirtualAccount struct {
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	BankName      string `json:"bankName"`
	BankCode      string `json:"bankCode"`
	PayableCode   string `json:"payableCode"`
}

// Client is the narrow interface the orchestrators depend on. The HTTP
// implementation lives in this package; tests substitute function-backed
// mocks.
type Client interface {
	Credit(ctx context.Context, phone string, loanOfferID string, amount int64, transactionID string) (Response, error)
	Debit(ctx context.Context, amount int64, phone, loanOfferID, transactionID string, takeAvailableBalance bool) (DebitResponse, error)
	Refund(ctx context.Context, amount int64, phone, loanOfferID, transactionID string) (Response, error)
	Status(ctx context.Context, newStatus, loanOfferID string) error
	Query(ctx context.Context, transactionID string) (QueryResponse, error)
	CreditScore(ctx context.Context, phone string) (CreditScoreResponse, error)
	AccountResolution(ctx context.Context, accountNumber, bankCode string) (AccountResolution, error)
	VirtualAccount(ctx context.Context, customerID, phone, firstName, lastName string) (VirtualAccount, error)
}

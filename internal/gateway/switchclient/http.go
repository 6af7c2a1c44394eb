package switchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient talks to the payment switch over JSON/HTTP. Timeouts live
// here, not in the orchestrators.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) Credit(ctx context.Context, phone, loanOfferID string, amount int64, transactionID string) (Response, error) {
	var out Response
	err := c.post(ctx, "/transactions/credit", map[string]any{
		"phoneNumber":   phone,
		"loanOfferId":   loanOfferID,
		"amount":        amount,
		"transactionId": transactionID,
	}, &out)
	if err == nil && out.ResponseCode == "" {
		return Response{}, fmt.Errorf("%w: empty response code", ErrUnavailable)
	}
	return out, err
}

func (c *HTTPClient) Debit(ctx context.Context, amount int64, phone, loanOfferID, transactionID string, takeAvailableBalance bool) (DebitResponse, error) {
	var out DebitResponse
	err := c.post(ctx, "/transactions/debit", map[string]any{
		"amount":               amount,
		"phoneNumber":          phone,
		"loanOfferId":          loanOfferID,
		"transactionId":        transactionID,
		"takeAvailableBalance": takeAvailableBalance,
	}, &out)
	if err == nil && out.ResponseCode == "" {
		return DebitResponse{}, fmt.Errorf("%w: empty response code", ErrUnavailable)
	}
	return out, err
}

func (c *HTTPClient) Refund(ctx context.Context, amount int64, phone, loanOfferID, transactionID string) (Response, error) {
	var out Response
	err := c.post(ctx, "/transactions/refund", map[string]any{
		"amount":        amount,
		"phoneNumber":   phone,
		"loanOfferId":   loanOfferID,
		"transactionId": transactionID,
	}, &out)
	if err == nil && out.ResponseCode == "" {
		return Response{}, fmt.Errorf("%w: empty response code", ErrUnavailable)
	}
	return out, err
}

func (c *HTTPClient) Status(ctx context.Context, newStatus, loanOfferID string) error {
	var out Response
	if err := c.post(ctx, "/loans/status", map[string]any{
		"status":      newStatus,
		"loanOfferId": loanOfferID,
	}, &out); err != nil {
		return err
	}
	if !out.Success() {
		return fmt.Errorf("status sync rejected: %s %s", out.ResponseCode, out.ResponseMessage)
	}
	return nil
}

func (c *HTTPClient) Query(ctx context.Context, transactionID string) (QueryResponse, error) {
	var out QueryResponse
	err := c.post(ctx, "/transactions/query", map[string]any{
		"transactionId": transactionID,
	}, &out)
	return out, err
}

func (c *HTTPClient) CreditScore(ctx context.Context, phone string) (CreditScoreResponse, error) {
	var out CreditScoreResponse
	err := c.post(ctx, "/customers/credit-score", map[string]any{
		"phoneNumber": phone,
	}, &out)
	return out, err
}

func (c *HTTPClient) AccountResolution(ctx context.Context, accountNumber, bankCode string) (AccountResolution, error) {
	var out struct {
		Response
		AccountResolution
	}
	err := c.post(ctx, "/customers/account-resolution", map[string]any{
		"accountNumber": accountNumber,
		"bankCode":      bankCode,
	}, &out)
	if err != nil {
		return AccountResolution{}, err
	}
	if !out.Success() {
		return AccountResolution{}, fmt.Errorf("account resolution failed: %s", out.ResponseMessage)
	}
	return out.AccountResolution, nil
}

func (c *HTTPClient) VirtualAccount(ctx context.Context, customerID, phone, firstName, lastName string) (VirtualAccount, error) {
	var out struct {
		Response
		VirtualAccount
	}
	err := c.post(ctx, "/customers/virtual-account", map[string]any{
		"customerId":  customerID,
		"phoneNumber": phone,
		"firstName":   firstName,
		"lastName":    lastName,
	}, &out)
	if err != nil {
		return VirtualAccount{}, err
	}
	if !out.Success() {
		return VirtualAccount{}, fmt.Errorf("virtual account failed: %s", out.ResponseMessage)
	}
	return out.VirtualAccount, nil
}

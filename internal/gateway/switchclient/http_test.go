package switchclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HTTPClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewHTTPClient(srv.URL, "test-key", 5*time.Second)
}

func TestCredit_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(Response{ResponseCode: "00", ResponseMessage: "Approved"})
	})

	resp, err := c.Credit(context.Background(), "+2348012345678", "lo-1", 100_000, "tx-1")
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if !resp.Success() {
		t.Fatalf("want success, got %+v", resp)
	}
	if gotPath != "/transactions/credit" {
		t.Fatalf("path: %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth: %q", gotAuth)
	}
	if gotBody["amount"] != float64(100_000) || gotBody["transactionId"] != "tx-1" {
		t.Fatalf("request body: %+v", gotBody)
	}
}

func TestCredit_EmptyResponseCodeIsUnavailable(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := c.Credit(context.Background(), "+2348012345678", "lo-1", 100_000, "tx-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestPost_ServerErrorIsUnavailable(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Query(context.Background(), "tx-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable on 5xx, got %v", err)
	}
}

func TestPost_MalformedBodyIsUnavailable(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway timeout</html>"))
	})

	_, err := c.Query(context.Background(), "tx-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable on garbage, got %v", err)
	}
}

func TestPost_ConnectionRefusedIsUnavailable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", "k", time.Second)
	_, err := c.Query(context.Background(), "tx-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestDebit_CarriesDeductableAmount(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		amt := int64(40_000)
		_ = json.NewEncoder(w).Encode(DebitResponse{
			Response:         Response{ResponseCode: "51", ResponseMessage: "Insufficient funds"},
			DeductableAmount: &amt,
		})
	})

	resp, err := c.Debit(context.Background(), 110_000, "+2348012345678", "lo-1", "tx-1", false)
	if err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if resp.Success() {
		t.Fatalf("explicit decline must not be success")
	}
	if resp.DeductableAmount == nil || *resp.DeductableAmount != 40_000 {
		t.Fatalf("deductable amount lost: %+v", resp)
	}
}

func TestStatus_RejectionIsAnError(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Response{ResponseCode: "96", ResponseMessage: "Unknown loan"})
	})

	if err := c.Status(context.Background(), "CLOSED", "lo-1"); err == nil {
		t.Fatalf("rejected status sync must error")
	}
}

func TestAccountResolution_FailureCodeIsAnError(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"responseCode":    "25",
			"responseMessage": "Account not found",
		})
	})

	if _, err := c.AccountResolution(context.Background(), "0123456789", "058"); err == nil {
		t.Fatalf("failed resolution must error")
	}
	if _, err := c.AccountResolution(context.Background(), "0123456789", "058"); errors.Is(err, ErrUnavailable) {
		t.Fatalf("an explicit failure is not ambiguity")
	}
}

func TestVirtualAccount_Success(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"responseCode":  "00",
			"accountNumber": "9012345678",
			"bankName":      "Kobo MFB",
		})
	})

	va, err := c.VirtualAccount(context.Background(), "c-1", "+2348012345678", "Ade", "Okafor")
	if err != nil {
		t.Fatalf("VirtualAccount: %v", err)
	}
	if va.AccountNumber != "9012345678" || va.BankName != "Kobo MFB" {
		t.Fatalf("unexpected account: %+v", va)
	}
}

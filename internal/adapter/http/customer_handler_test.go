package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"kobolend-backend/internal/domain/customer"
	"kobolend-backend/internal/gateway/switchclient"
	"kobolend-backend/internal/testutil/customermock"
	"kobolend-backend/internal/testutil/switchmock"
	accountuc "kobolend-backend/internal/usecase/account"
)

func newCustomerHandler(customers *customermock.Repo, switchc *switchmock.Client) *CustomerHandler {
	return NewCustomerHandler(accountuc.NewUsecase(customers, switchc))
}

func TestResolveAccount_ReturnsCustomer(t *testing.T) {
	f := newAPIFixture(t, "NONE")
	switchc := &switchmock.Client{
		AccountResolutionFn: func(ctx context.Context, accountNumber, bankCode string) (switchclient.AccountResolution, error) {
			return switchclient.AccountResolution{FirstName: "Ade", LastName: "Okafor", BVN: "12345678901"}, nil
		},
	}
	customers := &customermock.Repo{
		UpsertByPhoneFn: func(ctx context.Context, phone string) (*customer.Customer, error) {
			return &customer.Customer{CustomerID: "c-1", PhoneNumber: phone}, nil
		},
	}
	h := newCustomerHandler(customers, switchc)

	c, rec := f.post("/customers/resolve-account",
		`{"phone":"`+testPhone+`","account_number":"0123456789","bank_code":"058"}`)

	if err := h.ResolveAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body customerResp
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.CustomerID != "c-1" || body.FirstName != "Ade" || body.LastName != "Okafor" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestResolveAccount_RejectsShortAccountNumber(t *testing.T) {
	f := newAPIFixture(t, "NONE")
	h := newCustomerHandler(&customermock.Repo{}, &switchmock.Client{})

	c, rec := f.post("/customers/resolve-account",
		`{"phone":"`+testPhone+`","account_number":"12345","bank_code":"058"}`)

	if err := h.ResolveAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestVirtualAccount_Provisions(t *testing.T) {
	f := newAPIFixture(t, "NONE")
	h := newCustomerHandler(&customermock.Repo{
		UpsertByPhoneFn: func(ctx context.Context, phone string) (*customer.Customer, error) {
			return &customer.Customer{CustomerID: "c-1", PhoneNumber: phone}, nil
		},
	}, &switchmock.Client{})

	c, rec := f.post("/customers/virtual-account", `{"phone":"`+testPhone+`"}`)

	if err := h.VirtualAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body customerResp
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.VirtualAccountNumber == "" || body.VirtualAccountBank == "" {
		t.Fatalf("virtual account missing: %+v", body)
	}
}

package account

import (
	"context"
	"errors"
	"testing"

	"kobolend-backend/internal/domain/customer"
	"kobolend-backend/internal/gateway/switchclient"
	"kobolend-backend/internal/testutil/customermock"
	"kobolend-backend/internal/testutil/switchmock"
)

const testPhone = "+2348012345678"

func TestResolveAccount_UpsertsDetails(t *testing.T) {
	var saved *customer.Customer
	customers := &customermock.Repo{
		SaveFn: func(ctx context.Context, c *customer.Customer) error {
			saved = c
			return nil
		},
	}
	switchc := &switchmock.Client{
		AccountResolutionFn: func(ctx context.Context, accountNumber, bankCode string) (switchclient.AccountResolution, error) {
			if accountNumber != "0123456789" || bankCode != "058" {
				t.Fatalf("unexpected resolution args: %s %s", accountNumber, bankCode)
			}
			return switchclient.AccountResolution{
				BVN:                "12345678901",
				FirstName:          "Ade",
				LastName:           "Okafor",
				ResidentialAddress: "12 Marina, Lagos",
			}, nil
		},
	}

	uc := NewUsecase(customers, switchc)
	c, err := uc.ResolveAccount(context.Background(), testPhone, "0123456789", "058")
	if err != nil {
		t.Fatalf("ResolveAccount: %v", err)
	}
	if c.BVN != "12345678901" || c.FirstName != "Ade" || c.LastName != "Okafor" {
		t.Fatalf("details not applied: %+v", c)
	}
	if saved == nil || saved.Address != "12 Marina, Lagos" {
		t.Fatalf("customer not persisted: %+v", saved)
	}
}

func TestResolveAccount_EmptyFieldsLeaveRecordAlone(t *testing.T) {
	existing := &customer.Customer{ID: 1, PhoneNumber: testPhone, BVN: "12345678901", FirstName: "Ade"}
	customers := &customermock.Repo{
		UpsertByPhoneFn: func(ctx context.Context, phone string) (*customer.Customer, error) {
			return existing, nil
		},
	}
	switchc := &switchmock.Client{
		AccountResolutionFn: func(ctx context.Context, accountNumber, bankCode string) (switchclient.AccountResolution, error) {
			return switchclient.AccountResolution{}, nil
		},
	}

	uc := NewUsecase(customers, switchc)
	c, err := uc.ResolveAccount(context.Background(), testPhone, "0123456789", "058")
	if err != nil {
		t.Fatalf("ResolveAccount: %v", err)
	}
	if c.BVN != "12345678901" || c.FirstName != "Ade" {
		t.Fatalf("blank resolution must not erase stored details: %+v", c)
	}
}

func TestResolveAccount_SwitchFailureShortCircuits(t *testing.T) {
	upserted := false
	customers := &customermock.Repo{
		UpsertByPhoneFn: func(ctx context.Context, phone string) (*customer.Customer, error) {
			upserted = true
			return &customer.Customer{PhoneNumber: phone}, nil
		},
	}
	switchc := &switchmock.Client{
		AccountResolutionFn: func(ctx context.Context, accountNumber, bankCode string) (switchclient.AccountResolution, error) {
			return switchclient.AccountResolution{}, switchclient.ErrUnavailable
		},
	}

	uc := NewUsecase(customers, switchc)
	if _, err := uc.ResolveAccount(context.Background(), testPhone, "0123456789", "058"); !errors.Is(err, switchclient.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if upserted {
		t.Fatalf("no customer row should be touched when resolution fails")
	}
}

func TestProvisionVirtualAccount(t *testing.T) {
	var saved *customer.Customer
	customers := &customermock.Repo{
		UpsertByPhoneFn: func(ctx context.Context, phone string) (*customer.Customer, error) {
			return &customer.Customer{ID: 1, CustomerID: "c-1", PhoneNumber: phone, FirstName: "Ade"}, nil
		},
		SaveFn: func(ctx context.Context, c *customer.Customer) error {
			saved = c
			return nil
		},
	}
	switchc := &switchmock.Client{
		VirtualAccountFn: func(ctx context.Context, customerID, phone, firstName, lastName string) (switchclient.VirtualAccount, error) {
			if customerID != "c-1" || firstName != "Ade" {
				t.Fatalf("unexpected provisioning args: %s %s", customerID, firstName)
			}
			return switchclient.VirtualAccount{AccountNumber: "9012345678", BankName: "Kobo MFB"}, nil
		},
	}

	uc := NewUsecase(customers, switchc)
	c, err := uc.ProvisionVirtualAccount(context.Background(), testPhone)
	if err != nil {
		t.Fatalf("ProvisionVirtualAccount: %v", err)
	}
	if c.VirtualAccountNumber != "9012345678" || c.VirtualAccountBank != "Kobo MFB" {
		t.Fatalf("virtual account not stored: %+v", c)
	}
	if saved == nil {
		t.Fatalf("customer not persisted")
	}
}

func TestProvisionVirtualAccount_AlreadyProvisioned(t *testing.T) {
	customers := &customermock.Repo{
		UpsertByPhoneFn: func(ctx context.Context, phone string) (*customer.Customer, error) {
			return &customer.Customer{ID: 1, PhoneNumber: phone, VirtualAccountNumber: "9012345678"}, nil
		},
	}
	called := false
	switchc := &switchmock.Client{
		VirtualAccountFn: func(ctx context.Context, customerID, phone, firstName, lastName string) (switchclient.VirtualAccount, error) {
			called = true
			return switchclient.VirtualAccount{}, nil
		},
	}

	uc := NewUsecase(customers, switchc)
	c, err := uc.ProvisionVirtualAccount(context.Background(), testPhone)
	if err != nil {
		t.Fatalf("ProvisionVirtualAccount: %v", err)
	}
	if called {
		t.Fatalf("existing virtual account must not be reprovisioned")
	}
	if c.VirtualAccountNumber != "9012345678" {
		t.Fatalf("stored account lost: %+v", c)
	}
}

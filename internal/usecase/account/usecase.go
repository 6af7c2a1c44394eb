package account

import (
	"context"

	"kobolend-backend/internal/domain/customer"
	"kobolend-backend/internal/gateway/switchclient"
)

// Usecase covers the customer-account side calls against the switch:
// destination account resolution and virtual account provisioning.
type Usecase struct {
	customers customer.Repository
	switchc   switchclient.Client
}

func NewUsecase(customers customer.Repository, switchc switchclient.Client) *Usecase {
	return &Usecase{customers: customers, switchc: switchc}
}

// ResolveAccount verifies a destination account with the switch and
// upserts BVN and name details onto the customer record.
func (u *Usecase) ResolveAccount(ctx context.Context, phone, accountNumber, bankCode string) (*customer.Customer, error) {
	res, err := u.switchc.AccountResolution(ctx, accountNumber, bankCode)
	if err != nil {
		return nil, err
	}
	c, err := u.customers.UpsertByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if res.BVN != "" {
		c.BVN = res.BVN
	}
	if res.FirstName != "" {
		c.FirstName = res.FirstName
	}
	if res.LastName != "" {
		c.LastName = res.LastName
	}
	if res.ResidentialAddress != "" {
		c.Address = res.ResidentialAddress
	}
	if err := u.customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ProvisionVirtualAccount asks the switch for a dedicated repayment
// account and stores it on the customer.
func (u *Usecase) ProvisionVirtualAccount(ctx context.Context, phone string) (*customer.Customer, error) {
	c, err := u.customers.UpsertByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c.VirtualAccountNumber != "" {
		return c, nil // already provisioned
	}
	va, err := u.switchc.VirtualAccount(ctx, c.CustomerID, c.PhoneNumber, c.FirstName, c.LastName)
	if err != nil {
		return nil, err
	}
	c.VirtualAccountNumber = va.AccountNumber
	c.VirtualAccountBank = va.BankName
	if err := u.customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

package bureau

import (
	"context"
	"time"
)

type Repository interface {
	GetByCustomer(ctx context.Context, bureau Name, customerID uint64) (*Report, error)
	// UpsertReport writes the snapshot, keyed by (bureau, customer).
	UpsertReport(ctx context.Context, r *Report) error
	// UpsertHistory records the day's evaluation; repeated checks on the
	// same calendar day collapse into one row.
	UpsertHistory(ctx context.Context, bureau Name, customerID uint64, day time.Time, passed bool) error
}

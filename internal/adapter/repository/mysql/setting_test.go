package mysql

import (
	"context"
	"errors"
	"testing"

	domain "kobolend-backend/internal/domain/setting"
)

func TestSetting_GetUnset(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewSettingRepository(gdb)

	_, err := repo.Get(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound on empty table, got %v", err)
	}
}

func TestSetting_SaveAndGet(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewSettingRepository(gdb)
	ctx := context.Background()

	off := false
	cap := int64(250_000)
	s := &domain.Setting{
		ShouldGiveLoans:  &off,
		FirstTimeLoanCap: &cap,
		BucketOffersJSON: []byte(`[10000,20000,30000,40000,50000,60000,70000,80000,90000,100000]`),
	}
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ShouldGiveLoans == nil || *got.ShouldGiveLoans {
		t.Fatalf("kill switch not persisted: %+v", got)
	}
	if got.FirstTimeLoanCap == nil || *got.FirstTimeLoanCap != 250_000 {
		t.Fatalf("cap not persisted: %+v", got)
	}
	if _, err := domain.ParseBuckets(got.BucketOffersJSON); err != nil {
		t.Fatalf("stored buckets unreadable: %v", err)
	}
}

func TestSetting_SaveRejectsBadBuckets(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewSettingRepository(gdb)
	ctx := context.Background()

	s := &domain.Setting{BucketOffersJSON: []byte(`[10,9,8,7,6,5,4,3,2,1]`)}
	if err := repo.Save(ctx, s); !errors.Is(err, domain.ErrBucketsNotOrdered) {
		t.Fatalf("want ErrBucketsNotOrdered, got %v", err)
	}

	s = &domain.Setting{BucketOffersJSON: []byte(`[1,2,3]`)}
	if err := repo.Save(ctx, s); !errors.Is(err, domain.ErrBucketsWrongLength) {
		t.Fatalf("want ErrBucketsWrongLength, got %v", err)
	}

	if _, err := repo.Get(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("rejected saves must not persist, got %v", err)
	}
}

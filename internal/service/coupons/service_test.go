package coupons

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	couponRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/coupon"
	"github.com/m04kA/ClinicBookingService/pkg/clinictime"
	"github.com/m04kA/ClinicBookingService/pkg/logger"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
)

type stubRepo struct {
	coupons      map[string]*domain.Coupon
	err          error
	incrementErr error
	incremented  []string
}

func (r *stubRepo) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.coupons[code]
	if !ok {
		return nil, couponRepo.ErrCouponNotFound
	}
	return c, nil
}

func (r *stubRepo) IncrementUsage(_ context.Context, id string) error {
	r.incremented = append(r.incremented, id)
	return r.incrementErr
}

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *stubRepo) {
	repo := &stubRepo{coupons: map[string]*domain.Coupon{
		"SUMMER10": {
			ID: "c1", Code: "SUMMER10", Type: domain.CouponTypeServices,
			DiscountType: domain.DiscountPercentage, DiscountValue: decimal.NewFromInt(10),
			Categories: []string{"laser"}, Active: true,
			ExpiryDate: ptr.Ptr(now.Add(24 * time.Hour)),
		},
		"FLAT50": {
			ID: "c2", Code: "FLAT50", Type: domain.CouponTypeBoth,
			DiscountType: domain.DiscountFixed, DiscountValue: decimal.NewFromInt(50),
			Categories: []string{"skin"}, Active: true,
		},
		"OLD": {
			ID: "c3", Code: "OLD", Type: domain.CouponTypeServices,
			DiscountType: domain.DiscountFixed, DiscountValue: decimal.NewFromInt(5),
			Active: true, ExpiryDate: ptr.Ptr(now.Add(-time.Minute)),
		},
		"OFF":  {ID: "c4", Code: "OFF", Type: domain.CouponTypeServices, Active: false},
		"SHOP": {ID: "c5", Code: "SHOP", Type: domain.CouponTypeProducts, Active: true},
	}}
	clock := clinictime.NewFixedClock(now, time.UTC)
	return NewService(repo, clock, logger.NewDiscard()), repo
}

func TestService_Apply(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.Apply(context.Background(), " summer10 ", "laser", decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.Equal(t, "c1", got.CouponID)
	assert.True(t, decimal.NewFromInt(25).Equal(got.Amount), got.Amount.String())

	got, err = svc.Apply(context.Background(), "FLAT50", "laser", decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(got.Amount), "fixed discount is capped at the price")
}

func TestService_Validate_Errors(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name     string
		code     string
		category string
		wantErr  error
	}{
		{name: "empty", code: "  ", category: "laser", wantErr: ErrInvalidInput},
		{name: "unknown", code: "NOPE", category: "laser", wantErr: ErrCouponNotFound},
		{name: "inactive", code: "OFF", category: "laser", wantErr: ErrCouponInactive},
		{name: "expired", code: "old", category: "laser", wantErr: ErrCouponExpired},
		{name: "products only", code: "SHOP", category: "laser", wantErr: ErrCouponNotApplicable},
		{name: "other category", code: "SUMMER10", category: "skin", wantErr: ErrCategoryMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(context.Background(), tt.code, tt.category)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Validate_RepositoryError(t *testing.T) {
	svc, repo := newTestService()
	repo.err = errors.New("db down")

	_, err := svc.Validate(context.Background(), "SUMMER10", "laser")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_IncrementUsage_ErrorIsSwallowed(t *testing.T) {
	svc, repo := newTestService()
	repo.incrementErr = errors.New("db down")

	svc.IncrementUsage(context.Background(), "c1")
	assert.Equal(t, []string{"c1"}, repo.incremented)
}

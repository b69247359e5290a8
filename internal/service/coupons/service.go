package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	couponRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/coupon"
)

// Service проверка купонов и расчёт скидки
type Service struct {
	couponRepo CouponRepository
	clock      Clock
	logger     Logger
}

// NewService создает новый экземпляр сервиса купонов
func NewService(couponRepo CouponRepository, clock Clock, logger Logger) *Service {
	return &Service{
		couponRepo: couponRepo,
		clock:      clock,
		logger:     logger,
	}
}

// NormalizeCode коды хранятся в верхнем регистре
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate проверяет купон для услуги категории categoryID
func (s *Service) Validate(ctx context.Context, code, categoryID string) (*domain.Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: coupon code is empty", ErrInvalidInput)
	}

	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			s.logger.Warn("ValidateCoupon: code=%s not found", code)
			return nil, ErrCouponNotFound
		}
		s.logger.Error("ValidateCoupon: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: ValidateCoupon - repository error: %v", ErrInternal, err)
	}

	if !coupon.Active {
		return nil, ErrCouponInactive
	}
	// срок хранится как конец дня по времени клиники
	if coupon.ExpiryDate != nil && coupon.ExpiryDate.Before(s.clock.Now()) {
		return nil, ErrCouponExpired
	}
	if !coupon.AppliesToServices() {
		return nil, ErrCouponNotApplicable
	}
	// купоны типа both действуют на все категории
	if coupon.Type == domain.CouponTypeServices && !coupon.AppliesToCategory(categoryID) {
		return nil, ErrCategoryMismatch
	}

	return coupon, nil
}

// Apply проверяет купон и считает скидку от цены услуги
func (s *Service) Apply(ctx context.Context, code, categoryID string, price decimal.Decimal) (*Discount, error) {
	coupon, err := s.Validate(ctx, code, categoryID)
	if err != nil {
		return nil, err
	}

	discount := &Discount{
		CouponID: coupon.ID,
		Code:     coupon.Code,
		Amount:   coupon.DiscountFor(price),
	}
	s.logger.Info("ApplyCoupon: code=%s, category=%s, price=%s, discount=%s",
		coupon.Code, categoryID, price.String(), discount.Amount.String())
	return discount, nil
}

// IncrementUsage учитывает использование купона. Ошибка только логируется: запись уже создана.
func (s *Service) IncrementUsage(ctx context.Context, couponID string) {
	if err := s.couponRepo.IncrementUsage(ctx, couponID); err != nil {
		s.logger.Error("IncrementUsage: failed to increment usage for coupon=%s: %v", couponID, err)
	}
}

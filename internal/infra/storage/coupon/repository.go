package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/psqlbuilder"
)

// Repository репозиторий купонов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория купонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode ищет купон по коду (код хранится в верхнем регистре)
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"code",
		"type",
		"discount_type",
		"discount_value",
		"categories",
		"active",
		"expiry_date",
		"usage_count",
	).
		From("coupons").
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	var (
		c          domain.Coupon
		categories pq.StringArray
		expiry     sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Code,
		&c.Type,
		&c.DiscountType,
		&c.DiscountValue,
		&categories,
		&c.Active,
		&expiry,
		&c.UsageCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("%w: GetByCode - scan: %v", ErrScanRow, err)
	}

	c.Categories = []string(categories)
	if expiry.Valid {
		t := expiry.Time
		c.ExpiryDate = &t
	}
	return &c, nil
}

// IncrementUsage увеличивает счётчик использований на единицу
func (r *Repository) IncrementUsage(ctx context.Context, id string) error {
	query, args, err := psqlbuilder.Update("coupons").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - build update query: %v", ErrBuildQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - execute update: %v", ErrExecQuery, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/psqlbuilder"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// Repository читает настройки категорий услуг.
// Категориями управляет каталог, сервис их только читает.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория категорий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает категорию. NULL в колонке означает "не задано" и остаётся nil.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"time_type",
		"fixed_time_slots",
		"forbidden_start_times",
		"max_end_time",
		"booking_limit",
		"created_at",
		"updated_at",
	).
		From("service_categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		c                    domain.Category
		timeType, maxEndTime sql.NullString
		fixedSlots           pq.StringArray
		forbiddenStarts      pq.StringArray
		bookingLimit         sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Name,
		&timeType,
		&fixedSlots,
		&forbiddenStarts,
		&maxEndTime,
		&bookingLimit,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan: %v", ErrScanRow, err)
	}

	if timeType.Valid {
		tt := domain.TimeType(timeType.String)
		c.TimeType = &tt
	}
	if c.FixedTimeSlots, err = toTimes(fixedSlots); err != nil {
		return nil, fmt.Errorf("%w: category %s fixed_time_slots: %v", ErrInvalidData, id, err)
	}
	if c.ForbiddenStartTimes, err = toTimes(forbiddenStarts); err != nil {
		return nil, fmt.Errorf("%w: category %s forbidden_start_times: %v", ErrInvalidData, id, err)
	}
	if maxEndTime.Valid {
		end, err := types.NewTimeStringFromString(maxEndTime.String)
		if err != nil {
			return nil, fmt.Errorf("%w: category %s max_end_time: %v", ErrInvalidData, id, err)
		}
		c.MaxEndTime = &end
	}
	if bookingLimit.Valid {
		limit := int(bookingLimit.Int64)
		c.BookingLimit = &limit
	}
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

// toTimes NULL-массив остаётся nil, пустой массив - пустым срезом
func toTimes(raw pq.StringArray) ([]types.TimeString, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]types.TimeString, 0, len(raw))
	for _, s := range raw {
		t, err := types.NewTimeStringFromString(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

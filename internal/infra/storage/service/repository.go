package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/psqlbuilder"
)

// Repository читает каталог услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу. Длительность возвращается как есть, без приведения.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"category_id",
		"duration",
		"price",
		"active",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s        domain.Service
		duration sql.NullString
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Name,
		&s.CategoryID,
		&duration,
		&s.Price,
		&s.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan: %v", ErrScanRow, err)
	}

	s.Duration = duration.String
	return &s, nil
}

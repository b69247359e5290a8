package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/psqlbuilder"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"date",
	"start_time",
	"end_time",
	"status",
	"service_id",
	"service_name",
	"service_category_id",
	"service_duration",
	"service_price",
	"customer_id",
	"customer_name",
	"customer_phone",
	"customer_email",
	"notes",
	"staff_id",
	"staff_name",
	"coupon_code",
	"discount",
	"admin_note",
	"override_note",
	"staff_note_to_customer",
	"staff_internal_note",
	"actual_paid_amount",
	"created_by_admin",
	"created_by",
	"cancellation_reason",
	"cancelled_at",
	"confirmed_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись. ID генерирует вызывающий.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	query, args, err := psqlbuilder.Insert(tableName).
		Columns(columns[:len(columns)-2]...).
		Values(
			a.ID,
			dateOnly(a.Date),
			a.StartTime,
			a.EndTime,
			a.Status,
			a.ServiceID,
			a.ServiceName,
			a.ServiceCategoryID,
			a.ServiceDuration,
			a.ServicePrice,
			a.CustomerID,
			a.CustomerName,
			a.CustomerPhone,
			a.CustomerEmail,
			a.Notes,
			a.StaffID,
			a.StaffName,
			a.CouponCode,
			a.Discount,
			a.AdminNote,
			a.OverrideNote,
			a.StaffNoteToCustomer,
			a.StaffInternalNote,
			nullDecimal(a.ActualPaidAmount),
			a.CreatedByAdmin,
			a.CreatedBy,
			a.CancellationReason,
			a.CancelledAt,
			a.ConfirmedAt,
			a.CompletedAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan: %v", ErrScanRow, err)
	}
	return a, nil
}

// GetByDate возвращает все записи на дату, включая отменённые.
// Отбор по категории и статусу делает ядро расписания.
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	return r.list(ctx, "GetByDate", squirrel.Eq{"date": dateOnly(date)})
}

// GetByStaffAndDate возвращает записи мастера на дату во всех категориях
func (r *Repository) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]*domain.Appointment, error) {
	return r.list(ctx, "GetByStaffAndDate", squirrel.Eq{"staff_id": staffID, "date": dateOnly(date)})
}

// GetByCustomerID история записей клиента, новые сверху
func (r *Repository) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Appointment, error) {
	return r.list(ctx, "GetByCustomerID", squirrel.Eq{"customer_id": customerID})
}

// List записи для админки с необязательными фильтрами
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	conds := squirrel.And{}
	if filter.Date != nil {
		conds = append(conds, squirrel.Eq{"date": dateOnly(*filter.Date)})
	}
	if filter.Status != nil {
		conds = append(conds, squirrel.Eq{"status": *filter.Status})
	}
	if filter.StaffID != nil {
		conds = append(conds, squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.CustomerID != nil {
		conds = append(conds, squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	return r.list(ctx, "List", conds)
}

// Update перезаписывает изменяемые поля записи
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	query, args, err := psqlbuilder.Update(tableName).
		SetMap(map[string]interface{}{
			"date":                   dateOnly(a.Date),
			"start_time":             a.StartTime,
			"end_time":               a.EndTime,
			"status":                 a.Status,
			"service_duration":       a.ServiceDuration,
			"customer_name":          a.CustomerName,
			"customer_phone":         a.CustomerPhone,
			"customer_email":         a.CustomerEmail,
			"notes":                  a.Notes,
			"staff_id":               a.StaffID,
			"staff_name":             a.StaffName,
			"admin_note":             a.AdminNote,
			"override_note":          a.OverrideNote,
			"staff_note_to_customer": a.StaffNoteToCustomer,
			"staff_internal_note":    a.StaffInternalNote,
			"actual_paid_amount":     nullDecimal(a.ActualPaidAmount),
			"cancellation_reason":    a.CancellationReason,
			"cancelled_at":           a.CancelledAt,
			"confirmed_at":           a.ConfirmedAt,
			"completed_at":           a.CompletedAt,
			"updated_at":             squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	a.UpdatedAt = updatedAt.Time
	return a, nil
}

// Delete физически удаляет запись
func (r *Repository) Delete(ctx context.Context, id string) error {
	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Appointment, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		OrderBy("date DESC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan: %v", ErrScanRow, op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %v", ErrScanRow, op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                                      domain.Appointment
		startTime, endTime                     sql.NullString
		serviceDuration                        sql.NullString
		customerID, customerEmail, notes       sql.NullString
		staffID, staffName, couponCode         sql.NullString
		adminNote, overrideNote                sql.NullString
		staffNoteToCustomer, staffInternalNote sql.NullString
		createdBy, cancellationReason          sql.NullString
		actualPaid                             decimal.NullDecimal
		discount                               decimal.NullDecimal
		cancelledAt, confirmedAt, completedAt  sql.NullTime
		createdAt, updatedAt                   sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.Date,
		&startTime,
		&endTime,
		&a.Status,
		&a.ServiceID,
		&a.ServiceName,
		&a.ServiceCategoryID,
		&serviceDuration,
		&a.ServicePrice,
		&customerID,
		&a.CustomerName,
		&a.CustomerPhone,
		&customerEmail,
		&notes,
		&staffID,
		&staffName,
		&couponCode,
		&discount,
		&adminNote,
		&overrideNote,
		&staffNoteToCustomer,
		&staffInternalNote,
		&actualPaid,
		&a.CreatedByAdmin,
		&createdBy,
		&cancellationReason,
		&cancelledAt,
		&confirmedAt,
		&completedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime = storedTime(startTime)
	a.EndTime = storedTime(endTime)
	a.ServiceDuration = serviceDuration.String
	a.CustomerID = stringPtr(customerID)
	a.CustomerEmail = stringPtr(customerEmail)
	a.Notes = stringPtr(notes)
	a.StaffID = stringPtr(staffID)
	a.StaffName = stringPtr(staffName)
	a.CouponCode = stringPtr(couponCode)
	a.AdminNote = stringPtr(adminNote)
	a.OverrideNote = stringPtr(overrideNote)
	a.StaffNoteToCustomer = stringPtr(staffNoteToCustomer)
	a.StaffInternalNote = stringPtr(staffInternalNote)
	a.CreatedBy = stringPtr(createdBy)
	a.CancellationReason = stringPtr(cancellationReason)
	if discount.Valid {
		a.Discount = discount.Decimal
	}
	if actualPaid.Valid {
		paid := actualPaid.Decimal
		a.ActualPaidAmount = &paid
	}
	a.CancelledAt = timePtr(cancelledAt)
	a.ConfirmedAt = timePtr(confirmedAt)
	a.CompletedAt = timePtr(completedAt)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// storedTime нормализует время из строки таблицы, не отбрасывая запись.
// Нераспознанное значение остаётся как есть: расчёт интервалов пропустит такую запись.
func storedTime(ns sql.NullString) types.TimeString {
	raw := strings.TrimSpace(ns.String)
	if !ns.Valid || raw == "" {
		return ""
	}
	if ts, err := types.NewTimeStringFromString(raw); err == nil {
		return ts
	}
	if len(raw) > 5 && raw[5] == ':' {
		if ts, err := types.NewTimeStringFromString(raw[:5]); err == nil {
			return ts
		}
	}
	return types.TimeString(raw)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// dateOnly DATE колонка сравнивается по календарной дате без часового пояса
func dateOnly(t time.Time) string {
	return t.Format(domain.DateFormat)
}

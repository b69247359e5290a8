package create_booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	"github.com/m04kA/ClinicBookingService/internal/integrations/staffservice"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/internal/service/coupons"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// AvailabilityService проверки доступности (время категории, мощность, мастер)
type AvailabilityService interface {
	Evaluate(ctx context.Context, c availability.Candidate) (*availability.Evaluation, error)
}

// CouponService проверка купона и учёт использования
type CouponService interface {
	Apply(ctx context.Context, code, categoryID string, price decimal.Decimal) (*coupons.Discount, error)
	IncrementUsage(ctx context.Context, couponID string)
}

// StaffDirectory справочник сотрудников
type StaffDirectory interface {
	GetStaffMemberWithGracefulDegradation(ctx context.Context, staffID string) (*staffservice.StaffMember, error)
}

// EventPublisher публикация событий жизненного цикла записи
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event)
}

// Clock текущее время в часовом поясе клиники
type Clock interface {
	Now() time.Time
	IsPastDate(date time.Time) bool
	HasStarted(date time.Time, start types.TimeString) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

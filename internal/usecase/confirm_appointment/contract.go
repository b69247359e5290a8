package confirm_appointment

import (
	"context"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	"github.com/m04kA/ClinicBookingService/internal/integrations/staffservice"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// AvailabilityService проверки доступности (время категории, мощность, мастер)
type AvailabilityService interface {
	Evaluate(ctx context.Context, c availability.Candidate) (*availability.Evaluation, error)
}

// StaffDirectory справочник сотрудников
type StaffDirectory interface {
	GetStaffMemberWithGracefulDegradation(ctx context.Context, staffID string) (*staffservice.StaffMember, error)
}

// EventPublisher публикация событий жизненного цикла записи
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

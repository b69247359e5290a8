package availability

import (
	"context"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// AppointmentRepository чтение записей для проверок доступности
type AppointmentRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]*domain.Appointment, error)
}

// CategoryRepository чтение настроек категорий
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

// ServiceRepository чтение каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Service, error)
}

// MetricsRecorder доменные метрики (реализует *metrics.Metrics, nil-безопасно)
type MetricsRecorder interface {
	RecordDecision(outcome, violation string)
	RecordStaffConflicts(n int)
	RecordFailOpen(operation string)
}

// Clock текущее время клиники
type Clock interface {
	Today() time.Time
	IsPastDate(date time.Time) bool
	HasStarted(date time.Time, start types.TimeString) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

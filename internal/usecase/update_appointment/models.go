package update_appointment

import (
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// Request правка записи администратором. nil - поле не меняется.
type Request struct {
	AdminID       string
	AppointmentID string

	Date       *time.Time
	StartTime  *types.TimeString
	EndTime    *types.TimeString
	Duration   *int
	CustomTime bool
	StaffID    *string
	StaffName  *string

	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string
	AdminNote     *string

	AcknowledgeWarnings bool
}

// Response модель ответа с обновлённой записью
type Response struct {
	Appointment *domain.Appointment
	Rechecked   bool                  // менялись дата, время, длительность или мастер
	Warnings    []scheduling.Decision // подтверждённые предупреждения
	FailedOpen  bool
}

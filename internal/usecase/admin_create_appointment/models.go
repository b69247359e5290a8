package admin_create_appointment

import (
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// Request модель запроса администратора на создание записи
type Request struct {
	AdminID             string
	ServiceID           string
	Date                time.Time
	StartTime           types.TimeString
	EndTime             types.TimeString // явное окончание, пусто - по длительности
	Duration            int              // 0 - длительность услуги
	CustomTime          bool             // время вне фиксированных слотов категории
	CustomerID          *string
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       *string
	Notes               *string
	StaffID             *string
	StaffName           *string
	AdminNote           *string
	AcknowledgeWarnings bool // администратор видел предупреждения и подтверждает запись
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Warnings    []scheduling.Decision // подтверждённые предупреждения
	FailedOpen  bool
}

package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/ClinicBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// Requester кто выполняет запрос (из заголовков авторизации)
type Requester struct {
	UserID  string
	IsAdmin bool
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Requester
	CancellationReason string `json:"cancellationReason"`
}

// CompleteRequest запрос на завершение приёма (только администратор)
type CompleteRequest struct {
	AdminID             string           `json:"-"`
	StaffNoteToCustomer *string          `json:"staffNoteToCustomer,omitempty"`
	StaffInternalNote   *string          `json:"staffInternalNote,omitempty"`
	ActualPaidAmount    *decimal.Decimal `json:"actualPaidAmount,omitempty"`
}

// ListRequest фильтр списка записей в админке
type ListRequest struct {
	Date    *time.Time
	Status  *string
	StaffID *string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		Date:    r.Date,
		StaffID: r.StaffID,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`    // "2025-06-01"
	StartTime string `json:"time"`    // "09:30"
	EndTime   string `json:"endTime"` // "10:00"
	Status    string `json:"status"`

	ServiceID         string          `json:"serviceId"`
	ServiceName       string          `json:"serviceName"`
	ServiceCategoryID string          `json:"serviceCategoryId"`
	ServiceDuration   string          `json:"serviceDuration"`
	ServicePrice      decimal.Decimal `json:"servicePrice"`
	Discount          decimal.Decimal `json:"discount"`
	FinalPrice        decimal.Decimal `json:"finalPrice"`
	CouponCode        *string         `json:"couponCode,omitempty"`

	CustomerID    *string `json:"customerId,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	StaffID   *string `json:"staffId,omitempty"`
	StaffName *string `json:"staffName,omitempty"`

	AdminNote           *string          `json:"adminNote,omitempty"`
	OverrideNote        *string          `json:"overrideNote,omitempty"`
	StaffNoteToCustomer *string          `json:"staffNoteToCustomer,omitempty"`
	StaffInternalNote   *string          `json:"staffInternalNote,omitempty"`
	ActualPaidAmount    *decimal.Decimal `json:"actualPaidAmount,omitempty"`

	CreatedByAdmin     bool    `json:"createdByAdmin"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601
	ConfirmedAt        *string `json:"confirmedAt,omitempty"`
	CompletedAt        *string `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:                  a.ID,
		Date:                a.Date.Format(domain.DateFormat),
		StartTime:           a.StartTime.String(),
		EndTime:             a.EndTime.String(),
		Status:              string(a.Status),
		ServiceID:           a.ServiceID,
		ServiceName:         a.ServiceName,
		ServiceCategoryID:   a.ServiceCategoryID,
		ServiceDuration:     a.ServiceDuration,
		ServicePrice:        a.ServicePrice,
		Discount:            a.Discount,
		FinalPrice:          a.FinalPrice(),
		CouponCode:          a.CouponCode,
		CustomerID:          a.CustomerID,
		CustomerName:        a.CustomerName,
		CustomerPhone:       a.CustomerPhone,
		CustomerEmail:       a.CustomerEmail,
		Notes:               a.Notes,
		StaffID:             a.StaffID,
		StaffName:           a.StaffName,
		AdminNote:           a.AdminNote,
		OverrideNote:        a.OverrideNote,
		StaffNoteToCustomer: a.StaffNoteToCustomer,
		StaffInternalNote:   a.StaffInternalNote,
		ActualPaidAmount:    a.ActualPaidAmount,
		CreatedByAdmin:      a.CreatedByAdmin,
		CancellationReason:  a.CancellationReason,
		CancelledAt:         formatTime(a.CancelledAt),
		ConfirmedAt:         formatTime(a.ConfirmedAt),
		CompletedAt:         formatTime(a.CompletedAt),
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}
	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

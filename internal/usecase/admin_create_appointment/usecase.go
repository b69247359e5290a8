package admin_create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	"github.com/m04kA/ClinicBookingService/internal/integrations/staffservice"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
)

// UseCase use case создания записи администратором.
// Нарушения правил - предупреждения: без AcknowledgeWarnings запись не создаётся,
// с ним создаётся, а текст предупреждений сохраняется в OverrideNote.
type UseCase struct {
	appointmentRepo AppointmentRepository
	availability    AvailabilityService
	staff           StaffDirectory
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availability AvailabilityService,
	staff StaffDirectory,
	publisher EventPublisher,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		staff:           staff,
		publisher:       publisher,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AdminCreateAppointment: admin=%s, service=%s, date=%s, time=%s, end=%s, staff=%s, ack=%t",
		req.AdminID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime,
		ptr.Deref(req.StaffID, ""), req.AcknowledgeWarnings)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AdminCreateAppointment: validation failed: %v", err)
		return nil, err
	}

	candidate := availability.Candidate{
		Mode:       scheduling.ModeAdmin,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Duration:   req.Duration,
		CustomTime: req.CustomTime,
		StaffID:    ptr.Deref(req.StaffID, ""),
	}

	// 2. Проверки в режиме администратора
	ev, err := uc.evaluate(ctx, candidate, req.AcknowledgeWarnings, nil)
	if err != nil {
		return nil, err
	}
	service := ev.Service

	// 3. Мастер из справочника
	var staffName *string
	if candidate.StaffID != "" {
		staffName, err = uc.resolveStaffName(ctx, candidate.StaffID, req.StaffName)
		if err != nil {
			return nil, err
		}
	}

	// 4. Повторная проверка перед записью с уже известной категорией
	candidate.CategoryID = ev.Policy.CategoryID
	if candidate.EndTime.IsZero() {
		candidate.Duration = ev.DurationMinutes
	}
	final, err := uc.evaluate(ctx, candidate, req.AcknowledgeWarnings, ev)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now().UTC()
	appointment := &domain.Appointment{
		ID:                uuid.NewString(),
		Date:              req.Date,
		StartTime:         final.StartTime,
		EndTime:           final.EndTime,
		Status:            domain.StatusConfirmed,
		ServiceID:         service.ID,
		ServiceName:       service.Name,
		ServiceCategoryID: final.Policy.CategoryID,
		ServiceDuration:   strconv.Itoa(final.DurationMinutes),
		ServicePrice:      service.Price,
		CustomerID:        req.CustomerID,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerPhone:     strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:     req.CustomerEmail,
		Notes:             req.Notes,
		StaffName:         staffName,
		AdminNote:         req.AdminNote,
		OverrideNote:      final.OverrideNote(),
		CreatedByAdmin:    true,
		CreatedBy:         ptr.Ptr(req.AdminID),
		ConfirmedAt:       &now,
	}
	if candidate.StaffID != "" {
		appointment.StaffID = ptr.Ptr(candidate.StaffID)
	}

	if appointment.OverrideNote != nil {
		uc.logger.Warn("AdminCreateAppointment: admin=%s acknowledged warnings for %s %s: %s",
			req.AdminID, req.Date.Format(domain.DateFormat), req.StartTime, *appointment.OverrideNote)
	}

	// 5. Сохраняем запись
	created, err := uc.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		uc.logger.Error("AdminCreateAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	uc.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentCreated, created, req.AdminID))
	uc.logger.Info("AdminCreateAppointment: successfully created appointment id=%s", created.ID)

	return &Response{
		Appointment: created,
		Warnings:    final.Warnings(),
		FailedOpen:  ev.FailedOpen || final.FailedOpen,
	}, nil
}

// evaluate first - результат первой проверки; nil при первой проверке.
// Предупреждение, появившееся только при повторной проверке, требует нового подтверждения.
func (uc *UseCase) evaluate(ctx context.Context, c availability.Candidate, acknowledged bool, first *availability.Evaluation) (*availability.Evaluation, error) {
	ev, err := uc.availability.Evaluate(ctx, c)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrServiceNotFound):
			uc.logger.Warn("AdminCreateAppointment: service id=%s not found", c.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, availability.ErrInvalidInput):
			uc.logger.Warn("AdminCreateAppointment: invalid candidate: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("AdminCreateAppointment: availability check failed: %v", err)
			return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
		}
	}

	if err := ev.Recheck(first, acknowledged); err != nil {
		uc.logger.Info("AdminCreateAppointment: warnings require acknowledgement: %s", ev.Decision.Reason)
		return nil, err
	}
	return ev, nil
}

func (uc *UseCase) resolveStaffName(ctx context.Context, staffID string, fallback *string) (*string, error) {
	member, err := uc.staff.GetStaffMemberWithGracefulDegradation(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffservice.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		uc.logger.Warn("AdminCreateAppointment: staff directory unavailable, using name from request for staff=%s", staffID)
		return fallback, nil
	}
	return ptr.Ptr(member.Name), nil
}


package confirm_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/ClinicBookingService/internal/integrations/staffservice"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
)

// UseCase use case подтверждения записи клиента администратором.
// Мощность и занятость мастера проверяются заново, даже если время не менялось:
// с момента записи клиента могли появиться другие записи.
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
	uc.logger.Info("ConfirmAppointment: admin=%s, appointment=%s, staff=%s, ack=%t",
		req.AdminID, req.AppointmentID, req.StaffID, req.AcknowledgeWarnings)

	// 1. Валидация входных данных
	staffID := strings.TrimSpace(req.StaffID)
	if req.AppointmentID == "" || staffID == "" {
		return nil, fmt.Errorf("%w: appointment id and staffId are required", ErrInvalidInput)
	}
	if req.AdminNote != nil && len(*req.AdminNote) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: adminNote must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// 2. Получаем запись, подтверждать можно только pending
	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ConfirmAppointment: appointment id=%s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ConfirmAppointment: failed to get appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if !appointment.Status.CanTransitionTo(domain.StatusConfirmed) {
		uc.logger.Warn("ConfirmAppointment: appointment id=%s has status=%s", appointment.ID, appointment.Status)
		return nil, ErrNotPending
	}

	// 3. Мощность категории и занятость мастера, запись исключается из собственной проверки
	candidate := availability.Candidate{
		Mode:       scheduling.ModeAdmin,
		ServiceID:  appointment.ServiceID,
		CategoryID: appointment.ServiceCategoryID,
		Date:       appointment.Date,
		StartTime:  appointment.StartTime,
		Duration:   scheduling.CoerceDuration(appointment.ServiceDuration, domain.DefaultDurationMinutes),
		CustomTime: true,
		StaffID:    staffID,
		ExcludeID:  appointment.ID,
	}
	first, err := uc.evaluate(ctx, candidate, req.AcknowledgeWarnings, nil)
	if err != nil {
		return nil, err
	}

	// 4. Мастер из справочника с graceful degradation
	member, err := uc.staff.GetStaffMemberWithGracefulDegradation(ctx, staffID)
	switch {
	case err == nil:
		appointment.StaffName = ptr.Ptr(member.Name)
	case errors.Is(err, staffservice.ErrStaffNotFound):
		return nil, ErrStaffNotFound
	default:
		uc.logger.Warn("ConfirmAppointment: staff directory unavailable, using name from request for staff=%s", staffID)
		appointment.StaffName = req.StaffName
	}

	// 5. Повторная проверка прямо перед записью
	ev, err := uc.evaluate(ctx, candidate, req.AcknowledgeWarnings, first)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now().UTC()
	appointment.Status = domain.StatusConfirmed
	appointment.ConfirmedAt = &now
	appointment.StaffID = ptr.Ptr(staffID)
	if req.AdminNote != nil {
		appointment.AdminNote = req.AdminNote
	}
	if note := ev.OverrideNote(); note != nil {
		appointment.OverrideNote = note
		uc.logger.Warn("ConfirmAppointment: admin=%s acknowledged warnings for appointment id=%s: %s",
			req.AdminID, appointment.ID, *note)
	}

	// 6. Сохраняем
	updated, err := uc.appointmentRepo.Update(ctx, appointment)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ConfirmAppointment: failed to update appointment id=%s: %v", appointment.ID, err)
		return nil, fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
	}

	uc.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentConfirmed, updated, req.AdminID))
	uc.logger.Info("ConfirmAppointment: successfully confirmed appointment id=%s, staff=%s", updated.ID, staffID)

	return &Response{
		Appointment: updated,
		Warnings:    ev.Warnings(),
		FailedOpen:  ev.FailedOpen,
	}, nil
}

// evaluate first - результат первой проверки; nil при первой проверке.
// Предупреждение, появившееся только при повторной проверке, требует нового подтверждения.
func (uc *UseCase) evaluate(ctx context.Context, c availability.Candidate, acknowledged bool, first *availability.Evaluation) (*availability.Evaluation, error) {
	ev, err := uc.availability.Evaluate(ctx, c)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInput) || errors.Is(err, availability.ErrServiceNotFound) {
			uc.logger.Warn("ConfirmAppointment: stored appointment id=%s is not checkable: %v", c.ExcludeID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("ConfirmAppointment: availability check failed: %v", err)
		return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}

	if err := ev.Recheck(first, acknowledged); err != nil {
		uc.logger.Info("ConfirmAppointment: appointment id=%s: %s", c.ExcludeID, ev.Decision.Reason)
		return nil, err
	}
	return ev, nil
}

package update_appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/ClinicBookingService/internal/integrations/staffservice"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// UseCase use case правки записи администратором.
// Категория записи заморожена на момент создания: проверки идут по ServiceCategoryID,
// а не по текущей категории услуги в каталоге.
type UseCase struct {
	appointmentRepo AppointmentRepository
	availability    AvailabilityService
	staff           StaffDirectory
	publisher       EventPublisher
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availability AvailabilityService,
	staff StaffDirectory,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		staff:           staff,
		publisher:       publisher,
		logger:          logger,
	}
}

// schedule дата, время, длительность и мастер записи после правки
type schedule struct {
	date     string
	start    types.TimeString
	end      types.TimeString // явное окончание из запроса
	duration int
	staffID  string
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointment: admin=%s, appointment=%s, ack=%t", req.AdminID, req.AppointmentID, req.AcknowledgeWarnings)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем запись
	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("UpdateAppointment: appointment id=%s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("UpdateAppointment: failed to get appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if !appointment.CanBeUpdated() {
		uc.logger.Warn("UpdateAppointment: appointment id=%s has terminal status=%s", appointment.ID, appointment.Status)
		return nil, ErrNotEditable
	}

	// 3. Что меняется в расписании
	before := currentSchedule(appointment)
	after := before
	if req.Date != nil {
		after.date = req.Date.Format(domain.DateFormat)
	}
	if req.StartTime != nil {
		after.start = *req.StartTime
	}
	if req.EndTime != nil && !req.EndTime.IsZero() {
		after.end = *req.EndTime
	}
	if req.Duration != nil {
		after.duration = *req.Duration
	}
	if req.StaffID != nil {
		after.staffID = strings.TrimSpace(*req.StaffID)
	}

	resp := &Response{Rechecked: after != before}

	// 4. Повторные проверки с исключением самой записи
	if resp.Rechecked {
		date := appointment.Date
		if req.Date != nil {
			date = *req.Date
		}
		candidate := availability.Candidate{
			Mode:       scheduling.ModeAdmin,
			ServiceID:  appointment.ServiceID,
			CategoryID: appointment.ServiceCategoryID,
			Date:       date,
			StartTime:  after.start,
			EndTime:    after.end,
			CustomTime: req.CustomTime || after.start == before.start,
			StaffID:    after.staffID,
			ExcludeID:  appointment.ID,
		}
		if after.end.IsZero() {
			candidate.Duration = after.duration
		}

		first, err := uc.evaluate(ctx, candidate, req.AcknowledgeWarnings, nil)
		if err != nil {
			return nil, err
		}

		if after.staffID != before.staffID {
			if err := uc.assignStaff(ctx, appointment, after.staffID, req.StaffName); err != nil {
				return nil, err
			}
		}

		// повторная проверка прямо перед записью
		final, err := uc.evaluate(ctx, candidate, req.AcknowledgeWarnings, first)
		if err != nil {
			return nil, err
		}

		appointment.Date = date
		appointment.StartTime = final.StartTime
		appointment.EndTime = final.EndTime
		appointment.ServiceDuration = strconv.Itoa(final.DurationMinutes)
		appointment.OverrideNote = final.OverrideNote()
		resp.Warnings = final.Warnings()
		resp.FailedOpen = final.FailedOpen

		if appointment.OverrideNote != nil {
			uc.logger.Warn("UpdateAppointment: admin=%s acknowledged warnings for appointment id=%s: %s",
				req.AdminID, appointment.ID, *appointment.OverrideNote)
		}
	}

	// 5. Остальные поля
	if req.CustomerName != nil {
		appointment.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerPhone != nil {
		appointment.CustomerPhone = strings.TrimSpace(*req.CustomerPhone)
	}
	if req.CustomerEmail != nil {
		appointment.CustomerEmail = req.CustomerEmail
	}
	if req.Notes != nil {
		appointment.Notes = req.Notes
	}
	if req.AdminNote != nil {
		appointment.AdminNote = req.AdminNote
	}

	// 6. Сохраняем
	updated, err := uc.appointmentRepo.Update(ctx, appointment)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("UpdateAppointment: failed to update appointment id=%s: %v", appointment.ID, err)
		return nil, fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
	}

	uc.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentUpdated, updated, req.AdminID))
	uc.logger.Info("UpdateAppointment: successfully updated appointment id=%s, rechecked=%t", updated.ID, resp.Rechecked)

	resp.Appointment = updated
	return resp, nil
}

func currentSchedule(a *domain.Appointment) schedule {
	return schedule{
		date:     a.Date.Format(domain.DateFormat),
		start:    a.StartTime,
		duration: scheduling.CoerceDuration(a.ServiceDuration, domain.DefaultDurationMinutes),
		staffID:  ptr.Deref(a.StaffID, ""),
	}
}

// evaluate first - результат первой проверки; nil при первой проверке.
// Предупреждение, появившееся только при повторной проверке, требует нового подтверждения.
func (uc *UseCase) evaluate(ctx context.Context, c availability.Candidate, acknowledged bool, first *availability.Evaluation) (*availability.Evaluation, error) {
	ev, err := uc.availability.Evaluate(ctx, c)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInput) || errors.Is(err, availability.ErrServiceNotFound) {
			uc.logger.Warn("UpdateAppointment: invalid candidate: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("UpdateAppointment: availability check failed: %v", err)
		return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}

	if err := ev.Recheck(first, acknowledged); err != nil {
		uc.logger.Info("UpdateAppointment: appointment id=%s: %s", c.ExcludeID, ev.Decision.Reason)
		return nil, err
	}
	return ev, nil
}

// assignStaff пустой staffID снимает мастера с записи
func (uc *UseCase) assignStaff(ctx context.Context, a *domain.Appointment, staffID string, fallback *string) error {
	if staffID == "" {
		a.StaffID = nil
		a.StaffName = nil
		return nil
	}

	member, err := uc.staff.GetStaffMemberWithGracefulDegradation(ctx, staffID)
	switch {
	case err == nil:
		a.StaffName = ptr.Ptr(member.Name)
	case errors.Is(err, staffservice.ErrStaffNotFound):
		return ErrStaffNotFound
	default:
		uc.logger.Warn("UpdateAppointment: staff directory unavailable, using name from request for staff=%s", staffID)
		a.StaffName = fallback
	}
	a.StaffID = ptr.Ptr(staffID)
	return nil
}

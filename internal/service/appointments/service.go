package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
)

// Service сервис чтения записей и терминальных переходов (завершение, отмена, удаление).
// Создание, редактирование и подтверждение проходят через проверки доступности в use case'ах.
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	logger          Logger
	now             func() time.Time
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		logger:          logger,
		now:             time.Now,
	}
}

// GetByID получает запись по ID.
// Клиент видит только свою запись, администратор - любую.
func (s *Service) GetByID(ctx context.Context, id string, requester models.Requester) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, requester.UserID)

	appointment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !canAccess(appointment, requester) {
		s.logger.Warn("GetByID: access denied for user=%s to appointment id=%s", requester.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListByCustomer история записей клиента
func (s *Service) ListByCustomer(ctx context.Context, customerID string, requester models.Requester) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByCustomer: fetching appointments for customer=%s, requested by user=%s", customerID, requester.UserID)

	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	if !requester.IsAdmin && requester.UserID != customerID {
		s.logger.Warn("ListByCustomer: access denied for user=%s to customer=%s", requester.UserID, customerID)
		return nil, ErrAccessDenied
	}

	list, err := s.appointmentRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%s: %v", customerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByCustomer: successfully fetched %d appointments for customer=%s", len(list), customerID)
	return models.FromDomainAppointmentList(list), nil
}

// List записи для админки с фильтрами по дате, статусу и мастеру
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments", len(list))
	return models.FromDomainAppointmentList(list), nil
}

// Complete завершает подтверждённый приём: заметки мастера и фактически оплаченная сумма
func (s *Service) Complete(ctx context.Context, id string, req *models.CompleteRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Complete: completing appointment id=%s by admin=%s", id, req.AdminID)

	if req.ActualPaidAmount != nil && req.ActualPaidAmount.IsNegative() {
		return nil, fmt.Errorf("%w: actual paid amount must not be negative", ErrInvalidInput)
	}
	if tooLong(req.StaffNoteToCustomer, domain.MaxNotesLength) || tooLong(req.StaffInternalNote, domain.MaxNotesLength) {
		return nil, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	appointment, err := s.get(ctx, "Complete", id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanTransitionTo(domain.StatusCompleted) {
		s.logger.Warn("Complete: appointment id=%s cannot be completed, status=%s", id, appointment.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, domain.StatusCompleted)
	}

	appointment.Status = domain.StatusCompleted
	appointment.CompletedAt = ptr.Ptr(s.now().UTC())
	appointment.StaffNoteToCustomer = trimmed(req.StaffNoteToCustomer)
	appointment.StaffInternalNote = trimmed(req.StaffInternalNote)
	appointment.ActualPaidAmount = req.ActualPaidAmount

	updated, err := s.update(ctx, "Complete", appointment)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentCompleted, updated, req.AdminID))
	s.logger.Info("Complete: successfully completed appointment id=%s", id)
	return models.FromDomainAppointment(updated), nil
}

// Cancel отменяет запись.
// Клиент может отменить только свою запись, администратор - любую незавершённую.
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%s, admin=%t", id, req.UserID, req.IsAdmin)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appointment, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if !canAccess(appointment, req.Requester) {
		s.logger.Warn("Cancel: access denied for user=%s to cancel appointment id=%s", req.UserID, id)
		return nil, ErrAccessDenied
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", id, appointment.Status)
		return nil, ErrCannotCancel
	}

	appointment.Status = domain.StatusCancelled
	appointment.CancelledAt = ptr.Ptr(s.now().UTC())
	appointment.CancellationReason = trimmed(&req.CancellationReason)

	updated, err := s.update(ctx, "Cancel", appointment)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentCancelled, updated, req.UserID))
	s.logger.Info("Cancel: successfully cancelled appointment id=%s", id)
	return models.FromDomainAppointment(updated), nil
}

// Delete физически удаляет запись (только администратор)
func (s *Service) Delete(ctx context.Context, id string, adminID string) error {
	s.logger.Info("Delete: deleting appointment id=%s by admin=%s", id, adminID)

	appointment, err := s.get(ctx, "Delete", id)
	if err != nil {
		return err
	}

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentDeleted, appointment, adminID))
	s.logger.Info("Delete: successfully deleted appointment id=%s", id)
	return nil
}

func (s *Service) get(ctx context.Context, op, id string) (*domain.Appointment, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) update(ctx context.Context, op string, a *domain.Appointment) (*domain.Appointment, error) {
	updated, err := s.appointmentRepo.Update(ctx, a)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: failed to update appointment id=%s: %v", op, a.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return updated, nil
}

// canAccess владелец записи или администратор
func canAccess(a *domain.Appointment, requester models.Requester) bool {
	if requester.IsAdmin {
		return true
	}
	return a.CustomerID != nil && requester.UserID != "" && *a.CustomerID == requester.UserID
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func tooLong(s *string, limit int) bool {
	return s != nil && len(*s) > limit
}

package create_booking

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
	"github.com/m04kA/ClinicBookingService/internal/service/coupons"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
)

// UseCase use case записи клиента на приём.
// Любое нарушение правил - жёсткий отказ, предупреждений в этом сценарии нет.
type UseCase struct {
	appointmentRepo AppointmentRepository
	availability    AvailabilityService
	coupons         CouponService
	staff           StaffDirectory
	publisher       EventPublisher
	clock           Clock
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availability AvailabilityService,
	coupons CouponService,
	staff StaffDirectory,
	publisher EventPublisher,
	clock Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		coupons:         coupons,
		staff:           staff,
		publisher:       publisher,
		clock:           clock,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Транзакции нет: доступность проверяется дважды, второй раз непосредственно перед Create.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%s, service=%s, date=%s, time=%s, staff=%s",
		req.CustomerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, ptr.Deref(req.StaffID, ""))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата и время не в прошлом по времени клиники
	if err := uc.validateDate(req); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	candidate := availability.Candidate{
		Mode:      scheduling.ModeCustomer,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		StartTime: req.StartTime,
		StaffID:   ptr.Deref(req.StaffID, ""),
	}

	// 3. Правила категории, мощность и мастер
	ev, err := uc.evaluate(ctx, candidate)
	if err != nil {
		return nil, err
	}
	service := ev.Service

	// 4. Мастер из справочника
	var staffName *string
	if candidate.StaffID != "" {
		staffName, err = uc.resolveStaffName(ctx, candidate.StaffID, req.StaffName)
		if err != nil {
			return nil, err
		}
	}

	// 5. Купон
	var discount *coupons.Discount
	if req.CouponCode != nil && strings.TrimSpace(*req.CouponCode) != "" {
		discount, err = uc.coupons.Apply(ctx, *req.CouponCode, ev.Policy.CategoryID, service.Price)
		if err != nil {
			if errors.Is(err, coupons.ErrInternal) {
				uc.logger.Error("CreateBooking: failed to apply coupon: %v", err)
				return nil, fmt.Errorf("%w: failed to apply coupon: %v", ErrInternal, err)
			}
			uc.logger.Warn("CreateBooking: coupon rejected: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidCoupon, err)
		}
	}

	// 6. Повторная проверка прямо перед записью: за время шагов 3-5 могли записаться другие
	candidate.CategoryID = ev.Policy.CategoryID
	candidate.Duration = ev.DurationMinutes
	final, err := uc.evaluate(ctx, candidate)
	if err != nil {
		return nil, err
	}

	// 7. Создаем запись с денормализацией данных услуги
	appointment := &domain.Appointment{
		ID:                uuid.NewString(),
		Date:              req.Date,
		StartTime:         final.StartTime,
		EndTime:           final.EndTime,
		Status:            domain.StatusPending,
		ServiceID:         service.ID,
		ServiceName:       service.Name,
		ServiceCategoryID: final.Policy.CategoryID,
		ServiceDuration:   strconv.Itoa(final.DurationMinutes),
		ServicePrice:      service.Price,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerPhone:     strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:     req.CustomerEmail,
		Notes:             req.Notes,
		StaffName:         staffName,
	}
	if req.CustomerID != "" {
		appointment.CustomerID = ptr.Ptr(req.CustomerID)
		appointment.CreatedBy = ptr.Ptr(req.CustomerID)
	}
	if candidate.StaffID != "" {
		appointment.StaffID = ptr.Ptr(candidate.StaffID)
	}
	if discount != nil {
		appointment.CouponCode = ptr.Ptr(discount.Code)
		appointment.Discount = discount.Amount
	}

	created, err := uc.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	// 8. Учёт купона и событие после успешной записи
	if discount != nil {
		uc.coupons.IncrementUsage(ctx, discount.CouponID)
	}
	uc.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentCreated, created, req.CustomerID))

	uc.logger.Info("CreateBooking: successfully created appointment id=%s, %s %s-%s, load=%d/%d",
		created.ID, created.Date.Format(domain.DateFormat), created.StartTime, created.EndTime,
		final.Load.Current(), final.Load.Limit)

	return &Response{
		Appointment: created,
		FailedOpen:  ev.FailedOpen || final.FailedOpen,
	}, nil
}

// evaluate проверка кандидата; отказ возвращается как *availability.DecisionError
func (uc *UseCase) evaluate(ctx context.Context, c availability.Candidate) (*availability.Evaluation, error) {
	ev, err := uc.availability.Evaluate(ctx, c)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrServiceNotFound):
			uc.logger.Warn("CreateBooking: service id=%s not found", c.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, availability.ErrInvalidInput):
			uc.logger.Warn("CreateBooking: invalid candidate: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("CreateBooking: availability check failed: %v", err)
			return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
		}
	}

	if err := ev.Err(false); err != nil {
		uc.logger.Warn("CreateBooking: rejected %s %s for service=%s: %s",
			c.Date.Format(domain.DateFormat), c.StartTime, c.ServiceID, ev.Decision.Reason)
		return nil, err
	}
	return ev, nil
}

// resolveStaffName имя из справочника; при недоступности справочника - имя из запроса
func (uc *UseCase) resolveStaffName(ctx context.Context, staffID string, fallback *string) (*string, error) {
	member, err := uc.staff.GetStaffMemberWithGracefulDegradation(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffservice.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		uc.logger.Warn("CreateBooking: staff directory unavailable, using name from request for staff=%s", staffID)
		return fallback, nil
	}
	if !member.Active {
		uc.logger.Warn("CreateBooking: staff=%s is not active", staffID)
		return nil, ErrStaffNotFound
	}
	return ptr.Ptr(member.Name), nil
}

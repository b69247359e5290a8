package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	categoryRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/category"
	serviceRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/service"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// Операции для логов и метрики fail-open
const (
	opTimeAvailability  = "check_time_availability"
	opOverlap           = "check_overlap"
	opStaffAvailability = "check_staff_availability"
	opAvailableSlots    = "available_slots"
	opEvaluate          = "evaluate"
)

// Grid сетка кандидатов для гибких категорий: часы [StartHour, EndHour] с шагом Step минут
type Grid struct {
	StartHour int
	EndHour   int
	Step      int
}

// Service проверки доступности: политика категории, мощность, занятость мастера.
// Политика и записи читаются из хранилищ при каждом вызове, кэша нет.
type Service struct {
	appointmentRepo AppointmentRepository
	categoryRepo    CategoryRepository
	serviceRepo     ServiceRepository
	defaults        scheduling.Defaults
	grid            Grid
	clock           Clock
	metrics         MetricsRecorder
	logger          Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	appointmentRepo AppointmentRepository,
	categoryRepo CategoryRepository,
	serviceRepo ServiceRepository,
	defaults scheduling.Defaults,
	grid Grid,
	clock Clock,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		categoryRepo:    categoryRepo,
		serviceRepo:     serviceRepo,
		defaults:        defaults,
		grid:            grid,
		clock:           clock,
		metrics:         metrics,
		logger:          logger,
	}
}

// Defaults значения по умолчанию, с которыми работает сервис
func (s *Service) Defaults() scheduling.Defaults {
	return s.defaults
}

// ResolveService читает услугу и политику её категории
func (s *Service) ResolveService(ctx context.Context, serviceID string) (*ResolvedService, error) {
	svc, err := s.getService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	policy, err := s.resolvePolicy(ctx, svc.CategoryID)
	if err != nil {
		s.logger.Error("ResolveService: category=%s: %v", svc.CategoryID, err)
		return nil, fmt.Errorf("%w: ResolveService - category: %v", ErrInternal, err)
	}

	return &ResolvedService{
		Service:         svc,
		Policy:          policy,
		DurationMinutes: scheduling.CoerceDuration(svc.Duration, s.defaults.DurationMinutes),
	}, nil
}

// CheckTimeAvailability можно ли записаться на услугу в start на дату date
func (s *Service) CheckTimeAvailability(ctx context.Context, date time.Time, start types.TimeString, serviceID string) (*Availability, error) {
	s.logger.Info("CheckTimeAvailability: date=%s, time=%s, service=%s", date.Format(domain.DateFormat), start, serviceID)

	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	svc, err := s.getService(ctx, serviceID)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return s.failOpen(opTimeAvailability, err), nil
		}
		return nil, err
	}

	policy, err := s.resolvePolicy(ctx, svc.CategoryID)
	if err != nil {
		return s.failOpen(opTimeAvailability, err), nil
	}

	candidate, err := scheduling.NewInterval(start, scheduling.CoerceDuration(svc.Duration, s.defaults.DurationMinutes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	load, err := s.load(ctx, opTimeAvailability, date, policy, candidate, "")
	if err != nil {
		return s.failOpen(opTimeAvailability, err), nil
	}

	s.metrics.RecordDecision(string(outcomeOf(load)), violationOf(load))
	return &Availability{
		Available: load.Admissible(),
		Current:   load.Current(),
		Limit:     load.Limit,
	}, nil
}

// CheckOverlap пиковая загрузка категории на интервале [start, end)
func (s *Service) CheckOverlap(ctx context.Context, date time.Time, start, end types.TimeString, categoryID, excludeID string) (*OverlapResult, error) {
	s.logger.Info("CheckOverlap: date=%s, %s-%s, category=%s, exclude=%s",
		date.Format(domain.DateFormat), start, end, categoryID, excludeID)

	candidate, err := scheduling.IntervalBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	policy, err := s.resolvePolicy(ctx, categoryID)
	if err != nil {
		s.failOpen(opOverlap, err)
		return &OverlapResult{Available: true, Limit: s.defaults.BookingLimit, FailedOpen: true}, nil
	}

	load, err := s.load(ctx, opOverlap, date, policy, candidate, excludeID)
	if err != nil {
		s.failOpen(opOverlap, err)
		return &OverlapResult{Available: true, Limit: policy.BookingLimit, FailedOpen: true}, nil
	}

	return &OverlapResult{
		Concurrency: load.Current(),
		Limit:       load.Limit,
		Available:   load.Admissible(),
	}, nil
}

// CheckStaffAvailability свободен ли мастер на [start, start+duration) во всех категориях
func (s *Service) CheckStaffAvailability(ctx context.Context, staffID string, date time.Time, start types.TimeString, duration int, excludeID string) (*StaffAvailability, error) {
	s.logger.Info("CheckStaffAvailability: staff=%s, date=%s, time=%s, duration=%d, exclude=%s",
		staffID, date.Format(domain.DateFormat), start, duration, excludeID)

	if staffID == "" {
		return nil, fmt.Errorf("%w: staff id is required", ErrInvalidInput)
	}
	candidate, err := scheduling.NewInterval(start, scheduling.PositiveOr(duration, s.defaults.DurationMinutes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	conflicts, err := s.staffConflicts(ctx, opStaffAvailability, staffID, date, candidate, excludeID)
	if err != nil {
		s.failOpen(opStaffAvailability, err)
		return &StaffAvailability{Available: true, FailedOpen: true}, nil
	}

	return &StaffAvailability{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// ValidateFlexibleTime правило гибкого времени для услуги. Для фиксированных категорий всегда valid.
func (s *Service) ValidateFlexibleTime(ctx context.Context, start types.TimeString, duration int, serviceID string, mode scheduling.Mode) (*FlexibleValidation, error) {
	s.logger.Info("ValidateFlexibleTime: time=%s, duration=%d, service=%s, mode=%s", start, duration, serviceID, mode)

	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	svc, err := s.getService(ctx, serviceID)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fmt.Errorf("%w: ValidateFlexibleTime - %v", ErrInternal, err)
		}
		return nil, err
	}

	policy, err := s.resolvePolicy(ctx, svc.CategoryID)
	if err != nil {
		s.logger.Warn("ValidateFlexibleTime: category=%s unavailable, using defaults: %v", svc.CategoryID, err)
	}

	minutes := scheduling.PositiveOr(duration, scheduling.CoerceDuration(svc.Duration, s.defaults.DurationMinutes))
	check, err := scheduling.CheckFlexibleTime(policy, start, minutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !policy.IsFlexible() {
		return &FlexibleValidation{Valid: true, EndTime: check.EndTime}, nil
	}

	res := &FlexibleValidation{Valid: check.Valid, EndTime: check.EndTime, Message: check.Message}
	if !check.Valid && mode == scheduling.ModeAdmin {
		res.Valid = true
		res.Warning = true
	}
	return res, nil
}

// AvailableSlots стартовые времена услуги на дату с загрузкой каждого.
// Фиксированные категории - слоты категории, гибкие - сетка, отфильтрованная правилом гибкого времени.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time, serviceID string, duration int) (*AvailableSlots, error) {
	s.logger.Info("AvailableSlots: date=%s, service=%s, duration=%d", date.Format(domain.DateFormat), serviceID, duration)

	svc, err := s.getService(ctx, serviceID)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fmt.Errorf("%w: AvailableSlots - %v", ErrInternal, err)
		}
		return nil, err
	}

	result := &AvailableSlots{Date: date, Slots: []domain.AvailableSlot{}}

	policy, err := s.resolvePolicy(ctx, svc.CategoryID)
	if err != nil {
		s.failOpen(opAvailableSlots, err)
		result.FailedOpen = true
	}
	result.Policy = policy

	if s.clock.IsPastDate(date) {
		return result, nil
	}

	minutes := scheduling.CoerceDuration(svc.Duration, s.defaults.DurationMinutes)
	if policy.IsFlexible() {
		minutes = scheduling.PositiveOr(duration, minutes)
	}

	var existing []scheduling.Interval
	appointments, err := s.appointmentRepo.GetByDate(ctx, date)
	if err != nil {
		s.failOpen(opAvailableSlots, &FetchError{Op: opAvailableSlots, Err: err})
		result.FailedOpen = true
	} else {
		var skipped int
		existing, skipped = scheduling.IntervalsFor(appointments, policy.CategoryID, "", s.defaults.DurationMinutes)
		if skipped > 0 {
			s.logger.Warn("AvailableSlots: skipped %d appointments with malformed start time on %s", skipped, date.Format(domain.DateFormat))
		}
	}

	for _, start := range s.candidateStarts(policy, minutes) {
		if s.clock.HasStarted(date, start) {
			continue
		}
		candidate, err := scheduling.NewInterval(start, minutes)
		if err != nil {
			continue
		}
		end, err := candidate.EndTime()
		if err != nil {
			continue
		}

		slot := domain.AvailableSlot{
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: minutes,
			Limit:           policy.BookingLimit,
			Available:       true,
		}
		if !result.FailedOpen {
			load := scheduling.ComputeLoad(candidate, existing, policy.BookingLimit)
			slot.Current = load.Current()
			slot.Available = load.Admissible()
		}
		result.Slots = append(result.Slots, slot)
	}

	return result, nil
}

func (s *Service) candidateStarts(policy scheduling.Policy, minutes int) []types.TimeString {
	if !policy.IsFlexible() {
		return policy.FixedTimeSlots
	}

	var starts []types.TimeString
	for h := s.grid.StartHour; h <= s.grid.EndHour; h++ {
		for m := 0; m < 60; m += s.grid.Step {
			start, err := types.TimeStringFromMinutes(h*60 + m)
			if err != nil {
				continue
			}
			check, err := scheduling.CheckFlexibleTime(policy, start, minutes)
			if err != nil || !check.Valid {
				continue
			}
			starts = append(starts, start)
		}
	}
	return starts
}

func (s *Service) getService(ctx context.Context, serviceID string) (*domain.Service, error) {
	if serviceID == "" {
		return nil, fmt.Errorf("%w: service id is required", ErrInvalidInput)
	}

	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("getService: service=%s not found", serviceID)
			return nil, ErrServiceNotFound
		}
		return nil, &FetchError{Op: "get_service", Err: err}
	}
	return svc, nil
}

// resolvePolicy отсутствующая категория - значения по умолчанию.
// При ошибке чтения тоже возвращаются значения по умолчанию вместе с *FetchError.
func (s *Service) resolvePolicy(ctx context.Context, categoryID string) (scheduling.Policy, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, categoryRepo.ErrCategoryNotFound) {
			s.logger.Info("resolvePolicy: category=%s not found, using defaults", categoryID)
			return scheduling.ResolvePolicy(categoryID, nil, s.defaults), nil
		}
		return scheduling.ResolvePolicy(categoryID, nil, s.defaults), &FetchError{Op: "get_category", Err: err}
	}
	return scheduling.ResolvePolicy(categoryID, category, s.defaults), nil
}

func (s *Service) load(ctx context.Context, op string, date time.Time, policy scheduling.Policy, candidate scheduling.Interval, excludeID string) (scheduling.Load, error) {
	appointments, err := s.appointmentRepo.GetByDate(ctx, date)
	if err != nil {
		return scheduling.Load{}, &FetchError{Op: op, Err: err}
	}

	existing, skipped := scheduling.IntervalsFor(appointments, policy.CategoryID, excludeID, s.defaults.DurationMinutes)
	if skipped > 0 {
		s.logger.Warn("%s: skipped %d appointments with malformed start time on %s", op, skipped, date.Format(domain.DateFormat))
	}
	return scheduling.ComputeLoad(candidate, existing, policy.BookingLimit), nil
}

func (s *Service) staffConflicts(ctx context.Context, op, staffID string, date time.Time, candidate scheduling.Interval, excludeID string) ([]StaffConflict, error) {
	appointments, err := s.appointmentRepo.GetByStaffAndDate(ctx, staffID, date)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}

	found := scheduling.StaffConflicts(appointments, staffID, excludeID, candidate, s.defaults.DurationMinutes)
	conflicts := make([]StaffConflict, 0, len(found))
	for _, a := range found {
		conflicts = append(conflicts, toStaffConflict(a, s.defaults.DurationMinutes))
	}
	s.metrics.RecordStaffConflicts(len(conflicts))
	return conflicts, nil
}

func (s *Service) failOpen(op string, err error) *Availability {
	s.logger.Warn("%s: read failed, answering available (fail-open): %v", op, err)
	s.metrics.RecordFailOpen(op)
	return &Availability{Available: true, Current: 0, Limit: s.defaults.BookingLimit, FailedOpen: true}
}

func toStaffConflict(a *domain.Appointment, fallback int) StaffConflict {
	c := StaffConflict{
		AppointmentID: a.ID,
		CustomerName:  a.CustomerName,
		ServiceName:   a.ServiceName,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
	}
	if c.EndTime.IsZero() {
		if iv, err := scheduling.AppointmentInterval(a, fallback); err == nil {
			c.EndTime, _ = iv.EndTime()
		}
	}
	return c
}

func outcomeOf(load scheduling.Load) scheduling.Outcome {
	if load.Admissible() {
		return scheduling.OutcomeAdmit
	}
	return scheduling.OutcomeReject
}

func violationOf(load scheduling.Load) string {
	if load.Admissible() {
		return ""
	}
	return string(scheduling.ViolationCapacity)
}

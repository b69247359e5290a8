package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
)

// Evaluate прогоняет кандидата через все правила: время категории, мощность, мастер.
// Ошибки чтения записей и категорий не блокируют (fail-open, FailedOpen=true);
// некорректный ввод и отсутствующая услуга возвращаются ошибкой.
func (s *Service) Evaluate(ctx context.Context, c Candidate) (*Evaluation, error) {
	if c.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := c.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ev := &Evaluation{StartTime: c.StartTime}

	categoryID := c.CategoryID
	if categoryID == "" || (c.Duration <= 0 && c.EndTime.IsZero()) {
		svc, err := s.getService(ctx, c.ServiceID)
		if err != nil {
			var fetchErr *FetchError
			if errors.As(err, &fetchErr) {
				s.logger.Error("Evaluate: service=%s: %v", c.ServiceID, err)
				return nil, fmt.Errorf("%w: Evaluate - %v", ErrInternal, err)
			}
			return nil, err
		}
		ev.Service = svc
		if categoryID == "" {
			categoryID = svc.CategoryID
		}
	}

	policy, err := s.resolvePolicy(ctx, categoryID)
	if err != nil {
		s.failOpen(opEvaluate, err)
		ev.FailedOpen = true
	}
	ev.Policy = policy

	candidate, err := s.candidateInterval(c, ev.Service)
	if err != nil {
		return nil, err
	}
	ev.DurationMinutes = candidate.Duration()
	if ev.EndTime, err = candidate.EndTime(); err != nil {
		return nil, fmt.Errorf("%w: appointment must end before midnight", ErrInvalidInput)
	}

	timeRule, err := scheduling.TimeRuleDecision(policy, c.StartTime, ev.DurationMinutes, c.Mode, c.CustomTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	ev.Decisions = append(ev.Decisions, timeRule)

	capacity := scheduling.Admit()
	load, err := s.load(ctx, opEvaluate, c.Date, policy, candidate, c.ExcludeID)
	if err != nil {
		s.failOpen(opEvaluate, err)
		ev.FailedOpen = true
		ev.Load = scheduling.Load{Max: 1, Limit: policy.BookingLimit}
	} else {
		ev.Load = load
		capacity = scheduling.CapacityDecision(load, c.Mode)
	}
	ev.Decisions = append(ev.Decisions, capacity)

	if c.StaffID != "" {
		staff := scheduling.Admit()
		conflicts, err := s.staffConflicts(ctx, opEvaluate, c.StaffID, c.Date, candidate, c.ExcludeID)
		if err != nil {
			s.failOpen(opEvaluate, err)
			ev.FailedOpen = true
		} else {
			ev.StaffConflicts = conflicts
			staff = scheduling.StaffDecision(len(conflicts), c.Mode)
		}
		ev.Decisions = append(ev.Decisions, staff)
	}

	ev.Decision = scheduling.Combine(ev.Decisions...)
	s.metrics.RecordDecision(string(ev.Decision.Outcome), string(ev.Decision.Violation))

	s.logger.Info("Evaluate: service=%s, category=%s, date=%s, %s-%s, staff=%s, exclude=%s, mode=%s -> %s %s (%d/%d)",
		c.ServiceID, categoryID, c.Date.Format(domain.DateFormat), ev.StartTime, ev.EndTime,
		c.StaffID, c.ExcludeID, c.Mode, ev.Decision.Outcome, ev.Decision.Violation, ev.Load.Current(), ev.Load.Limit)

	return ev, nil
}

// candidateInterval явное окончание важнее длительности, длительность важнее длительности услуги
func (s *Service) candidateInterval(c Candidate, svc *domain.Service) (scheduling.Interval, error) {
	if !c.EndTime.IsZero() {
		iv, err := scheduling.IntervalBetween(c.StartTime, c.EndTime)
		if err != nil {
			return scheduling.Interval{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return iv, nil
	}

	fallback := s.defaults.DurationMinutes
	if svc != nil {
		fallback = scheduling.CoerceDuration(svc.Duration, s.defaults.DurationMinutes)
	}
	minutes := scheduling.PositiveOr(c.Duration, fallback)
	if minutes > domain.MaxDurationMinutes {
		return scheduling.Interval{}, fmt.Errorf("%w: duration %d exceeds %d minutes", ErrInvalidInput, minutes, domain.MaxDurationMinutes)
	}

	iv, err := scheduling.NewInterval(c.StartTime, minutes)
	if err != nil {
		return scheduling.Interval{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return iv, nil
}

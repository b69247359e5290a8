package availability

import (
	"strings"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// Availability ответ checkTimeAvailability.
// FailedOpen: хранилище не ответило, Available=true по контракту fail-open.
type Availability struct {
	Available  bool
	Current    int
	Limit      int
	FailedOpen bool
}

// OverlapResult ответ checkOverlap
type OverlapResult struct {
	Concurrency int // другие записи категории в пике интервала
	Limit       int
	Available   bool
	FailedOpen  bool
}

// StaffConflict пересекающаяся запись мастера
type StaffConflict struct {
	AppointmentID string
	CustomerName  string
	ServiceName   string
	StartTime     types.TimeString
	EndTime       types.TimeString
}

// StaffAvailability ответ checkStaffAvailability
type StaffAvailability struct {
	Available  bool
	Conflicts  []StaffConflict
	FailedOpen bool
}

// FlexibleValidation ответ validateFlexibleTime.
// В режиме администратора нарушение возвращается как Valid=true, Warning=true.
type FlexibleValidation struct {
	Valid   bool
	Warning bool
	EndTime types.TimeString
	Message string
}

// ResolvedService услуга вместе с политикой её категории
type ResolvedService struct {
	Service         *domain.Service
	Policy          scheduling.Policy
	DurationMinutes int
}

// AvailableSlots стартовые времена на дату с загрузкой
type AvailableSlots struct {
	Date       time.Time
	Policy     scheduling.Policy
	Slots      []domain.AvailableSlot
	FailedOpen bool
}

// Candidate запись, которую собираются создать или изменить
type Candidate struct {
	Mode       scheduling.Mode
	ServiceID  string
	CategoryID string // замороженная категория редактируемой записи; пусто - категория услуги
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString // явное окончание (только администратор)
	Duration   int              // 0 - длительность услуги
	CustomTime bool             // администратор выбрал время вне фиксированных слотов
	StaffID    string
	ExcludeID  string
}

// Evaluation результат полной проверки кандидата
type Evaluation struct {
	Decision        scheduling.Decision
	Decisions       []scheduling.Decision
	Service         *domain.Service // nil, если каталог не понадобился
	Policy          scheduling.Policy
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Load            scheduling.Load
	StaffConflicts  []StaffConflict
	FailedOpen      bool
}

// Warnings все предупреждения и отказы по отдельным правилам
func (e *Evaluation) Warnings() []scheduling.Decision {
	var out []scheduling.Decision
	for _, d := range e.Decisions {
		if !d.IsAdmit() {
			out = append(out, d)
		}
	}
	return out
}

// OverrideNote текст подтверждённых администратором предупреждений, nil если их нет
func (e *Evaluation) OverrideNote() *string {
	warnings := e.Warnings()
	if len(warnings) == 0 {
		return nil
	}
	reasons := make([]string, 0, len(warnings))
	for _, w := range warnings {
		reasons = append(reasons, w.Reason)
	}
	note := strings.Join(reasons, "; ")
	return &note
}

// Err nil для admit и для подтверждённых предупреждений, иначе *DecisionError
func (e *Evaluation) Err(acknowledged bool) error {
	switch e.Decision.Outcome {
	case scheduling.OutcomeReject:
		return &DecisionError{
			Sentinel:  sentinelFor(e.Decision.Violation),
			Decision:  e.Decision,
			Warnings:  e.Warnings(),
			Load:      e.Load,
			Conflicts: e.StaffConflicts,
		}
	case scheduling.OutcomeWarn:
		if acknowledged {
			return nil
		}
		return &DecisionError{
			Sentinel:  ErrWarningsNotAcknowledged,
			Decision:  e.Decision,
			Warnings:  e.Warnings(),
			Load:      e.Load,
			Conflicts: e.StaffConflicts,
		}
	}
	return nil
}

// Recheck как Err, но для повторной проверки перед записью: подтверждение покрывает
// только те виды предупреждений, которые были в first. nil first - обычная проверка.
func (e *Evaluation) Recheck(first *Evaluation, acknowledged bool) error {
	if err := e.Err(acknowledged); err != nil || first == nil {
		return err
	}

	seen := make(map[scheduling.Violation]bool)
	for _, w := range first.Warnings() {
		seen[w.Violation] = true
	}
	for _, w := range e.Warnings() {
		if !seen[w.Violation] {
			return &DecisionError{
				Sentinel:  ErrWarningsNotAcknowledged,
				Decision:  w,
				Warnings:  e.Warnings(),
				Load:      e.Load,
				Conflicts: e.StaffConflicts,
			}
		}
	}
	return nil
}

package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/ClinicBookingService/internal/scheduling"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidInput возвращается при некорректных входных данных (формат времени, длительность)
	ErrInvalidInput = errors.New("invalid input data")

	// ErrPolicyViolation время не соответствует правилам категории
	ErrPolicyViolation = errors.New("time does not satisfy category rules")

	// ErrCapacityExceeded лимит одновременных записей категории исчерпан
	ErrCapacityExceeded = errors.New("booking limit reached for this time")

	// ErrStaffConflict у мастера уже есть пересекающаяся запись
	ErrStaffConflict = errors.New("staff member is not available at this time")

	// ErrWarningsNotAcknowledged администратор не подтвердил предупреждения
	ErrWarningsNotAcknowledged = errors.New("warnings must be acknowledged")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)

// FetchError чтение из хранилища не удалось во время проверки.
// Проверки доступности в этом случае отвечают "доступно" (fail-open) и выставляют FailedOpen.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("availability: %s: fetch failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecisionError отказ (или неподтверждённое предупреждение) с деталями для ответа клиенту
type DecisionError struct {
	Sentinel  error
	Decision  scheduling.Decision
	Warnings  []scheduling.Decision
	Load      scheduling.Load
	Conflicts []StaffConflict
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("%v: %s", e.Sentinel, e.Decision.Reason)
}

func (e *DecisionError) Unwrap() error {
	return e.Sentinel
}

func sentinelFor(v scheduling.Violation) error {
	switch v {
	case scheduling.ViolationCapacity:
		return ErrCapacityExceeded
	case scheduling.ViolationStaff:
		return ErrStaffConflict
	default:
		return ErrPolicyViolation
	}
}

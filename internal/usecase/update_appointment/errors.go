package update_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("update_appointment: appointment not found")

	// ErrNotEditable возвращается для завершённых и отменённых записей
	ErrNotEditable = errors.New("update_appointment: appointment can no longer be edited")

	// ErrStaffNotFound возвращается, когда сотрудника нет в справочнике
	ErrStaffNotFound = errors.New("update_appointment: staff member not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment: internal error")
)

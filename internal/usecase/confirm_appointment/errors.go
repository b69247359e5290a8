package confirm_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("confirm_appointment: appointment not found")

	// ErrNotPending возвращается, когда подтверждать можно только ожидающую запись
	ErrNotPending = errors.New("confirm_appointment: only pending appointments can be confirmed")

	// ErrStaffNotFound возвращается, когда сотрудника нет в справочнике
	ErrStaffNotFound = errors.New("confirm_appointment: staff member not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_appointment: internal error")
)

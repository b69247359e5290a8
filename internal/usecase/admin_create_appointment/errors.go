package admin_create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("admin_create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда сотрудника нет в справочнике
	ErrStaffNotFound = errors.New("admin_create_appointment: staff member not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("admin_create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("admin_create_appointment: internal error")
)

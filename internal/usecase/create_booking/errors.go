package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда выбранного сотрудника нет в справочнике
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrPastDate возвращается при записи на прошедшую дату
	ErrPastDate = errors.New("create_booking: cannot book a past date")

	// ErrTimeAlreadyPassed возвращается, когда время на сегодня уже прошло
	ErrTimeAlreadyPassed = errors.New("create_booking: this time has already passed")

	// ErrInvalidCoupon возвращается, когда купон не прошёл проверку
	ErrInvalidCoupon = errors.New("create_booking: coupon cannot be applied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

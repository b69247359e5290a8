package coupons

import "errors"

var (
	// ErrCouponNotFound возвращается, когда купона с таким кодом нет
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponInactive возвращается для выключенного купона
	ErrCouponInactive = errors.New("coupon is not active")

	// ErrCouponExpired возвращается, когда срок действия купона истёк
	ErrCouponExpired = errors.New("coupon has expired")

	// ErrCouponNotApplicable возвращается, когда купон только для товаров
	ErrCouponNotApplicable = errors.New("coupon is not valid for services")

	// ErrCategoryMismatch возвращается, когда купон не действует на категорию услуги
	ErrCategoryMismatch = errors.New("coupon is not valid for this service category")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("coupons: internal error")
)

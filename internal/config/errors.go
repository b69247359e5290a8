package config

import "errors"

var (
	// ErrInvalidConfig возвращается, когда значения конфигурации не проходят проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

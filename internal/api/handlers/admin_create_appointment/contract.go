package admin_create_appointment

import (
	"context"

	adminCreate "github.com/m04kA/ClinicBookingService/internal/usecase/admin_create_appointment"
)

type AdminCreateUseCase interface {
	Execute(ctx context.Context, req *adminCreate.Request) (*adminCreate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

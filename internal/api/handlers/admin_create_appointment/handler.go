package admin_create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/api/middleware"
	adminCreate "github.com/m04kA/ClinicBookingService/internal/usecase/admin_create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата (YYYY-MM-DD) или время (HH:MM)"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
)

type Handler struct {
	useCase AdminCreateUseCase
	logger  Logger
}

func NewHandler(useCase AdminCreateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/appointments
// При предупреждениях без acknowledgeWarnings отвечает 409 с proceedable=true.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(adminID)
	if err != nil {
		h.logger.Warn("POST /admin/appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDecision(w, err) {
			h.logger.Info("POST /admin/appointments - Needs attention: admin_id=%s: %v", adminID, err)
			return
		}

		switch {
		case errors.Is(err, adminCreate.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, adminCreate.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, adminCreate.ErrInvalidInput):
			h.logger.Warn("POST /admin/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /admin/appointments - Failed to create appointment: admin_id=%s, error=%v", adminID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/appointments - Appointment created: appointment_id=%s, admin_id=%s, warnings=%d",
		result.Appointment.ID, adminID, len(result.Warnings))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

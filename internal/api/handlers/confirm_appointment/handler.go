package confirm_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/api/middleware"
	confirmAppointment "github.com/m04kA/ClinicBookingService/internal/usecase/confirm_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "запись не найдена"
	msgNotPending         = "подтвердить можно только ожидающую запись"
	msgStaffNotFound      = "сотрудник не найден"
)

type Handler struct {
	useCase ConfirmAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/appointments/{appointmentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]
	adminID, _ := middleware.GetUserID(r.Context())

	var req ConfirmAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/appointments/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(adminID, appointmentID))
	if err != nil {
		if handlers.RespondDecision(w, err) {
			h.logger.Info("POST /admin/appointments/{id}/confirm - Needs attention: appointment_id=%s: %v", appointmentID, err)
			return
		}

		switch {
		case errors.Is(err, confirmAppointment.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmAppointment.ErrNotPending):
			handlers.RespondConflict(w, msgNotPending)

		case errors.Is(err, confirmAppointment.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, confirmAppointment.ErrInvalidInput):
			h.logger.Warn("POST /admin/appointments/{id}/confirm - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /admin/appointments/{id}/confirm - Failed to confirm: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/appointments/{id}/confirm - Appointment confirmed: appointment_id=%s, admin_id=%s",
		appointmentID, adminID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

package validate_flexible_time

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

const (
	msgInvalidTime     = "некорректный формат времени, ожидается HH:MM"
	msgInvalidDuration = "некорректная длительность"
	msgServiceNotFound = "услуга не найдена"
)

// FlexibleTimeResponse HTTP response model
type FlexibleTimeResponse struct {
	Valid   bool   `json:"valid"`
	Warning bool   `json:"warning,omitempty"`
	EndTime string `json:"endTime"`
	Message string `json:"message,omitempty"`
}

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/flexible-time
// Query params: startTime, duration (optional, минуты).
// Для администратора нарушение возвращается предупреждением.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID := mux.Vars(r)["serviceId"]
	query := r.URL.Query()

	start, err := handlers.ParseTime(query.Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/flexible-time - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	duration, err := handlers.ParseOptionalInt(query.Get("duration"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/flexible-time - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	mode := scheduling.ModeCustomer
	if middleware.IsAdmin(r.Context()) {
		mode = scheduling.ModeAdmin
	}

	result, err := h.service.ValidateFlexibleTime(r.Context(), start, duration, serviceID, mode)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/flexible-time - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/flexible-time - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /services/{id}/flexible-time - Failed to validate: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FlexibleTimeResponse{
		Valid:   result.Valid,
		Warning: result.Warning,
		EndTime: result.EndTime.String(),
		Message: result.Message,
	})
}

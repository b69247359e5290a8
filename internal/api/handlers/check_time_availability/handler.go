package check_time_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

const (
	msgMissingServiceID = "serviceId обязателен"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime      = "некорректный формат времени, ожидается HH:MM"
	msgServiceNotFound  = "услуга не найдена"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Available  bool `json:"available"`
	Current    int  `json:"current"`
	Limit      int  `json:"limit"`
	FailedOpen bool `json:"failedOpen,omitempty"`
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

// Handle GET /api/v1/availability/time
// Query params: date (YYYY-MM-DD), time (HH:MM), serviceId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceID := query.Get("serviceId")
	if serviceID == "" {
		h.logger.Warn("GET /availability/time - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability/time - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	start, err := handlers.ParseTime(query.Get("time"))
	if err != nil {
		h.logger.Warn("GET /availability/time - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.CheckTimeAvailability(r.Context(), date, start, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrServiceNotFound):
			h.logger.Warn("GET /availability/time - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /availability/time - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /availability/time - Failed to check availability: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{
		Available:  result.Available,
		Current:    result.Current,
		Limit:      result.Limit,
		FailedOpen: result.FailedOpen,
	})
}

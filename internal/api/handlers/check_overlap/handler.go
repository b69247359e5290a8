package check_overlap

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime = "некорректный формат времени, ожидается HH:MM"
)

// OverlapResponse HTTP response model
type OverlapResponse struct {
	Concurrency int  `json:"concurrency"`
	Limit       int  `json:"limit"`
	Available   bool `json:"available"`
	FailedOpen  bool `json:"failedOpen,omitempty"`
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

// Handle GET /api/v1/categories/{categoryId}/overlap
// Query params: date, startTime, endTime, excludeId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["categoryId"]
	query := r.URL.Query()

	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /categories/{id}/overlap - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	start, err := handlers.ParseTime(query.Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /categories/{id}/overlap - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	end, err := handlers.ParseTime(query.Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /categories/{id}/overlap - Invalid end time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.CheckOverlap(r.Context(), date, start, end, categoryID, query.Get("excludeId"))
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInput) {
			h.logger.Warn("GET /categories/{id}/overlap - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /categories/{id}/overlap - Failed to check overlap: category_id=%s, error=%v", categoryID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, OverlapResponse{
		Concurrency: result.Concurrency,
		Limit:       result.Limit,
		Available:   result.Available,
		FailedOpen:  result.FailedOpen,
	})
}

package check_staff_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

const (
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime     = "некорректный формат времени, ожидается HH:MM"
	msgInvalidDuration = "некорректная длительность"
)

// StaffAvailabilityResponse HTTP response model
type StaffAvailabilityResponse struct {
	Available  bool                        `json:"available"`
	Conflicts  []handlers.ConflictResponse `json:"conflicts"`
	FailedOpen bool                        `json:"failedOpen,omitempty"`
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

// Handle GET /api/v1/staff/{staffId}/availability
// Query params: date, time, duration (минуты), excludeId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staffId"]
	query := r.URL.Query()

	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /staff/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	start, err := handlers.ParseTime(query.Get("time"))
	if err != nil {
		h.logger.Warn("GET /staff/{id}/availability - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	duration, err := handlers.ParseOptionalInt(query.Get("duration"))
	if err != nil {
		h.logger.Warn("GET /staff/{id}/availability - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.service.CheckStaffAvailability(r.Context(), staffID, date, start, duration, query.Get("excludeId"))
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInput) {
			h.logger.Warn("GET /staff/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /staff/{id}/availability - Failed to check staff: staff_id=%s, error=%v", staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	conflicts := handlers.FromStaffConflicts(result.Conflicts)
	if conflicts == nil {
		conflicts = []handlers.ConflictResponse{}
	}
	handlers.RespondJSON(w, http.StatusOK, StaffAvailabilityResponse{
		Available:  result.Available,
		Conflicts:  conflicts,
		FailedOpen: result.FailedOpen,
	})
}

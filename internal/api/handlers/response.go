package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

const msgInternalError = "внутренняя ошибка сервера"

var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidNumber = errors.New("invalid number")
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// DecodeJSON читает тело запроса, неизвестные поля игнорируются
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// WarningResponse одно нарушение правил
type WarningResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ConflictResponse пересекающаяся запись мастера
type ConflictResponse struct {
	AppointmentID string `json:"appointmentId"`
	CustomerName  string `json:"customerName"`
	ServiceName   string `json:"serviceName"`
	Time          string `json:"time"`
	EndTime       string `json:"endTime"`
}

// DecisionResponse 409 с причиной отказа.
// Proceedable=true: администратор может повторить запрос с acknowledgeWarnings=true.
type DecisionResponse struct {
	Error       string             `json:"error"`
	Reason      string             `json:"reason"`
	Type        string             `json:"type"`
	Proceedable bool               `json:"proceedable"`
	Current     *int               `json:"current,omitempty"`
	Limit       *int               `json:"limit,omitempty"`
	Warnings    []WarningResponse  `json:"warnings,omitempty"`
	Conflicts   []ConflictResponse `json:"conflicts,omitempty"`
}

// RespondDecision отвечает 409, если err содержит *availability.DecisionError
func RespondDecision(w http.ResponseWriter, err error) bool {
	var decision *availability.DecisionError
	if !errors.As(err, &decision) {
		return false
	}

	resp := DecisionResponse{
		Error:       decision.Sentinel.Error(),
		Reason:      decision.Decision.Reason,
		Type:        string(decision.Decision.Violation),
		Proceedable: decision.Decision.Proceedable,
		Warnings:    FromDecisions(decision.Warnings),
		Conflicts:   FromStaffConflicts(decision.Conflicts),
	}
	if decision.Load.Limit > 0 || decision.Load.Max > 0 {
		current, limit := decision.Load.Current(), decision.Load.Limit
		resp.Current = &current
		resp.Limit = &limit
	}

	RespondJSON(w, http.StatusConflict, resp)
	return true
}

func FromDecisions(decisions []scheduling.Decision) []WarningResponse {
	if len(decisions) == 0 {
		return nil
	}
	out := make([]WarningResponse, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, WarningResponse{Type: string(d.Violation), Message: d.Reason})
	}
	return out
}

func FromStaffConflicts(conflicts []availability.StaffConflict) []ConflictResponse {
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, ConflictResponse{
			AppointmentID: c.AppointmentID,
			CustomerName:  c.CustomerName,
			ServiceName:   c.ServiceName,
			Time:          c.StartTime.String(),
			EndTime:       c.EndTime.String(),
		})
	}
	return out
}

// ParseDate разбирает "YYYY-MM-DD"
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// ParseTime разбирает "HH:MM", пустая строка - ошибка
func ParseTime(raw string) (types.TimeString, error) {
	return types.NewTimeStringFromString(raw)
}

// ParseOptionalInt пустая строка - 0
func ParseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return n, nil
}

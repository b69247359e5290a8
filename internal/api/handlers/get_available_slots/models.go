package get_available_slots

import (
	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date         string         `json:"date"`
	CategoryID   string         `json:"categoryId"`
	TimeType     string         `json:"timeType"`
	BookingLimit int            `json:"bookingLimit"`
	Slots        []SlotResponse `json:"slots"`
	FailedOpen   bool           `json:"failedOpen,omitempty"`
}

// SlotResponse стартовое время с загрузкой
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Current         int    `json:"current"`
	FreeSpots       int    `json:"freeSpots"`
	Available       bool   `json:"available"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(res *availability.AvailableSlots) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(res.Slots))
	for i := range res.Slots {
		s := &res.Slots[i]
		slots = append(slots, SlotResponse{
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			DurationMinutes: s.DurationMinutes,
			Current:         s.Current,
			FreeSpots:       s.FreeSpots(),
			Available:       !s.IsFull(),
		})
	}

	return &AvailableSlotsResponse{
		Date:         res.Date.Format(domain.DateFormat),
		CategoryID:   res.Policy.CategoryID,
		TimeType:     string(res.Policy.TimeType),
		BookingLimit: res.Policy.BookingLimit,
		Slots:        slots,
		FailedOpen:   res.FailedOpen,
	}
}

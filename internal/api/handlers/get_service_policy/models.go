package get_service_policy

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// PolicyResponse услуга с итоговыми правилами её категории
type PolicyResponse struct {
	ServiceID           string          `json:"serviceId"`
	ServiceName         string          `json:"serviceName"`
	Price               decimal.Decimal `json:"price"`
	DurationMinutes     int             `json:"durationMinutes"`
	CategoryID          string          `json:"categoryId"`
	TimeType            string          `json:"timeType"`
	FixedTimeSlots      []string        `json:"fixedTimeSlots"`
	ForbiddenStartTimes []string        `json:"forbiddenStartTimes"`
	MaxEndTime          string          `json:"maxEndTime"`
	BookingLimit        int             `json:"bookingLimit"`
	FromDefaults        bool            `json:"fromDefaults"`
}

func FromResolvedService(rs *availability.ResolvedService) *PolicyResponse {
	return &PolicyResponse{
		ServiceID:           rs.Service.ID,
		ServiceName:         rs.Service.Name,
		Price:               rs.Service.Price,
		DurationMinutes:     rs.DurationMinutes,
		CategoryID:          rs.Policy.CategoryID,
		TimeType:            string(rs.Policy.TimeType),
		FixedTimeSlots:      toStrings(rs.Policy.FixedTimeSlots),
		ForbiddenStartTimes: toStrings(rs.Policy.ForbiddenStartTimes),
		MaxEndTime:          rs.Policy.MaxEndTime.String(),
		BookingLimit:        rs.Policy.BookingLimit,
		FromDefaults:        rs.Policy.FromDefaults,
	}
}

func toStrings(times []types.TimeString) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, t.String())
	}
	return out
}

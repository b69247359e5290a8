package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

func TestResolvePolicy_MissingCategoryUsesDefaults(t *testing.T) {
	d := StandardDefaults()

	p := ResolvePolicy("laser", nil, d)

	assert.True(t, p.FromDefaults)
	assert.Equal(t, "laser", p.CategoryID)
	assert.Equal(t, domain.TimeTypeFixed, p.TimeType)
	assert.Equal(t, []types.TimeString{"08:30", "10:00", "11:30", "13:00", "15:00"}, p.FixedTimeSlots)
	assert.Equal(t, []types.TimeString{"08:00", "08:30", "16:30"}, p.ForbiddenStartTimes)
	assert.Equal(t, types.TimeString("16:30"), p.MaxEndTime)
	assert.Equal(t, 999, p.BookingLimit)
}

func TestResolvePolicy_CategoryOverridesOnlySetFields(t *testing.T) {
	category := &domain.Category{
		ID:           "laser",
		TimeType:     ptr.Ptr(domain.TimeTypeFlexible),
		MaxEndTime:   ptr.Ptr(types.TimeString("18:00")),
		BookingLimit: ptr.Ptr(2),
	}

	p := ResolvePolicy("laser", category, StandardDefaults())

	assert.False(t, p.FromDefaults)
	assert.True(t, p.IsFlexible())
	assert.Equal(t, types.TimeString("18:00"), p.MaxEndTime)
	assert.Equal(t, 2, p.BookingLimit)
	assert.Equal(t, []types.TimeString{"08:00", "08:30", "16:30"}, p.ForbiddenStartTimes)
}

func TestResolvePolicy_EmptyListIsConfigured(t *testing.T) {
	category := &domain.Category{ID: "skin", ForbiddenStartTimes: []types.TimeString{}}

	p := ResolvePolicy("skin", category, StandardDefaults())

	assert.Empty(t, p.ForbiddenStartTimes)
	assert.False(t, p.IsForbiddenStart("08:00"))
}

func TestResolvePolicy_BookingLimit(t *testing.T) {
	zero := ResolvePolicy("c", &domain.Category{BookingLimit: ptr.Ptr(0)}, StandardDefaults())
	assert.Equal(t, 0, zero.BookingLimit, "an explicit zero limit is kept")

	negative := ResolvePolicy("c", &domain.Category{BookingLimit: ptr.Ptr(-3)}, StandardDefaults())
	assert.Equal(t, 999, negative.BookingLimit)
}

func TestResolvePolicy_UnknownTimeTypeFallsBack(t *testing.T) {
	p := ResolvePolicy("c", &domain.Category{TimeType: ptr.Ptr(domain.TimeType("hourly"))}, StandardDefaults())
	assert.Equal(t, domain.TimeTypeFixed, p.TimeType)
}

func TestNewDefaults(t *testing.T) {
	d, err := NewDefaults("flexible", []string{"9:00", "12:00"}, nil, "17:00", 4, 45)
	require.NoError(t, err)

	assert.Equal(t, domain.TimeTypeFlexible, d.TimeType)
	assert.Equal(t, []types.TimeString{"09:00", "12:00"}, d.FixedTimeSlots)
	assert.Equal(t, []types.TimeString{"08:00", "08:30", "16:30"}, d.ForbiddenStartTimes)
	assert.Equal(t, types.TimeString("17:00"), d.MaxEndTime)
	assert.Equal(t, 4, d.BookingLimit)
	assert.Equal(t, 45, d.DurationMinutes)

	_, err = NewDefaults("hourly", nil, nil, "", 0, 0)
	assert.Error(t, err)

	_, err = NewDefaults("", []string{"25:00"}, nil, "", 0, 0)
	assert.Error(t, err)
}

func TestPolicy_IsFixedSlotNormalizes(t *testing.T) {
	p := ResolvePolicy("c", nil, StandardDefaults())

	assert.True(t, p.IsFixedSlot("10:00"))
	assert.True(t, p.IsFixedSlot("8:30"))
	assert.False(t, p.IsFixedSlot("10:15"))
	assert.False(t, p.IsFixedSlot("bad"))
}

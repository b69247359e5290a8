package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

func TestRespondDecision(t *testing.T) {
	t.Run("customer capacity reject", func(t *testing.T) {
		decision := scheduling.Violate(scheduling.ModeCustomer, scheduling.ViolationCapacity, "booking limit reached (2/2)")
		err := fmt.Errorf("create_booking: %w", &availability.DecisionError{
			Sentinel: availability.ErrCapacityExceeded,
			Decision: decision,
			Warnings: []scheduling.Decision{decision},
			Load:     scheduling.Load{Max: 3, Limit: 2},
		})

		rec := httptest.NewRecorder()
		require.True(t, RespondDecision(rec, err))
		assert.Equal(t, http.StatusConflict, rec.Code)

		var body DecisionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "capacity", body.Type)
		assert.False(t, body.Proceedable)
		require.NotNil(t, body.Current)
		assert.Equal(t, 2, *body.Current)
		assert.Equal(t, 2, *body.Limit)
	})

	t.Run("admin warnings are proceedable", func(t *testing.T) {
		warning := scheduling.Violate(scheduling.ModeAdmin, scheduling.ViolationStaff, "staff busy")
		err := &availability.DecisionError{
			Sentinel: availability.ErrWarningsNotAcknowledged,
			Decision: warning,
			Warnings: []scheduling.Decision{warning},
			Conflicts: []availability.StaffConflict{
				{AppointmentID: "a9", CustomerName: "Lina", StartTime: "09:00", EndTime: "10:00"},
			},
		}

		rec := httptest.NewRecorder()
		require.True(t, RespondDecision(rec, err))

		var body DecisionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Proceedable)
		assert.Nil(t, body.Current)
		require.Len(t, body.Warnings, 1)
		assert.Equal(t, "staff", body.Warnings[0].Type)
		require.Len(t, body.Conflicts, 1)
		assert.Equal(t, "09:00", body.Conflicts[0].Time)
	})

	t.Run("other errors are not handled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		assert.False(t, RespondDecision(rec, availability.ErrServiceNotFound))
		assert.Equal(t, 0, rec.Body.Len())
	})
}

func TestParseHelpers(t *testing.T) {
	_, err := ParseDate("2025-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err := ParseDate(" 2025-06-01 ")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Day())

	n, err := ParseOptionalInt("")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = ParseOptionalInt("45min")
	assert.ErrorIs(t, err, ErrInvalidNumber)

	ts, err := ParseTime("9:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())
}

package staffservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/pkg/logger"
)

func TestClient_GetStaffMember(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/staff/s-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"s-1","name":"Lina","role":"therapist","active":true}`))
		case "/internal/staff/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewDiscard())

	member, err := c.GetStaffMember(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Lina", member.Name)
	assert.True(t, member.Active)

	_, err = c.GetStaffMember(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = c.GetStaffMember(context.Background(), "boom")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GracefulDegradation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/internal/staff/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewDiscard())

	_, err := c.GetStaffMemberWithGracefulDegradation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = c.GetStaffMemberWithGracefulDegradation(context.Background(), "s-2")
	assert.ErrorIs(t, err, ErrServiceDegraded)
	assert.NotErrorIs(t, err, ErrStaffNotFound)
}

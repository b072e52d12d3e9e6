package reporting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySyncRoutesByKind(t *testing.T) {
	var gotPath string
	var gotEvent Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
	}))
	defer server.Close()

	sink := NewSink(server.URL+"/checkin", server.URL+"/checkout")
	user := attendance.User{
		Name:       "Alex Johnson",
		Email:      "alex@bluemark.com",
		Role:       attendance.RoleEmployee,
		Department: "Engineering",
	}
	coords := attendance.Coordinates{Latitude: 37.7749, Longitude: -122.4194}

	event := NewEvent(user, utils.Ptr("08:55"), nil, coords, "2025-03-10T08:55:00Z")
	require.NoError(t, sink.NotifySync(context.Background(), event, KindCheckIn))
	assert.Equal(t, "/checkin", gotPath)
	assert.Equal(t, "alex@bluemark.com", gotEvent.Email)
	assert.Equal(t, "37.7749,-122.4194", gotEvent.Location)
	require.NotNil(t, gotEvent.ClockIn)
	assert.Equal(t, "08:55", *gotEvent.ClockIn)
	assert.Nil(t, gotEvent.ClockOut)

	event = NewEvent(user, utils.Ptr("08:55"), utils.Ptr("17:05"), coords, "2025-03-10T08:55:00Z")
	require.NoError(t, sink.NotifySync(context.Background(), event, KindCheckOut))
	assert.Equal(t, "/checkout", gotPath)
	require.NotNil(t, gotEvent.ClockOut)
	assert.Equal(t, "17:05", *gotEvent.ClockOut)
}

func TestNotifySyncNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewSink(server.URL, server.URL)
	err := sink.NotifySync(context.Background(), Event{}, KindCheckIn)
	assert.ErrorContains(t, err, "502")
}

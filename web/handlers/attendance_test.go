package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/insight"
	"bluemark.com/bluemark/reporting"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	values map[string][]byte
}

func (c *memCache) Load(key string) ([]byte, error) {
	v, ok := c.values[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (c *memCache) Save(key string, value []byte) error {
	c.values[key] = value
	return nil
}

var testNow = time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)

func testEmployee() attendance.User {
	return attendance.User{
		ID:         "emp001",
		Name:       "Alex Johnson",
		Email:      "alex@bluemark.com",
		Role:       attendance.RoleEmployee,
		Department: "Engineering",
	}
}

func testAdmin() attendance.User {
	return attendance.User{
		ID:         "adm001",
		Name:       "Sarah Smith",
		Email:      "admin@bluemark.com",
		Role:       attendance.RoleAdmin,
		Department: "Human Resources",
	}
}

// newTestRouter wires the handler behind a stand-in for the auth middleware
// that injects the given user's claims.
func newTestRouter(t *testing.T, user attendance.User) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(webhook.Close)

	store := attendance.NewStore(&memCache{values: map[string][]byte{}}, testNow)
	h := New(store, attendance.DefaultCompanySettings)
	h.Sink = reporting.NewSink(webhook.URL, webhook.URL)
	h.Now = func() time.Time { return testNow }

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("claims", jwt.MapClaims{
			"nameid":      user.ID,
			"unique_name": user.Name,
			"email":       user.Email,
			"role":        string(user.Role),
			"department":  user.Department,
		})
		c.Next()
	})
	r.POST("/attendance/checkin", h.CheckInHandler())
	r.POST("/attendance/checkout", h.CheckOutHandler())
	r.GET("/attendance/today", h.TodayHandler())
	r.GET("/attendance/logs", h.LogsHandler())
	r.GET("/attendance/insight", h.InsightHandler())
	r.GET("/admin/stats", h.StatsHandler())
	r.GET("/admin/logs", h.SearchLogsHandler())
	r.PUT("/admin/logs/:id/approve", h.ApproveHandler())

	return r, h
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func officeBody() gin.H {
	return gin.H{"latitude": 37.7749, "longitude": -122.4194}
}

func remoteBody() gin.H {
	return gin.H{"latitude": 37.8749, "longitude": -122.4194}
}

func TestCheckInHandler(t *testing.T) {
	r, h := newTestRouter(t, testEmployee())

	w := doJSON(r, http.MethodPost, "/attendance/checkin", officeBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data attendance.AttendanceLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, attendance.StatusPartial, resp.Data.Status)
	assert.False(t, resp.Data.Flagged)

	record, ok := h.Store.FindToday("emp001", testNow)
	require.True(t, ok)
	assert.Equal(t, resp.Data.ID, record.ID)
}

func TestCheckInHandlerRejectsSecondCheckIn(t *testing.T) {
	r, _ := newTestRouter(t, testEmployee())

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/attendance/checkin", officeBody()).Code)
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, "/attendance/checkin", officeBody()).Code)
}

func TestCheckInHandlerRejectsMissingLocation(t *testing.T) {
	r, h := newTestRouter(t, testEmployee())

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "no body", body: nil},
		{name: "missing longitude", body: gin.H{"latitude": 37.7749}},
		{name: "latitude out of range", body: gin.H{"latitude": 120.0, "longitude": -122.4194}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/attendance/checkin", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// Nothing was created along the way.
	_, ok := h.Store.FindToday("emp001", testNow)
	assert.False(t, ok)
}

func TestCheckOutHandler(t *testing.T) {
	r, h := newTestRouter(t, testEmployee())

	// Check-out before check-in is a conflict.
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, "/attendance/checkout", officeBody()).Code)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/attendance/checkin", officeBody()).Code)

	w := doJSON(r, http.MethodPost, "/attendance/checkout", officeBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data attendance.AttendanceLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, attendance.StatusPresent, resp.Data.Status)
	require.NotNil(t, resp.Data.CheckOutTime)
	assert.Equal(t, "08:55", *resp.Data.CheckOutTime)

	// A second check-out is rejected and the record stays closed.
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, "/attendance/checkout", officeBody()).Code)
	record, _ := h.Store.FindToday("emp001", testNow)
	assert.True(t, record.CheckedOut())
}

func TestCheckOutKeepsFlagFromCheckIn(t *testing.T) {
	r, _ := newTestRouter(t, testEmployee())

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/attendance/checkin", remoteBody()).Code)

	w := doJSON(r, http.MethodPost, "/attendance/checkout", officeBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data attendance.AttendanceLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, attendance.StatusFlagged, resp.Data.Status)
	assert.True(t, resp.Data.Flagged)
}

func TestTodayAndLogsHandlers(t *testing.T) {
	r, _ := newTestRouter(t, testEmployee())

	w := doJSON(r, http.MethodGet, "/attendance/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data": null}`, w.Body.String())

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/attendance/checkin", officeBody()).Code)

	w = doJSON(r, http.MethodGet, "/attendance/logs?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []attendance.AttendanceLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "emp001", resp.Data[0].UserID)
}

func TestInsightHandlerFallsBackWhenDisabled(t *testing.T) {
	r, _ := newTestRouter(t, testEmployee())

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/attendance/checkin", officeBody()).Code)

	w := doJSON(r, http.MethodGet, "/attendance/insight", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Insight string `json:"insight"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, insight.Fallback, resp.Data.Insight)
}

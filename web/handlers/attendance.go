package handlers

import (
	"net/http"
	"strconv"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/reporting"
	"bluemark.com/bluemark/web/common"
	"github.com/gin-gonic/gin"
)

// CheckRequest is the geolocation reading sent by the client. Pointers so a
// reading on the equator or meridian still passes required.
type CheckRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

func (r CheckRequest) coordinates() attendance.Coordinates {
	return attendance.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

// CheckInHandler creates today's record. A missing or invalid reading aborts
// before any state is touched; an existing record for today is a conflict.
func (h *Handler) CheckInHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		var req CheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		now := h.Now()
		if _, exists := h.Store.FindToday(user.ID, now); exists {
			c.JSON(http.StatusConflict, common.NewErrorResponse(attendance.ErrAlreadyCheckedIn.Error()))
			return
		}

		coords := req.coordinates()
		record := attendance.EvaluateCheckIn(user, now, coords, h.Settings)
		h.Store.Append(record)

		// Dispatched after the local mutation; completion is never awaited.
		h.Sink.Notify(
			reporting.NewEvent(user, record.CheckInTime, nil, coords, record.Date),
			reporting.KindCheckIn,
		)

		c.JSON(http.StatusOK, common.NewSuccessResponse(record))
	}
}

// CheckOutHandler closes today's record.
func (h *Handler) CheckOutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		var req CheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		now := h.Now()
		existing, exists := h.Store.FindToday(user.ID, now)
		if !exists {
			c.JSON(http.StatusConflict, common.NewErrorResponse(attendance.ErrNotCheckedIn.Error()))
			return
		}
		if existing.CheckedOut() {
			c.JSON(http.StatusConflict, common.NewErrorResponse(attendance.ErrAlreadyCheckedOut.Error()))
			return
		}

		coords := req.coordinates()
		update := attendance.EvaluateCheckOut(existing, now, coords, h.Settings)
		h.Store.UpdateByID(existing.ID, update)

		h.Sink.Notify(
			reporting.NewEvent(user, existing.CheckInTime, update.CheckOutTime, coords, existing.Date),
			reporting.KindCheckOut,
		)

		record, _ := h.Store.FindToday(user.ID, now)
		c.JSON(http.StatusOK, common.NewSuccessResponse(record))
	}
}

// TodayHandler returns today's record for the caller, or null.
func (h *Handler) TodayHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		record, exists := h.Store.FindToday(user.ID, h.Now())
		if !exists {
			c.JSON(http.StatusOK, common.NewSuccessResponse(nil))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(record))
	}
}

// LogsHandler returns the caller's records, newest first.
func (h *Handler) LogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		logs := h.Store.ForUser(user.ID)
		if limitStr := c.Query("limit"); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, common.NewErrorResponse("limit must be a non-negative integer"))
				return
			}
			if limit < len(logs) {
				logs = logs[:limit]
			}
		}

		c.JSON(http.StatusOK, common.NewSuccessResponse(logs))
	}
}

// InsightHandler returns the decorative punctuality sentence. Provider
// failures degrade to the static fallback inside the provider itself.
func (h *Handler) InsightHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		text := h.Insight.Summarize(c.Request.Context(), h.Store.ForUser(user.ID), user.Name)
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"insight": text}))
	}
}

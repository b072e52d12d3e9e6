package attendance

import (
	"time"

	"bluemark.com/bluemark/core/geo"
	"bluemark.com/bluemark/utils"
	"github.com/google/uuid"
)

// Coordinates is a single geolocation reading.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LogUpdate carries a partial update for an existing record. Nil fields are
// left untouched by Store.UpdateByID.
type LogUpdate struct {
	CheckOutTime    *string  `json:"checkOutTime,omitempty"`
	CheckOutLat     *float64 `json:"checkOutLat,omitempty"`
	CheckOutLng     *float64 `json:"checkOutLng,omitempty"`
	CheckOutAddress *string  `json:"checkOutAddress,omitempty"`
	Status          *Status  `json:"status,omitempty"`
	Flagged         *bool    `json:"flagged,omitempty"`
	Reason          *string  `json:"reason,omitempty"`
}

// EvaluateCheckIn builds the new record for a user with no record yet today.
// The check-in is flagged when the reading falls strictly outside the office
// radius; a distance exactly equal to the radius counts as within.
func EvaluateCheckIn(user User, now time.Time, coords Coordinates, settings CompanySettings) AttendanceLog {
	outOfRadius := !geo.WithinRadius(
		coords.Latitude, coords.Longitude,
		settings.OfficeLat, settings.OfficeLng,
		settings.AllowedRadiusMeters,
	)

	status := StatusPartial
	address := LocationOffice
	if outOfRadius {
		status = StatusFlagged
		address = LocationRemote
	}

	return AttendanceLog{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		UserName:       user.Name,
		Date:           now.Format(time.RFC3339),
		CheckInTime:    utils.Ptr(utils.FormatClock(now)),
		CheckInLat:     utils.Ptr(coords.Latitude),
		CheckInLng:     utils.Ptr(coords.Longitude),
		CheckInAddress: utils.Ptr(address),
		Status:         status,
		Flagged:        outOfRadius,
	}
}

// EvaluateCheckOut builds the closing update for today's record. The flag is
// monotonic across the day: a record flagged at check-in stays flagged even
// when the check-out reading is within radius. The Flagged boolean is
// recomputed from the final status so the two can never diverge.
func EvaluateCheckOut(existing AttendanceLog, now time.Time, coords Coordinates, settings CompanySettings) LogUpdate {
	outOfRadius := !geo.WithinRadius(
		coords.Latitude, coords.Longitude,
		settings.OfficeLat, settings.OfficeLng,
		settings.AllowedRadiusMeters,
	)

	status := StatusPresent
	address := LocationOffice
	if outOfRadius {
		address = LocationRemote
	}
	if existing.Flagged || outOfRadius {
		status = StatusFlagged
	}

	return LogUpdate{
		CheckOutTime:    utils.Ptr(utils.FormatClock(now)),
		CheckOutLat:     utils.Ptr(coords.Latitude),
		CheckOutLng:     utils.Ptr(coords.Longitude),
		CheckOutAddress: utils.Ptr(address),
		Status:          utils.Ptr(status),
		Flagged:         utils.Ptr(status == StatusFlagged),
	}
}

package attendance

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

type Status string

const (
	StatusPresent  Status = "Present"
	StatusPartial  Status = "Partial"
	StatusAbsent   Status = "Absent"
	StatusFlagged  Status = "Flagged"
	StatusApproved Status = "Approved"
)

// Check-in/check-out location labels shown to the user.
const (
	LocationOffice = "Office Premises"
	LocationRemote = "Remote Area"
)

// User is the canonical identity shape produced by the identity boundary.
// Immutable once loaded for a session.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	Avatar     string `json:"avatar"`
}

// CompanySettings holds the office geofence and the nominal work hours.
// The work hours are informational only and are not enforced anywhere.
type CompanySettings struct {
	OfficeLat           float64 `json:"officeLat" yaml:"office_lat"`
	OfficeLng           float64 `json:"officeLng" yaml:"office_lng"`
	AllowedRadiusMeters float64 `json:"allowedRadiusMeters" yaml:"allowed_radius_meters"`
	WorkStartTime       string  `json:"workStartTime" yaml:"work_start_time"`
	WorkEndTime         string  `json:"workEndTime" yaml:"work_end_time"`
}

// AttendanceLog is one employee-day attendance record. Check-in fields are set
// exactly once at creation; check-out fields exactly once by the following
// check-out. Date carries a full RFC3339 timestamp but only its YYYY-MM-DD
// prefix is significant for today lookups.
type AttendanceLog struct {
	ID              string   `json:"id"`
	UserID          string   `json:"userId"`
	UserName        string   `json:"userName"`
	Date            string   `json:"date"`
	CheckInTime     *string  `json:"checkInTime"`
	CheckOutTime    *string  `json:"checkOutTime"`
	CheckInLat      *float64 `json:"checkInLat"`
	CheckInLng      *float64 `json:"checkInLng"`
	CheckOutLat     *float64 `json:"checkOutLat"`
	CheckOutLng     *float64 `json:"checkOutLng"`
	CheckInAddress  *string  `json:"checkInAddress"`
	CheckOutAddress *string  `json:"checkOutAddress"`
	Status          Status   `json:"status"`
	Flagged         bool     `json:"flagged"`
	Reason          string   `json:"reason,omitempty"`
}

// CheckedOut reports whether the day has been closed out.
func (l AttendanceLog) CheckedOut() bool {
	return l.CheckOutTime != nil
}

var DefaultCompanySettings = CompanySettings{
	OfficeLat:           37.7749,
	OfficeLng:           -122.4194,
	AllowedRadiusMeters: 200,
	WorkStartTime:       "09:00",
	WorkEndTime:         "17:00",
}

// SeedLogs is the built-in dataset used when the durable cache is empty or
// unreadable.
func SeedLogs(now time.Time) []AttendanceLog {
	yesterday := now.Add(-24 * time.Hour)
	checkIn := "08:55"
	checkOut := "17:05"
	lat := 37.7748
	lng := -122.4193
	address := "123 Tech Hub, SF"

	return []AttendanceLog{
		{
			ID:              "log1",
			UserID:          "emp001",
			UserName:        "Alex Johnson",
			Date:            yesterday.Format(time.RFC3339),
			CheckInTime:     &checkIn,
			CheckOutTime:    &checkOut,
			CheckInLat:      &lat,
			CheckInLng:      &lng,
			CheckOutLat:     &lat,
			CheckOutLng:     &lng,
			CheckInAddress:  &address,
			CheckOutAddress: &address,
			Status:          StatusPresent,
			Flagged:         false,
		},
	}
}

// Package reporting forwards finalized check-in/check-out events to the
// remote reporting webhook. Delivery is best effort: failures are logged,
// never surfaced, never retried.
package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"bluemark.com/bluemark/core/attendance"
)

type Kind string

const (
	KindCheckIn  Kind = "checkin"
	KindCheckOut Kind = "checkout"
)

// Event is the payload the reporting backend expects. Field names follow its
// sheet columns.
type Event struct {
	Email      string  `json:"Email"`
	Role       string  `json:"Role"`
	Department string  `json:"Department"`
	Name       string  `json:"Name"`
	ClockIn    *string `json:"ClockIn"`
	ClockOut   *string `json:"ClockOut"`
	Location   string  `json:"Location"`
	Date       string  `json:"Date"`
}

// NewEvent builds the payload for a user's record. Location is the raw
// "lat,lng" pair of the triggering reading.
func NewEvent(user attendance.User, clockIn, clockOut *string, coords attendance.Coordinates, date string) Event {
	return Event{
		Email:      user.Email,
		Role:       string(user.Role),
		Department: user.Department,
		Name:       user.Name,
		ClockIn:    clockIn,
		ClockOut:   clockOut,
		Location:   fmt.Sprintf("%v,%v", coords.Latitude, coords.Longitude),
		Date:       date,
	}
}

// Sink posts events to the reporting webhook. Check-in and check-out use
// distinct endpoints.
type Sink struct {
	CheckInURL  string
	CheckOutURL string
	HTTPClient  *http.Client
}

func NewSink(checkInURL, checkOutURL string) *Sink {
	return &Sink{
		CheckInURL:  checkInURL,
		CheckOutURL: checkOutURL,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify dispatches the event on a detached goroutine. The caller never
// awaits completion; an in-flight notification may be abandoned on shutdown.
func (s *Sink) Notify(event Event, kind Kind) {
	go func() {
		if err := s.NotifySync(context.Background(), event, kind); err != nil {
			log.Printf("reporting: %s notify failed: %v", kind, err)
		}
	}()
}

// NotifySync performs one delivery attempt and reports the outcome.
func (s *Sink) NotifySync(ctx context.Context, event Event, kind Kind) error {
	url := s.CheckInURL
	if kind == KindCheckOut {
		url = s.CheckOutURL
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}

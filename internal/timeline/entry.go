// Package timeline records what happened to a booking and who did it.
package timeline

import "time"

type Kind string

const (
	KindSubmitted       Kind = "BOOKING_SUBMITTED"
	KindStatusChanged   Kind = "STATUS_CHANGED"
	KindProgressUpdated Kind = "PROGRESS_UPDATED"
)

type Entry struct {
	ID         string         `json:"id"`
	BookingID  string         `json:"bookingId"`
	Kind       Kind           `json:"eventType"`
	Summary    string         `json:"summary"`
	Actor      string         `json:"actor"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

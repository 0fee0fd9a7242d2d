package booking

import (
	"context"
	"slices"

	"eventpro/internal/timeline"
)

// Filter narrows List. Zero values match everything.
type Filter struct {
	RequesterEmail string
	Statuses       []Status
}

func (f Filter) Match(b Booking) bool {
	if f.RequesterEmail != "" && b.RequesterEmail != f.RequesterEmail {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, b.Status) {
		return false
	}
	return true
}

// Mutation derives the next value of a booking from its current one along
// with the timeline entry describing the change. Returning an error leaves
// the stored booking untouched.
type Mutation func(current Booking) (Booking, timeline.Entry, error)

type Store interface {
	Create(ctx context.Context, b Booking, e timeline.Entry) error
	Get(ctx context.Context, id string) (Booking, error)
	// List returns newest bookings first.
	List(ctx context.Context, f Filter) ([]Booking, error)
	Update(ctx context.Context, id string, m Mutation) (Booking, error)
	Timeline(ctx context.Context, id string) ([]timeline.Entry, error)
}

package booking

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventpro/internal/timeline"
)

// MemoryStore keeps bookings in process. Every write swaps in a new slice so
// a slice handed out by List is never modified afterwards.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings []Booking
	entries  map[string][]timeline.Entry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]timeline.Entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, b Booking, e timeline.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(b.ID) >= 0 {
		return ValidationError{Code: "BOOKING_EXISTS", Message: "booking id already used"}
	}
	next := make([]Booking, 0, len(s.bookings)+1)
	next = append(next, s.bookings...)
	s.bookings = append(next, b.clone())
	s.appendEntry(b.ID, e)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Booking{}, ErrNotFound
	}
	return s.bookings[i].clone(), nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]Booking, error) {
	s.mu.RLock()
	snapshot := s.bookings
	s.mu.RUnlock()

	out := []Booking{}
	for _, b := range snapshot {
		if f.Match(b) {
			out = append(out, b.clone())
		}
	}
	slices.SortFunc(out, func(a, b Booking) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, m Mutation) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Booking{}, ErrNotFound
	}
	updated, e, err := m(s.bookings[i].clone())
	if err != nil {
		return Booking{}, err
	}
	updated.ID = id
	updated.UpdatedAt = s.now().UTC()

	next := slices.Clone(s.bookings)
	next[i] = updated
	s.bookings = next
	s.appendEntry(id, e)
	return updated.clone(), nil
}

func (s *MemoryStore) Timeline(_ context.Context, id string) ([]timeline.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.indexOf(id) < 0 {
		return nil, ErrNotFound
	}
	return slices.Clone(s.entries[id]), nil
}

func (s *MemoryStore) indexOf(id string) int {
	return slices.IndexFunc(s.bookings, func(b Booking) bool { return b.ID == id })
}

func (s *MemoryStore) appendEntry(id string, e timeline.Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.BookingID = id
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now().UTC()
	}
	s.entries[id] = append(s.entries[id], e)
}

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpro/internal/timeline"
)

func TestMemoryStore_CreateGetList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	older := New("a", validInput(), base)
	newer := New("b", validInput(), base.Add(time.Hour))
	other := validInput()
	other.RequesterEmail = "emily@email.com"
	third := New("c", other, base.Add(2*time.Hour))

	for _, b := range []Booking{older, newer, third} {
		require.NoError(t, s.Create(ctx, b, timeline.Entry{Kind: timeline.KindSubmitted}))
	}
	assert.Error(t, s.Create(ctx, older, timeline.Entry{}))

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := s.List(ctx, Filter{RequesterEmail: "michael@email.com"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Create(ctx, New("a", validInput(), time.Now()), timeline.Entry{Kind: timeline.KindSubmitted}))

	before, err := s.List(ctx, Filter{})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "a", func(cur Booking) (Booking, timeline.Entry, error) {
		next, err := ApplyTransition(cur, ActionAccept)
		return next, timeline.Entry{Kind: timeline.KindStatusChanged}, err
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)
	assert.Equal(t, StatusPending, before[0].Status, "earlier snapshot must not change")

	boom := errors.New("boom")
	_, err = s.Update(ctx, "a", func(cur Booking) (Booking, timeline.Entry, error) {
		return Booking{}, timeline.Entry{}, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)

	entries, err := s.Timeline(ctx, "a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, timeline.KindSubmitted, entries[0].Kind)
	assert.Equal(t, timeline.KindStatusChanged, entries[1].Kind)
	assert.Equal(t, "a", entries[1].BookingID)
	assert.NotEmpty(t, entries[1].ID)

	_, err = s.Update(ctx, "missing", func(cur Booking) (Booking, timeline.Entry, error) { return cur, timeline.Entry{}, nil })
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Timeline(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

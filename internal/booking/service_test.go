package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpro/internal/account"
	"eventpro/internal/notify"
	"eventpro/internal/timeline"
)

type recordingSink struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (r *recordingSink) Notify(_ context.Context, n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingSink) has(level notify.Level, msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notices {
		if n.Level == level && n.Message == msg {
			return true
		}
	}
	return false
}

type failingStore struct{ Store }

func (failingStore) Create(context.Context, Booking, timeline.Entry) error {
	return errors.New("connection refused")
}

var (
	admin    = account.User{ID: "admin-1", Name: "Admin", Email: "admin@events.com", Role: account.RoleAdmin}
	customer = account.User{ID: "user-1", Name: "Michael Chen", Email: "michael@email.com", Role: account.RoleUser}
	stranger = account.User{ID: "user-2", Name: "Emily Davis", Email: "emily@email.com", Role: account.RoleUser}
)

func newTestService(t *testing.T, store Store, opts Options) (*Service, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	if opts.CheckoutURL == "" {
		opts.CheckoutURL = "https://checkout.stripe.com/demo"
	}
	return NewService(store, sink, slog.New(slog.NewTextHandler(io.Discard, nil)), opts), sink
}

func submitInput() Input {
	return Input{
		EventType: EventCorporate,
		EventDate: "2024-08-10",
		Guests:    80,
		Budget:    decimal.NewFromInt(8000),
		Extras:    []ExtraService{ExtraCatering, ExtraMusic},
	}
}

func TestSubmit_FillsRequesterFromAccount(t *testing.T) {
	svc, sink := newTestService(t, NewMemoryStore(), Options{})

	b, err := svc.Submit(context.Background(), customer, submitInput())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "Michael Chen", b.RequesterName)
	assert.Equal(t, "michael@email.com", b.RequesterEmail)
	assert.NotEmpty(t, b.ID)

	require.Eventually(t, func() bool {
		return sink.has(notify.LevelSuccess, "Booking request submitted successfully!")
	}, time.Second, 5*time.Millisecond)
}

func TestSubmit_ValidationErrorStoresNothing(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := newTestService(t, store, Options{})

	in := submitInput()
	in.Guests = 0
	_, err := svc.Submit(context.Background(), customer, in)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "GUESTS_INVALID", ve.Code)

	all, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmit_CancelledDuringDelay(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := newTestService(t, store, Options{SubmitDelay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Submit(ctx, customer, submitInput())
	assert.ErrorIs(t, err, context.Canceled)

	all, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmit_BackendFailureNotifiesError(t *testing.T) {
	svc, sink := newTestService(t, failingStore{NewMemoryStore()}, Options{})

	_, err := svc.Submit(context.Background(), customer, submitInput())
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	require.Eventually(t, func() bool {
		return sink.has(notify.LevelError, "Failed to submit booking. Please try again.")
	}, time.Second, 5*time.Millisecond)
}

func TestDashboard_ScopedByRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewMemoryStore(), Options{})

	_, err := svc.Submit(ctx, customer, submitInput())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, stranger, submitInput())
	require.NoError(t, err)

	mine, err := svc.Dashboard(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, account.RoleUser, mine.Role)
	require.Len(t, mine.Bookings, 1)
	assert.Equal(t, "michael@email.com", mine.Bookings[0].RequesterEmail)

	all, err := svc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Stats.Total)
	assert.Equal(t, 2, all.Stats.Pending)
	assert.True(t, all.Stats.TotalRevenue.IsZero())
}

func TestTransition_AdminLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, sink := newTestService(t, NewMemoryStore(), Options{})

	b, err := svc.Submit(ctx, customer, submitInput())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, customer, b.ID, ActionAccept)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Transition(ctx, admin, b.ID, ActionMarkComplete)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.Eventually(t, func() bool {
		return sink.has(notify.LevelError, "Cannot mark complete a booking that is pending")
	}, time.Second, 5*time.Millisecond)

	got, err := svc.Transition(ctx, admin, b.ID, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)
	require.Eventually(t, func() bool {
		return sink.has(notify.LevelSuccess, "Booking accepted successfully")
	}, time.Second, 5*time.Millisecond)

	got, err = svc.MoveTo(ctx, admin, b.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)

	_, err = svc.MoveTo(ctx, admin, b.ID, StatusPending)
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StatusInProgress, te.From)
	assert.Equal(t, StatusPending, te.To)

	dash, err := svc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.True(t, dash.Stats.TotalRevenue.Equal(decimal.NewFromInt(8000)))

	entries, err := svc.Timeline(ctx, admin, b.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, timeline.KindSubmitted, entries[0].Kind)
	assert.Equal(t, StatusInProgress, entries[2].Data["to"])

	_, err = svc.Timeline(ctx, customer, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateProgress_DoesNotChangeStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewMemoryStore(), Options{})

	b, err := svc.Submit(ctx, customer, submitInput())
	require.NoError(t, err)

	got, err := svc.UpdateProgress(ctx, admin, b.ID, "Venue booked")
	require.NoError(t, err)
	assert.Equal(t, "Venue booked", got.Progress)
	assert.Equal(t, StatusPending, got.Status)

	_, err = svc.UpdateProgress(ctx, customer, b.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.UpdateProgress(ctx, admin, "missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_HidesOtherRequestersBookings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewMemoryStore(), Options{})

	b, err := svc.Submit(ctx, customer, submitInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, admin, b.ID)
	assert.NoError(t, err)
}

func TestPaymentLink(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewMemoryStore(), Options{})

	b, err := svc.Submit(ctx, customer, submitInput())
	require.NoError(t, err)

	_, err = svc.PaymentLink(ctx, customer, b.ID)
	assert.ErrorIs(t, err, ErrNotPayable)

	_, err = svc.Transition(ctx, admin, b.ID, ActionAccept)
	require.NoError(t, err)

	link, err := svc.PaymentLink(ctx, customer, b.ID)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "checkout.stripe.com", u.Host)
	assert.Equal(t, b.ID, u.Query().Get("client_reference_id"))

	got, err := svc.Get(ctx, customer, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status, "payment link must not advance the lifecycle")
}

func TestMoveTo_UnreachableStatusNotifiesAdmin(t *testing.T) {
	ctx := context.Background()
	svc, sink := newTestService(t, NewMemoryStore(), Options{})

	b, err := svc.Submit(ctx, customer, submitInput())
	require.NoError(t, err)

	_, err = svc.MoveTo(ctx, admin, b.ID, StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.Eventually(t, func() bool {
		return sink.has(notify.LevelError, "Cannot move a booking from pending to completed")
	}, time.Second, 5*time.Millisecond)

	got, err := svc.Get(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestSubmit_DisplayNameEmailIsRejected(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := newTestService(t, store, Options{})

	in := submitInput()
	in.RequesterEmail = "Michael Chen <michael@email.com>"
	_, err := svc.Submit(context.Background(), customer, in)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "EMAIL_INVALID", ve.Code)

	in.RequesterEmail = " Michael@Email.com "
	b, err := svc.Submit(context.Background(), customer, in)
	require.NoError(t, err)
	assert.Equal(t, "michael@email.com", b.RequesterEmail)

	dash, err := svc.Dashboard(context.Background(), customer)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Stats.Total)
}

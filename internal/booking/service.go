package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventpro/internal/account"
	"eventpro/internal/notify"
	"eventpro/internal/timeline"
)

var (
	ErrForbidden        = errors.New("admin role required")
	ErrSubmissionFailed = errors.New("booking submission failed")
)

type Options struct {
	// SubmitDelay holds each submission before it is stored. A caller that
	// goes away during the wait gets ctx.Err() and nothing is stored.
	SubmitDelay time.Duration
	CheckoutURL string
}

type Service struct {
	store Store
	sink  notify.Sink
	log   *slog.Logger
	opts  Options

	now   func() time.Time
	newID func() string
}

func NewService(store Store, sink notify.Sink, log *slog.Logger, opts Options) *Service {
	return &Service{
		store: store,
		sink:  sink,
		log:   log,
		opts:  opts,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Dashboard is what a role-specific dashboard renders.
type Dashboard struct {
	Role     account.Role `json:"role"`
	Bookings []Booking    `json:"bookings"`
	Stats    Stats        `json:"stats"`
}

func (s *Service) Submit(ctx context.Context, u account.User, in Input) (Booking, error) {
	if strings.TrimSpace(in.RequesterName) == "" {
		in.RequesterName = u.Name
	}
	if strings.TrimSpace(in.RequesterEmail) == "" {
		in.RequesterEmail = u.Email
	}
	if err := in.Validate(); err != nil {
		return Booking{}, err
	}

	if d := s.opts.SubmitDelay; d > 0 {
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return Booking{}, ctx.Err()
		case <-t.C:
		}
	}

	b := New(s.newID(), in, s.now())
	entry := timeline.Entry{
		Kind:       timeline.KindSubmitted,
		Summary:    "Booking request submitted",
		Actor:      u.Email,
		OccurredAt: b.CreatedAt,
		Data:       map[string]any{"eventType": b.EventType, "budget": b.Budget.String()},
	}
	if err := s.store.Create(ctx, b, entry); err != nil {
		s.log.Error("booking submit failed",
			slog.String("user_id", u.ID),
			slog.String("error", err.Error()),
		)
		s.notify(ctx, notify.Notice{Level: notify.LevelError, Message: "Failed to submit booking. Please try again.", Recipient: u.Email})
		return Booking{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	s.log.Info("booking submitted",
		slog.String("booking_id", b.ID),
		slog.String("user_id", u.ID),
		slog.String("event_type", string(b.EventType)),
	)
	s.notify(ctx, notify.Notice{Level: notify.LevelSuccess, Message: "Booking request submitted successfully!", Recipient: u.Email, BookingID: b.ID})
	return b, nil
}

// Dashboard lists every booking for an admin and the requester's own
// bookings for a customer.
func (s *Service) Dashboard(ctx context.Context, u account.User) (Dashboard, error) {
	var f Filter
	if !u.IsAdmin() {
		f.RequesterEmail = account.NormalizeEmail(u.Email)
	}
	items, err := s.store.List(ctx, f)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list bookings: %w", err)
	}
	return Dashboard{Role: u.Role, Bookings: items, Stats: Aggregate(items)}, nil
}

// Get returns a booking visible to u.
func (s *Service) Get(ctx context.Context, u account.User, id string) (Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if !u.IsAdmin() && b.RequesterEmail != account.NormalizeEmail(u.Email) {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

func (s *Service) Transition(ctx context.Context, actor account.User, id string, a Action) (Booking, error) {
	if !actor.IsAdmin() {
		return Booking{}, ErrForbidden
	}

	var from Status
	b, err := s.store.Update(ctx, id, func(cur Booking) (Booking, timeline.Entry, error) {
		from = cur.Status
		next, err := ApplyTransition(cur, a)
		if err != nil {
			return Booking{}, timeline.Entry{}, err
		}
		return next, timeline.Entry{
			Kind:    timeline.KindStatusChanged,
			Summary: "Status changed",
			Actor:   actor.Email,
			Data:    map[string]any{"from": cur.Status, "to": next.Status, "action": a},
		}, nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			s.rejectTransition(ctx, actor, id, err)
		}
		return Booking{}, err
	}

	s.log.Info("booking status changed",
		slog.String("booking_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(b.Status)),
		slog.String("actor", actor.Email),
	)
	s.notify(ctx, notify.Notice{
		Level:     notify.LevelSuccess,
		Message:   fmt.Sprintf("Booking %s successfully", b.Status),
		Recipient: actor.Email,
		BookingID: id,
	})
	return b, nil
}

// MoveTo drives the booking to status to, provided a single action gets it
// there from wherever it currently is.
func (s *Service) MoveTo(ctx context.Context, actor account.User, id string, to Status) (Booking, error) {
	if !actor.IsAdmin() {
		return Booking{}, ErrForbidden
	}
	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	a, ok := ActionFor(cur.Status, to)
	if !ok {
		err := &TransitionError{From: cur.Status, To: to}
		s.rejectTransition(ctx, actor, id, err)
		return Booking{}, err
	}
	return s.Transition(ctx, actor, id, a)
}

// rejectTransition logs a refused lifecycle move and tells the admin why.
func (s *Service) rejectTransition(ctx context.Context, actor account.User, id string, err error) {
	attrs := []any{slog.String("booking_id", id), slog.String("actor", actor.Email)}
	var te *TransitionError
	if errors.As(err, &te) {
		attrs = append(attrs,
			slog.String("from", string(te.From)),
			slog.String("action", string(te.Action)),
			slog.String("to", string(te.To)),
		)
	}
	s.log.Warn("booking transition rejected", attrs...)
	s.notify(ctx, notify.Notice{Level: notify.LevelError, Message: capitalize(err.Error()), Recipient: actor.Email, BookingID: id})
}

func (s *Service) UpdateProgress(ctx context.Context, actor account.User, id, text string) (Booking, error) {
	if !actor.IsAdmin() {
		return Booking{}, ErrForbidden
	}
	b, err := s.store.Update(ctx, id, func(cur Booking) (Booking, timeline.Entry, error) {
		next := SetProgress(cur, text)
		return next, timeline.Entry{
			Kind:    timeline.KindProgressUpdated,
			Summary: "Progress updated",
			Actor:   actor.Email,
			Data:    map[string]any{"progress": next.Progress},
		}, nil
	})
	if err != nil {
		return Booking{}, err
	}
	s.log.Info("booking progress updated", slog.String("booking_id", id), slog.String("actor", actor.Email))
	s.notify(ctx, notify.Notice{Level: notify.LevelSuccess, Message: "Progress updated successfully", Recipient: actor.Email, BookingID: id})
	return b, nil
}

func (s *Service) Timeline(ctx context.Context, actor account.User, id string) ([]timeline.Entry, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.store.Timeline(ctx, id)
}

// PaymentLink returns the checkout URL for a booking the requester may pay for.
func (s *Service) PaymentLink(ctx context.Context, u account.User, id string) (string, error) {
	b, err := s.Get(ctx, u, id)
	if err != nil {
		return "", err
	}
	if !b.Payable() {
		return "", ErrNotPayable
	}
	link, err := url.Parse(s.opts.CheckoutURL)
	if err != nil {
		return "", fmt.Errorf("checkout url: %w", err)
	}
	q := link.Query()
	q.Set("client_reference_id", b.ID)
	link.RawQuery = q.Encode()
	return link.String(), nil
}

func (s *Service) notify(ctx context.Context, n notify.Notice) {
	if s.sink == nil {
		return
	}
	if n.At.IsZero() {
		n.At = s.now().UTC()
	}
	go s.sink.Notify(context.WithoutCancel(ctx), n)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validInput() Input {
	return Input{
		RequesterName:  "Michael Chen",
		RequesterEmail: "Michael@Email.com",
		EventType:      EventCorporate,
		EventDate:      "2024-08-10",
		EventTime:      "18:30",
		Guests:         80,
		Budget:         decimal.NewFromInt(8000),
		Extras:         []ExtraService{ExtraMusic, ExtraCatering, ExtraMusic},
		CustomIdeas:    "  Product showcase ",
	}
}

func TestNew_StartsPending(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b := New("id-1", validInput(), now)

	if b.Status != StatusPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	if b.RequesterEmail != "michael@email.com" {
		t.Fatalf("expected normalized email, got %s", b.RequesterEmail)
	}
	if len(b.Extras) != 2 || b.Extras[0] != ExtraCatering || b.Extras[1] != ExtraMusic {
		t.Fatalf("expected sorted unique extras, got %v", b.Extras)
	}
	if b.CustomIdeas != "Product showcase" {
		t.Fatalf("expected trimmed ideas, got %q", b.CustomIdeas)
	}
	if !b.CreatedAt.Equal(now) || !b.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: %v %v", b.CreatedAt, b.UpdatedAt)
	}
}

func TestNew_NoExtrasIsEmptyNotNil(t *testing.T) {
	in := validInput()
	in.Extras = nil
	if b := New("id", in, time.Now()); b.Extras == nil {
		t.Fatalf("expected empty extras slice")
	}
}

func TestInputValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
		code   string
	}{
		{"ok", func(*Input) {}, ""},
		{"no name", func(in *Input) { in.RequesterName = " " }, "NAME_REQUIRED"},
		{"bad email", func(in *Input) { in.RequesterEmail = "nope" }, "EMAIL_INVALID"},
		{"negative age", func(in *Input) { in.RequesterAge = -1 }, "AGE_INVALID"},
		{"event type", func(in *Input) { in.EventType = "Rave" }, "EVENT_TYPE_INVALID"},
		{"date", func(in *Input) { in.EventDate = "10/08/2024" }, "DATE_INVALID"},
		{"time", func(in *Input) { in.EventTime = "6pm" }, "TIME_INVALID"},
		{"guests", func(in *Input) { in.Guests = 0 }, "GUESTS_INVALID"},
		{"budget", func(in *Input) { in.Budget = decimal.Zero }, "BUDGET_INVALID"},
		{"extra", func(in *Input) { in.Extras = []ExtraService{"fireworks"} }, "EXTRA_INVALID"},
		{"display name email", func(in *Input) { in.RequesterEmail = "Michael Chen <michael@email.com>" }, "EMAIL_INVALID"},
		{"padded email", func(in *Input) { in.RequesterEmail = "  michael@email.com " }, ""},
		{"age too high", func(in *Input) { in.RequesterAge = MaxAge + 1 }, "AGE_INVALID"},
		{"too many guests", func(in *Input) { in.Guests = MaxGuests + 1 }, "GUESTS_INVALID"},
		{"max guests", func(in *Input) { in.Guests = MaxGuests }, ""},
		{"budget scale", func(in *Input) { in.Budget = decimal.RequireFromString("12345.678") }, "BUDGET_INVALID"},
		{"budget trailing zero", func(in *Input) { in.Budget = decimal.RequireFromString("12345.670") }, ""},
		{"budget ceiling", func(in *Input) { in.Budget = MaxBudget }, "BUDGET_INVALID"},
		{"budget below ceiling", func(in *Input) { in.Budget = decimal.RequireFromString("999999999999.99") }, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := in.Validate()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) || ve.Code != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestSetProgress_KeepsStatus(t *testing.T) {
	b := pendingBooking()
	b.Status = StatusInProgress

	next := SetProgress(b, " Venue booked ")
	if next.Progress != "Venue booked" {
		t.Fatalf("unexpected progress %q", next.Progress)
	}
	if next.Status != StatusInProgress {
		t.Fatalf("status changed to %s", next.Status)
	}
	if b.Progress != "" {
		t.Fatalf("input was modified")
	}
}

func TestPayable(t *testing.T) {
	for s, want := range map[Status]bool{
		StatusPending:    false,
		StatusAccepted:   true,
		StatusRejected:   false,
		StatusInProgress: true,
		StatusCompleted:  false,
	} {
		b := Booking{Status: s}
		if b.Payable() != want {
			t.Fatalf("%s: expected payable=%v", s, want)
		}
	}
}

func TestTransitionError_ReadableMessage(t *testing.T) {
	err := &TransitionError{From: StatusInProgress, Action: ActionStartPlanning}
	if got := err.Error(); got != "cannot start planning a booking that is in progress" {
		t.Fatalf("unexpected message %q", got)
	}
	err = &TransitionError{From: StatusPending, To: StatusInProgress}
	if got := err.Error(); got != "cannot move a booking from pending to in progress" {
		t.Fatalf("unexpected message %q", got)
	}
}

package booking

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	MaxAge    = 150
	MaxGuests = 100000
	// BudgetScale is the number of decimal places a budget may carry.
	BudgetScale = 2
)

// MaxBudget is the exclusive upper bound on a budget (NUMERIC(14,2)).
var MaxBudget = decimal.New(1, 12)

type EventType string

const (
	EventWedding           EventType = "Wedding"
	EventBirthdayParty     EventType = "Birthday Party"
	EventCorporate         EventType = "Corporate Event"
	EventAnniversary       EventType = "Anniversary"
	EventBabyShower        EventType = "Baby Shower"
	EventGraduationParty   EventType = "Graduation Party"
	EventReligiousCeremony EventType = "Religious Ceremony"
	EventOther             EventType = "Other"
)

var EventTypes = []EventType{
	EventWedding, EventBirthdayParty, EventCorporate, EventAnniversary,
	EventBabyShower, EventGraduationParty, EventReligiousCeremony, EventOther,
}

type ExtraService string

const (
	ExtraCatering       ExtraService = "catering"
	ExtraDecoration     ExtraService = "decoration"
	ExtraPhotography    ExtraService = "photography"
	ExtraMusic          ExtraService = "music"
	ExtraSecurity       ExtraService = "security"
	ExtraTransportation ExtraService = "transportation"
)

var ExtraServices = []ExtraService{
	ExtraCatering, ExtraDecoration, ExtraPhotography, ExtraMusic, ExtraSecurity, ExtraTransportation,
}

// Booking is one customer's event request. Requester fields are copied from
// the submitting account rather than referencing it.
type Booking struct {
	ID             string          `json:"id"`
	RequesterName  string          `json:"requesterName"`
	RequesterEmail string          `json:"requesterEmail"`
	RequesterAge   int             `json:"requesterAge,omitempty"`
	EventType      EventType       `json:"eventType"`
	EventDate      string          `json:"eventDate"`
	EventTime      string          `json:"eventTime,omitempty"`
	Guests         int             `json:"guests"`
	Budget         decimal.Decimal `json:"budget"`
	Extras         []ExtraService  `json:"extras"`
	CustomIdeas    string          `json:"customIdeas,omitempty"`
	Progress       string          `json:"progress,omitempty"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (b Booking) clone() Booking {
	b.Extras = slices.Clone(b.Extras)
	return b
}

// Payable reports whether the requester may be sent to checkout. Paying does
// not move the booking along the lifecycle.
func (b Booking) Payable() bool {
	return b.Status == StatusAccepted || b.Status == StatusInProgress
}

// SetProgress attaches a free-text progress note. The status is untouched.
func SetProgress(b Booking, text string) Booking {
	next := b.clone()
	next.Progress = strings.TrimSpace(text)
	return next
}

// Input is what a customer submits through the booking form.
type Input struct {
	RequesterName  string          `json:"name"`
	RequesterEmail string          `json:"email"`
	RequesterAge   int             `json:"age,omitempty"`
	EventType      EventType       `json:"eventType"`
	EventDate      string          `json:"date"`
	EventTime      string          `json:"time,omitempty"`
	Guests         int             `json:"guests"`
	Budget         decimal.Decimal `json:"budget"`
	Extras         []ExtraService  `json:"extras"`
	CustomIdeas    string          `json:"customIdeas,omitempty"`
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.RequesterName) == "" {
		return ValidationError{Code: "NAME_REQUIRED", Message: "requester name is required"}
	}
	// A bare address only; display-name forms would not match the account email.
	email := strings.TrimSpace(in.RequesterEmail)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return ValidationError{Code: "EMAIL_INVALID", Message: "requester email is invalid"}
	}
	if in.RequesterAge < 0 || in.RequesterAge > MaxAge {
		return ValidationError{Code: "AGE_INVALID", Message: fmt.Sprintf("age must be between 0 and %d", MaxAge)}
	}
	if !slices.Contains(EventTypes, in.EventType) {
		return ValidationError{Code: "EVENT_TYPE_INVALID", Message: "unknown event type"}
	}
	if _, err := time.Parse(DateLayout, in.EventDate); err != nil {
		return ValidationError{Code: "DATE_INVALID", Message: "date must be YYYY-MM-DD"}
	}
	if in.EventTime != "" {
		if _, err := time.Parse(TimeLayout, in.EventTime); err != nil {
			return ValidationError{Code: "TIME_INVALID", Message: "time must be HH:MM"}
		}
	}
	if in.Guests <= 0 || in.Guests > MaxGuests {
		return ValidationError{Code: "GUESTS_INVALID", Message: fmt.Sprintf("guest count must be between 1 and %d", MaxGuests)}
	}
	if !in.Budget.IsPositive() || in.Budget.GreaterThanOrEqual(MaxBudget) {
		return ValidationError{Code: "BUDGET_INVALID", Message: "budget must be > 0 and below " + MaxBudget.String()}
	}
	if !in.Budget.Equal(in.Budget.Round(BudgetScale)) {
		return ValidationError{Code: "BUDGET_INVALID", Message: "budget must have at most 2 decimal places"}
	}
	for _, e := range in.Extras {
		if !slices.Contains(ExtraServices, e) {
			return ValidationError{Code: "EXTRA_INVALID", Message: "unknown extra service: " + string(e)}
		}
	}
	return nil
}

// New builds a pending booking from validated input.
func New(id string, in Input, now time.Time) Booking {
	extras := slices.Clone(in.Extras)
	slices.Sort(extras)
	extras = slices.Compact(extras)
	if extras == nil {
		extras = []ExtraService{}
	}

	now = now.UTC()
	return Booking{
		ID:             id,
		RequesterName:  strings.TrimSpace(in.RequesterName),
		RequesterEmail: strings.ToLower(strings.TrimSpace(in.RequesterEmail)),
		RequesterAge:   in.RequesterAge,
		EventType:      in.EventType,
		EventDate:      in.EventDate,
		EventTime:      in.EventTime,
		Guests:         in.Guests,
		Budget:         in.Budget,
		Extras:         extras,
		CustomIdeas:    strings.TrimSpace(in.CustomIdeas),
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

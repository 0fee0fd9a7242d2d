// Package demo loads sample bookings for local development.
package demo

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"eventpro/internal/booking"
	"eventpro/internal/timeline"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

const actor = "seed"

type Fixtures struct {
	Bookings []Booking `yaml:"bookings"`
}

type Booking struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Email       string   `yaml:"email"`
	Age         int      `yaml:"age"`
	EventType   string   `yaml:"eventType"`
	Date        string   `yaml:"date"`
	Time        string   `yaml:"time"`
	Guests      int      `yaml:"guests"`
	Budget      string   `yaml:"budget"`
	Extras      []string `yaml:"extras"`
	CustomIdeas string   `yaml:"customIdeas"`
	Progress    string   `yaml:"progress"`
	Status      string   `yaml:"status"`
}

func Default() (Fixtures, error) {
	return Load(bytes.NewReader(defaultFixtures))
}

func Load(r io.Reader) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return f, nil
}

// Apply stores every fixture that is not already present and returns how
// many were created. Each booking starts pending and is walked to its target
// status one action at a time.
func Apply(ctx context.Context, store booking.Store, f Fixtures, now time.Time) (int, error) {
	created := 0
	for i, fb := range f.Bookings {
		if _, err := store.Get(ctx, fb.ID); err == nil {
			continue
		} else if !errors.Is(err, booking.ErrNotFound) {
			return created, fmt.Errorf("lookup %s: %w", fb.ID, err)
		}

		b, target, err := fb.build(now.Add(time.Duration(i) * time.Second))
		if err != nil {
			return created, fmt.Errorf("fixture %d: %w", i, err)
		}
		if err := store.Create(ctx, b, timeline.Entry{
			Kind:    timeline.KindSubmitted,
			Summary: "Booking request submitted",
			Actor:   actor,
		}); err != nil {
			return created, fmt.Errorf("create %s: %w", b.ID, err)
		}
		if err := advance(ctx, store, b.ID, target); err != nil {
			return created, err
		}
		if fb.Progress != "" {
			if _, err := store.Update(ctx, b.ID, func(cur booking.Booking) (booking.Booking, timeline.Entry, error) {
				return booking.SetProgress(cur, fb.Progress), timeline.Entry{
					Kind:    timeline.KindProgressUpdated,
					Summary: "Progress updated",
					Actor:   actor,
				}, nil
			}); err != nil {
				return created, fmt.Errorf("progress %s: %w", b.ID, err)
			}
		}
		created++
	}
	return created, nil
}

func (fb Booking) build(now time.Time) (booking.Booking, booking.Status, error) {
	target, err := booking.ParseStatus(fb.Status)
	if err != nil {
		return booking.Booking{}, "", err
	}
	budget, err := decimal.NewFromString(fb.Budget)
	if err != nil {
		return booking.Booking{}, "", fmt.Errorf("budget: %w", err)
	}
	extras := make([]booking.ExtraService, 0, len(fb.Extras))
	for _, e := range fb.Extras {
		extras = append(extras, booking.ExtraService(e))
	}
	in := booking.Input{
		RequesterName:  fb.Name,
		RequesterEmail: fb.Email,
		RequesterAge:   fb.Age,
		EventType:      booking.EventType(fb.EventType),
		EventDate:      fb.Date,
		EventTime:      fb.Time,
		Guests:         fb.Guests,
		Budget:         budget,
		Extras:         extras,
		CustomIdeas:    fb.CustomIdeas,
	}
	if err := in.Validate(); err != nil {
		return booking.Booking{}, "", err
	}
	if fb.ID == "" {
		return booking.Booking{}, "", errors.New("id is required")
	}
	return booking.New(fb.ID, in, now), target, nil
}

// path lists the actions leading from pending to target.
func path(target booking.Status) ([]booking.Action, error) {
	switch target {
	case booking.StatusPending:
		return nil, nil
	case booking.StatusAccepted:
		return []booking.Action{booking.ActionAccept}, nil
	case booking.StatusRejected:
		return []booking.Action{booking.ActionReject}, nil
	case booking.StatusInProgress:
		return []booking.Action{booking.ActionAccept, booking.ActionStartPlanning}, nil
	case booking.StatusCompleted:
		return []booking.Action{booking.ActionAccept, booking.ActionStartPlanning, booking.ActionMarkComplete}, nil
	}
	return nil, fmt.Errorf("unknown status: %s", target)
}

func advance(ctx context.Context, store booking.Store, id string, target booking.Status) error {
	actions, err := path(target)
	if err != nil {
		return err
	}
	for _, a := range actions {
		_, err := store.Update(ctx, id, func(cur booking.Booking) (booking.Booking, timeline.Entry, error) {
			next, err := booking.ApplyTransition(cur, a)
			if err != nil {
				return booking.Booking{}, timeline.Entry{}, err
			}
			return next, timeline.Entry{
				Kind:    timeline.KindStatusChanged,
				Summary: "Status changed",
				Actor:   actor,
				Data:    map[string]any{"from": cur.Status, "to": next.Status, "action": a},
			}, nil
		})
		if err != nil {
			return fmt.Errorf("advance %s: %w", id, err)
		}
	}
	return nil
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"eventpro/internal/audit"
	"eventpro/internal/timeline"
	"eventpro/pkg/db"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

const bookingColumns = `
id::text, requester_name, requester_email, requester_age, event_type, to_char(event_date, 'YYYY-MM-DD'), event_time,
guests, budget::text, extras, custom_ideas, progress, status, created_at, updated_at
`

func scanBooking(row pgx.Row) (Booking, error) {
	var (
		b      Booking
		age    *int
		kind   string
		budget string
		extras []string
		status string
	)
	if err := row.Scan(
		&b.ID, &b.RequesterName, &b.RequesterEmail, &age, &kind, &b.EventDate, &b.EventTime,
		&b.Guests, &budget, &extras, &b.CustomIdeas, &b.Progress, &status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, err
	}
	if age != nil {
		b.RequesterAge = *age
	}
	b.EventType = EventType(kind)
	b.Status = Status(status)

	amount, err := decimal.NewFromString(budget)
	if err != nil {
		return Booking{}, fmt.Errorf("booking %s budget: %w", b.ID, err)
	}
	b.Budget = amount

	b.Extras = make([]ExtraService, 0, len(extras))
	for _, e := range extras {
		b.Extras = append(b.Extras, ExtraService(e))
	}
	return b, nil
}

func extrasParam(extras []ExtraService) []string {
	out := make([]string, 0, len(extras))
	for _, e := range extras {
		out = append(out, string(e))
	}
	return out
}

func (s *PostgresStore) Create(ctx context.Context, b Booking, e timeline.Entry) error {
	return db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var age *int
		if b.RequesterAge > 0 {
			age = &b.RequesterAge
		}
		const q = `
INSERT INTO bookings (id, requester_name, requester_email, requester_age, event_type, event_date, event_time,
                      guests, budget, extras, custom_ideas, progress, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9::numeric, $10, $11, $12, $13, $14, $15)
`
		if _, err := tx.Exec(ctx, q,
			b.ID, b.RequesterName, b.RequesterEmail, age, string(b.EventType), b.EventDate, b.EventTime,
			b.Guests, b.Budget.String(), extrasParam(b.Extras), b.CustomIdeas, b.Progress, string(b.Status),
			b.CreatedAt, b.UpdatedAt,
		); err != nil {
			return err
		}
		return s.record(ctx, tx, b.ID, e)
	})
}

// bookingID rejects ids the uuid column could never hold, so a malformed
// path parameter reads as a missing booking rather than a query failure.
func bookingID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrNotFound
	}
	return u.String(), nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Booking, error) {
	id, err := bookingID(id)
	if err != nil {
		return Booking{}, err
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(s.db.QueryRow(ctx, q, id))
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Booking, error) {
	statuses := []string{}
	for _, st := range f.Statuses {
		statuses = append(statuses, string(st))
	}
	q := `SELECT ` + bookingColumns + `
FROM bookings
WHERE ($1 = '' OR requester_email = $1)
  AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
ORDER BY created_at DESC, id ASC
`
	rows, err := s.db.Query(ctx, q, f.RequesterEmail, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, id string, m Mutation) (Booking, error) {
	id, err := bookingID(id)
	if err != nil {
		return Booking{}, err
	}
	var updated Booking
	err = db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
		current, err := scanBooking(tx.QueryRow(ctx, q, id))
		if err != nil {
			return err
		}

		next, e, err := m(current)
		if err != nil {
			return err
		}
		next.ID = id
		next.UpdatedAt = time.Now().UTC()

		const qUpdate = `
UPDATE bookings
SET status = $1, progress = $2, updated_at = $3
WHERE id = $4
`
		if _, err := tx.Exec(ctx, qUpdate, string(next.Status), next.Progress, next.UpdatedAt, id); err != nil {
			return err
		}
		if err := s.record(ctx, tx, id, e); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return Booking{}, err
	}
	return updated, nil
}

func (s *PostgresStore) Timeline(ctx context.Context, id string) ([]timeline.Entry, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return timeline.ListByBooking(ctx, s.db, b.ID)
}

var auditActions = map[timeline.Kind]string{
	timeline.KindSubmitted:       audit.ActionBookingSubmitted,
	timeline.KindStatusChanged:   audit.ActionStatusChanged,
	timeline.KindProgressUpdated: audit.ActionProgressUpdated,
}

func (s *PostgresStore) record(ctx context.Context, tx pgx.Tx, id string, e timeline.Entry) error {
	e.BookingID = id
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := timeline.Insert(ctx, tx, e); err != nil {
		return fmt.Errorf("timeline: %w", err)
	}
	action, ok := auditActions[e.Kind]
	if !ok {
		return fmt.Errorf("audit: no action for %s", e.Kind)
	}
	if err := audit.Insert(ctx, tx, &id, action, e.Actor, e.Data); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

package timeline

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Insert appends e inside tx so the entry commits with the change it describes.
func Insert(ctx context.Context, tx pgx.Tx, e Entry) error {
	var data *string
	if e.Data != nil {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return err
		}
		s := string(b)
		data = &s
	}
	const q = `
INSERT INTO booking_events (booking_id, event_type, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := tx.Exec(ctx, q, e.BookingID, string(e.Kind), e.Summary, e.Actor, e.OccurredAt, data)
	return err
}

func ListByBooking(ctx context.Context, db Querier, bookingID string) ([]Entry, error) {
	const q = `
SELECT id::text, booking_id::text, event_type, summary, actor, occurred_at, COALESCE(data, '{}'::jsonb)
FROM booking_events
WHERE booking_id = $1
ORDER BY occurred_at ASC, created_at ASC
`
	rows, err := db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var kind string
		var raw []byte
		if err := rows.Scan(&e.ID, &e.BookingID, &kind, &e.Summary, &e.Actor, &e.OccurredAt, &raw); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Data); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

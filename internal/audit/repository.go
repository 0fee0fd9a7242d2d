package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

const (
	ActionBookingSubmitted = "BOOKING_SUBMITTED"
	ActionStatusChanged    = "STATUS_CHANGED"
	ActionProgressUpdated  = "PROGRESS_UPDATED"
	ActionAccountCreated   = "ACCOUNT_CREATED"
)

// Insert writes an audit row within tx. bookingID is nil for account-level actions.
func Insert(ctx context.Context, tx pgx.Tx, bookingID *string, action, actor string, metadata any) error {
	var s *string
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (booking_id, action, actor, metadata)
VALUES ($1, $2, $3, CAST($4 AS jsonb))
`
	_, err := tx.Exec(ctx, q, bookingID, action, actor, s)
	return err
}

// Package notify delivers short user-facing notices. Delivery is best
// effort: senders never wait for or observe the outcome.
package notify

import (
	"context"
	"log/slog"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Recipient string    `json:"recipient,omitempty"`
	BookingID string    `json:"bookingId,omitempty"`
	At        time.Time `json:"at"`
}

type Sink interface {
	Notify(ctx context.Context, n Notice)
}

// LogSink writes notices to a logger.
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) Notify(ctx context.Context, n Notice) {
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	s.Log.LogAttrs(ctx, level, "notice",
		slog.String("notice_level", string(n.Level)),
		slog.String("message", n.Message),
		slog.String("recipient", n.Recipient),
		slog.String("booking_id", n.BookingID),
	)
}

// Multi fans a notice out to every sink.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n Notice) {
	for _, s := range m {
		s.Notify(ctx, n)
	}
}

package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureSink struct{ got []Notice }

func (c *captureSink) Notify(_ context.Context, n Notice) { c.got = append(c.got, n) }

func TestMulti_FansOut(t *testing.T) {
	a, b := &captureSink{}, &captureSink{}
	n := Notice{Level: LevelSuccess, Message: "Booking accepted successfully"}

	Multi{a, b}.Notify(context.Background(), n)

	assert.Equal(t, []Notice{n}, a.got)
	assert.Equal(t, []Notice{n}, b.got)
}

func TestLogSink_ErrorNoticesLogAtWarn(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Log: slog.New(slog.NewTextHandler(&buf, nil))}

	sink.Notify(context.Background(), Notice{Level: LevelError, Message: "Failed to submit booking", BookingID: "b-1"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "booking_id=b-1")
}

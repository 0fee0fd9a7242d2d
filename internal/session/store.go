// Package session owns the lifecycle of an authenticated session: opened at
// login or signup, resolved on every request, cleared at logout.
package session

import (
	"context"
	"errors"
	"time"

	"eventpro/internal/account"
)

var ErrNoSession = errors.New("no active session")

type Session struct {
	ID        string       `json:"id"`
	User      account.User `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Store persists sessions under a fixed key per session id. Load returns
// (nil, nil) when nothing is stored.
type Store interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Clear(ctx context.Context, id string) error
}

func key(id string) string { return "session:" + id }

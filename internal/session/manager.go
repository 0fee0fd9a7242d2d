package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventpro/internal/account"
)

// Manager ties signed tokens to stored sessions. A token is only honoured
// while its session is still in the store, so Close revokes it.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) Open(ctx context.Context, u account.User) (string, Session, error) {
	now := m.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		User:      u,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	token, err := Sign(sess, m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return "", Session{}, fmt.Errorf("save session: %w", err)
	}
	return token, sess, nil
}

func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	vt, err := Verify(token, m.secret, m.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	sess, err := m.store.Load(ctx, vt.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.User.ID != vt.UserID || string(sess.User.Role) != vt.Role {
		return nil, ErrNoSession
	}
	return sess, nil
}

// Close clears the session behind token. Unknown or expired tokens are a no-op.
func (m *Manager) Close(ctx context.Context, token string) error {
	vt, err := Verify(token, m.secret, m.now())
	if err != nil {
		return nil
	}
	return m.store.Clear(ctx, vt.SessionID)
}

package account

import (
	"context"
	"sync"
)

type memoryRecord struct {
	user User
	hash string
}

type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]memoryRecord
	byID    map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byEmail: make(map[string]memoryRecord),
		byID:    make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, u User, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	r.byEmail[u.Email] = memoryRecord{user: u, hash: passwordHash}
	r.byID[u.ID] = u.Email
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byEmail[email]
	if !ok {
		return User{}, "", ErrNotFound
	}
	return rec.user, rec.hash, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byEmail[email].user, nil
}

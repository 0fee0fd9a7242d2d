package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
	cost int
	log  *slog.Logger
}

func NewService(repo Repository, bcryptCost int, log *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: bcryptCost, log: log}
}

// Signup registers a customer account. Signup never grants the admin role.
func (s *Service) Signup(ctx context.Context, name, email, password string) (User, error) {
	return s.create(ctx, name, email, password, RoleUser)
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	u, hash, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("find account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	s.log.Info("login", slog.String("user_id", u.ID), slog.String("role", string(u.Role)))
	return u, nil
}

// EnsureAdmin creates the operator account unless the email is already registered.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (User, error) {
	u, _, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err == nil {
		if u.Role != RoleAdmin {
			return User{}, fmt.Errorf("%s is registered as a %s account", u.Email, u.Role)
		}
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("find admin: %w", err)
	}
	return s.create(ctx, name, email, password, RoleAdmin)
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) create(ctx context.Context, name, email, password string, role Role) (User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if password == "" {
		return User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{ID: uuid.NewString(), Name: name, Email: email, Role: role}
	if err := s.repo.Create(ctx, u, string(hash)); err != nil {
		return User{}, err
	}
	s.log.Info("account created", slog.String("user_id", u.ID), slog.String("role", string(role)))
	return u, nil
}

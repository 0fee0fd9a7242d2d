package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventpro/internal/audit"
	"eventpro/pkg/db"
)

type Repository interface {
	Create(ctx context.Context, u User, passwordHash string) error
	// FindByEmail returns the user and its password hash.
	FindByEmail(ctx context.Context, email string) (User, string, error)
	Get(ctx context.Context, id string) (User, error)
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, u User, passwordHash string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
INSERT INTO users (id, name, email, role, password_hash)
VALUES ($1, $2, $3, $4, $5)
`
		if _, err := tx.Exec(ctx, q, u.ID, u.Name, u.Email, string(u.Role), passwordHash); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrEmailTaken
			}
			return err
		}
		return audit.Insert(ctx, tx, nil, audit.ActionAccountCreated, u.Email, map[string]any{"userId": u.ID, "role": u.Role})
	})
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, string, error) {
	const q = `
SELECT id::text, name, email, role, password_hash
FROM users
WHERE email = $1
`
	var u User
	var role, hash string
	if err := r.db.QueryRow(ctx, q, email).Scan(&u.ID, &u.Name, &u.Email, &role, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, "", ErrNotFound
		}
		return User{}, "", err
	}
	u.Role = Role(role)
	return u, hash, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (User, error) {
	const q = `SELECT id::text, name, email, role FROM users WHERE id = $1`
	var u User
	var role string
	if err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.Role = Role(role)
	return u, nil
}

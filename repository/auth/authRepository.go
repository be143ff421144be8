package authrepo

import (
	"context"
	"database/sql"
	"errors"

	"gearrental/model"
)

type Repo interface {
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, name, email, role, password_hash, created_at
FROM users
WHERE email=$1`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (name, email, role, password_hash)
VALUES ($1,$2,$3,$4)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, u.Name, u.Email, u.Role, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt)
}

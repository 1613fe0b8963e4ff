package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Store on postgres.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, username, first_name, last_name, nickname, display_name
		FROM users WHERE email=$1
	`, email).Scan(&a.ID, &a.Email, &a.Username, &a.FirstName, &a.LastName, &a.Nickname, &a.DisplayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`, username).Scan(&exists)
	return exists, err
}

func (r *Repo) CreateAccount(ctx context.Context, username, passwordHash, email string) (*Account, error) {
	a := Account{ID: uuid.NewString(), Email: email, Username: username}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users(id, email, username, password_hash)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.Email, a.Username, passwordHash)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) UpdateProfile(ctx context.Context, id, firstName, lastName, nickname, displayName string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE users
		SET first_name=$2, last_name=$3, nickname=$4, display_name=$5, updated_at=NOW()
		WHERE id=$1
	`, id, firstName, lastName, nickname, displayName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"rights-service/internal/domain/user"
	apperrors "rights-service/pkg/errors"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (pseudo, password_hash)
		VALUES ($1, $2)
		RETURNING id, pseudo, password_hash, created_at, updated_at
	`

	u := &user.User{}
	err := r.db.Pool.QueryRow(ctx, query, input.Pseudo, input.PasswordHash).Scan(
		&u.ID,
		&u.Pseudo,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("user with this pseudo already exists")
		}
		return nil, fmt.Errorf(errFailedCreateUserFmt, err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, pseudo, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.getOne(ctx, query, id)
}

func (r *UserRepository) GetByPseudo(ctx context.Context, pseudo string) (*user.User, error) {
	query := `
		SELECT id, pseudo, password_hash, created_at, updated_at
		FROM users
		WHERE pseudo = $1
	`

	return r.getOne(ctx, query, pseudo)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u := &user.User{}
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Pseudo,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, fmt.Errorf(errFailedGetUserFmt, err)
	}

	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM users WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf(errFailedDeleteUserFmt, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"rights-service/internal/domain/group"
	apperrors "rights-service/pkg/errors"
)

type GroupRepository struct {
	db *DB
}

func NewGroupRepository(db *DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, input group.CreateGroupInput) (*group.Group, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO groups (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`

	g := &group.Group{}
	err := r.db.Pool.QueryRow(ctx, query, input.Name).Scan(
		&g.ID,
		&g.Name,
		&g.CreatedAt,
		&g.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("group with this name already exists")
		}
		return nil, fmt.Errorf(errFailedCreateGroupFmt, err)
	}

	return g, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM groups
		WHERE id = $1
	`

	g := &group.Group{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&g.ID,
		&g.Name,
		&g.CreatedAt,
		&g.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errGroupNotFound)
		}
		return nil, fmt.Errorf(errFailedGetGroupFmt, err)
	}

	return g, nil
}

// List returns all groups ordered ascending by name.
func (r *GroupRepository) List(ctx context.Context) ([]*group.Group, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM groups
		ORDER BY name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf(errFailedListGroupsFmt, err)
	}
	defer rows.Close()

	var groups []*group.Group
	for rows.Next() {
		g := &group.Group{}
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf(errFailedScanGroupFmt, err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errIterateGroupsFmt, err)
	}

	return groups, nil
}

func (r *GroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM groups WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf(errFailedDeleteGroupFmt, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errGroupNotFound)
	}

	return nil
}

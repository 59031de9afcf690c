package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"rights-service/internal/rights"
	apperrors "rights-service/pkg/errors"
)

const rightColumns = "id, group_id, user_id, resource_type, resource_instance, method, created_at"

// RightRepository implements rights.Store on postgres. Grant uniqueness and
// the one-subject rule are backed by schema constraints; the LIMIT 2 probe
// in Find still reports duplicates should a schema without the partial
// indexes be in use.
type RightRepository struct {
	db *DB
}

func NewRightRepository(db *DB) *RightRepository {
	return &RightRepository{db: db}
}

func (r *RightRepository) Find(ctx context.Context, subject rights.Subject, resource rights.Resource, method rights.Method) (*rights.Right, error) {
	column, err := subjectColumn(subject)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM rights
		WHERE %s = $1
		  AND resource_type = $2
		  AND resource_instance IS NOT DISTINCT FROM $3
		  AND method = $4
		LIMIT 2
	`, rightColumns, column)

	rows, err := r.db.Pool.Query(ctx, query, subject.ID, resource.Type, resource.Instance, string(method))
	if err != nil {
		return nil, fmt.Errorf(errFailedFindRightFmt, err)
	}
	defer rows.Close()

	matches, err := scanRights(rows)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s on %s for %s", rights.ErrDuplicateGrant, subject, resource, method)
	}
}

func (r *RightRepository) GetByID(ctx context.Context, id uuid.UUID) (*rights.Right, error) {
	query := fmt.Sprintf("SELECT %s FROM rights WHERE id = $1", rightColumns)

	row := r.db.Pool.QueryRow(ctx, query, id)
	right, err := scanRight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errRightNotFound)
		}
		return nil, fmt.Errorf(errFailedGetRightFmt, err)
	}

	return right, nil
}

func (r *RightRepository) Create(ctx context.Context, input rights.CreateRightInput) (*rights.Right, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var groupID, userID *uuid.UUID
	switch input.Subject.Kind {
	case rights.SubjectKindGroup:
		groupID = &input.Subject.ID
	case rights.SubjectKindUser:
		userID = &input.Subject.ID
	}

	query := `
		INSERT INTO rights (group_id, user_id, resource_type, resource_instance, method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	right := &rights.Right{
		Subject:  input.Subject,
		Resource: input.Resource,
		Method:   input.Method,
	}
	err := r.db.Pool.QueryRow(ctx, query,
		groupID, userID, input.Resource.Type, input.Resource.Instance, string(input.Method),
	).Scan(&right.ID, &right.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("identical grant already exists")
		}
		if isCheckViolation(err) {
			return nil, apperrors.Validation("right violates subject or method constraints")
		}
		return nil, fmt.Errorf(errFailedCreateRightFmt, err)
	}

	return right, nil
}

func (r *RightRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM rights WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf(errFailedDeleteRightFmt, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errRightNotFound)
	}

	return nil
}

func (r *RightRepository) ListBySubject(ctx context.Context, subject rights.Subject) ([]*rights.Right, error) {
	column, err := subjectColumn(subject)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM rights
		WHERE %s = $1
		ORDER BY resource_type, method
	`, rightColumns, column)

	rows, err := r.db.Pool.Query(ctx, query, subject.ID)
	if err != nil {
		return nil, fmt.Errorf(errFailedListRightsFmt, err)
	}
	defer rows.Close()

	return scanRights(rows)
}

func subjectColumn(subject rights.Subject) (string, error) {
	if err := subject.Validate(); err != nil {
		return "", err
	}

	switch subject.Kind {
	case rights.SubjectKindGroup:
		return "group_id", nil
	default:
		return "user_id", nil
	}
}

func scanRight(row pgx.Row) (*rights.Right, error) {
	var (
		right            rights.Right
		groupID, userID  uuid.NullUUID
		resourceInstance uuid.NullUUID
		method           string
	)

	err := row.Scan(
		&right.ID,
		&groupID,
		&userID,
		&right.Resource.Type,
		&resourceInstance,
		&method,
		&right.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		right.Subject = rights.GroupSubject(groupID.UUID)
	} else {
		right.Subject = rights.UserSubject(userID.UUID)
	}
	if resourceInstance.Valid {
		instance := resourceInstance.UUID
		right.Resource.Instance = &instance
	}
	right.Method = rights.Method(method)

	return &right, nil
}

func scanRights(rows pgx.Rows) ([]*rights.Right, error) {
	var result []*rights.Right
	for rows.Next() {
		right, err := scanRight(rows)
		if err != nil {
			return nil, fmt.Errorf(errFailedScanRightFmt, err)
		}
		result = append(result, right)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errIterateRightsFmt, err)
	}

	return result, nil
}

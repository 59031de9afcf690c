package repository

import (
	"context"

	"github.com/google/uuid"

	"rights-service/internal/domain/group"
	"rights-service/internal/domain/user"
)

// Provider-side interfaces satisfied by the postgres and memory
// implementations. The rights store contract lives in internal/rights.

type GroupRepository interface {
	Create(ctx context.Context, input group.CreateGroupInput) (*group.Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (*group.Group, error)
	// List returns all groups ordered ascending by name.
	List(ctx context.Context) ([]*group.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByPseudo(ctx context.Context, pseudo string) (*user.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

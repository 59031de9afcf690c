package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rights-service/internal/domain/user"
	apperrors "rights-service/pkg/errors"
)

type UserRepository struct {
	mutex sync.RWMutex
	users map[uuid.UUID]*user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[uuid.UUID]*user.User),
	}
}

func (r *UserRepository) Create(_ context.Context, input user.CreateUserInput) (*user.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.users {
		if existing.Pseudo == input.Pseudo {
			return nil, apperrors.Conflict("user with this pseudo already exists")
		}
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Pseudo:       input.Pseudo,
		PasswordHash: input.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u

	copied := *u
	return &copied, nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}

	copied := *u
	return &copied, nil
}

func (r *UserRepository) GetByPseudo(_ context.Context, pseudo string) (*user.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, u := range r.users {
		if u.Pseudo == pseudo {
			copied := *u
			return &copied, nil
		}
	}

	return nil, apperrors.NotFound("user not found")
}

func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("user not found")
	}

	delete(r.users, id)
	return nil
}

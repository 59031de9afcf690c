package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rights-service/internal/domain/group"
	apperrors "rights-service/pkg/errors"
)

type GroupRepository struct {
	mutex  sync.RWMutex
	groups map[uuid.UUID]*group.Group
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{
		groups: make(map[uuid.UUID]*group.Group),
	}
}

func (r *GroupRepository) Create(_ context.Context, input group.CreateGroupInput) (*group.Group, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.groups {
		if existing.Name == input.Name {
			return nil, apperrors.Conflict("group with this name already exists")
		}
	}

	now := time.Now()
	g := &group.Group{
		ID:        uuid.New(),
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.groups[g.ID] = g

	copied := *g
	return &copied, nil
}

func (r *GroupRepository) GetByID(_ context.Context, id uuid.UUID) (*group.Group, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	g, ok := r.groups[id]
	if !ok {
		return nil, apperrors.NotFound("group not found")
	}

	copied := *g
	return &copied, nil
}

// List returns all groups ordered ascending by name.
func (r *GroupRepository) List(_ context.Context) ([]*group.Group, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*group.Group, 0, len(r.groups))
	for _, g := range r.groups {
		copied := *g
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (r *GroupRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.groups[id]; !ok {
		return apperrors.NotFound("group not found")
	}

	delete(r.groups, id)
	return nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rights-service/internal/rights"
	apperrors "rights-service/pkg/errors"
)

// RightRepository is the in-memory rights.Store used by tests and local
// runs. Matching semantics mirror the postgres implementation, including
// the duplicate-grant report.
type RightRepository struct {
	mutex  sync.RWMutex
	rights map[uuid.UUID]*rights.Right
}

func NewRightRepository() *RightRepository {
	return &RightRepository{
		rights: make(map[uuid.UUID]*rights.Right),
	}
}

func (r *RightRepository) Find(_ context.Context, subject rights.Subject, resource rights.Resource, method rights.Method) (*rights.Right, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var matches []*rights.Right
	for _, right := range r.rights {
		if right.Subject == subject && sameResource(right.Resource, resource) && right.Method == method {
			matches = append(matches, right)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		copied := *matches[0]
		return &copied, nil
	default:
		return nil, fmt.Errorf("%w: %s on %s for %s", rights.ErrDuplicateGrant, subject, resource, method)
	}
}

func (r *RightRepository) GetByID(_ context.Context, id uuid.UUID) (*rights.Right, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	right, ok := r.rights[id]
	if !ok {
		return nil, apperrors.NotFound("right not found")
	}

	copied := *right
	return &copied, nil
}

func (r *RightRepository) Create(_ context.Context, input rights.CreateRightInput) (*rights.Right, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.rights {
		if existing.Subject == input.Subject && sameResource(existing.Resource, input.Resource) && existing.Method == input.Method {
			return nil, apperrors.Conflict("identical grant already exists")
		}
	}

	right := &rights.Right{
		ID:        uuid.New(),
		Subject:   input.Subject,
		Resource:  input.Resource,
		Method:    input.Method,
		CreatedAt: time.Now(),
	}
	r.rights[right.ID] = right

	copied := *right
	return &copied, nil
}

// Insert stores a right verbatim, bypassing duplicate detection. Tests use
// it to stage the integrity violations Find must report.
func (r *RightRepository) Insert(right rights.Right) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if right.ID == uuid.Nil {
		right.ID = uuid.New()
	}
	r.rights[right.ID] = &right
}

func (r *RightRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.rights[id]; !ok {
		return apperrors.NotFound("right not found")
	}

	delete(r.rights, id)
	return nil
}

func (r *RightRepository) ListBySubject(_ context.Context, subject rights.Subject) ([]*rights.Right, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*rights.Right
	for _, right := range r.rights {
		if right.Subject == subject {
			copied := *right
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Resource.Type != result[j].Resource.Type {
			return result[i].Resource.Type < result[j].Resource.Type
		}
		return result[i].Method < result[j].Method
	})

	return result, nil
}

func sameResource(a, b rights.Resource) bool {
	if a.Type != b.Type {
		return false
	}
	if (a.Instance == nil) != (b.Instance == nil) {
		return false
	}
	return a.Instance == nil || *a.Instance == *b.Instance
}

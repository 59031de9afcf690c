package rights

import (
	"context"

	"github.com/google/uuid"
)

// CreateRightInput carries the fields of a right to be stored; the store
// assigns the ID.
type CreateRightInput struct {
	Subject  Subject
	Resource Resource
	Method   Method
}

func (in CreateRightInput) Validate() error {
	if err := in.Subject.Validate(); err != nil {
		return err
	}
	if err := in.Resource.Validate(); err != nil {
		return err
	}
	if _, err := ParseMethod(string(in.Method)); err != nil {
		return err
	}
	return nil
}

// Store holds Right records and answers the single-grant lookup.
//
// Find returns the one right matching the (subject, resource, method)
// triple, nil when no grant exists (the caller applies default-deny), and
// ErrDuplicateGrant when more than one matches: duplicates are a
// data-integrity fault to report, never to resolve arbitrarily.
type Store interface {
	Find(ctx context.Context, subject Subject, resource Resource, method Method) (*Right, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Right, error)
	Create(ctx context.Context, input CreateRightInput) (*Right, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySubject(ctx context.Context, subject Subject) ([]*Right, error)
}

package group

import (
	"time"

	"github.com/google/uuid"

	apperrors "rights-service/pkg/errors"
)

// Group is a named collection of users that can hold rights. Names are
// unique and define the listing order.
type Group struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateGroupInput struct {
	Name string `json:"name"`
}

func (in CreateGroupInput) Validate() error {
	if in.Name == "" {
		return apperrors.Validation("group name cannot be empty")
	}
	return nil
}

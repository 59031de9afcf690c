package user

import (
	"time"

	"github.com/google/uuid"

	apperrors "rights-service/pkg/errors"
)

// User is an authenticated identity. Pseudo is the human-readable handle
// carried as the issuer claim of tokens minted for this user.
type User struct {
	ID           uuid.UUID `json:"id"`
	Pseudo       string    `json:"pseudo"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateUserInput struct {
	Pseudo       string
	PasswordHash string
}

func (in CreateUserInput) Validate() error {
	if in.Pseudo == "" {
		return apperrors.Validation("pseudo cannot be empty")
	}
	if in.PasswordHash == "" {
		return apperrors.Validation("password hash cannot be empty")
	}
	return nil
}

type UpdateUserInput struct {
	Pseudo       *string
	PasswordHash *string
}

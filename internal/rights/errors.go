package rights

import "errors"

var (
	ErrDenied          = errors.New("authorization denied")
	ErrDuplicateGrant  = errors.New("duplicate grant")
	ErrInvalidSubject  = errors.New("subject must reference exactly one group or user")
	ErrInvalidResource = errors.New("resource type must not be empty")
	ErrInvalidMethod   = errors.New("invalid method")
)

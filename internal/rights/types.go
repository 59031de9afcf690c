package rights

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Method is one of the REST actions a right can grant.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Methods returns every known method, in a fixed order.
func Methods() []Method {
	return []Method{MethodGet, MethodPost, MethodPut, MethodDelete}
}

// ParseMethod validates a method string against the fixed enumeration.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return m, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidMethod, s)
}

// SubjectKind discriminates the two kinds of right holders.
type SubjectKind string

const (
	SubjectKindGroup SubjectKind = "group"
	SubjectKindUser  SubjectKind = "user"
)

// Subject identifies the holder of a right: exactly one group or one user.
// Construct it through GroupSubject or UserSubject; the zero value never
// validates, so a right cannot reference both kinds or neither.
type Subject struct {
	Kind SubjectKind
	ID   uuid.UUID
}

func GroupSubject(id uuid.UUID) Subject {
	return Subject{Kind: SubjectKindGroup, ID: id}
}

func UserSubject(id uuid.UUID) Subject {
	return Subject{Kind: SubjectKindUser, ID: id}
}

func (s Subject) Validate() error {
	if s.Kind != SubjectKindGroup && s.Kind != SubjectKindUser {
		return ErrInvalidSubject
	}
	if s.ID == uuid.Nil {
		return ErrInvalidSubject
	}
	return nil
}

func (s Subject) String() string {
	return string(s.Kind) + ":" + s.ID.String()
}

// Resource names the protected object. A nil Instance covers the whole
// resource type; a non-nil Instance narrows the grant to a single record.
type Resource struct {
	Type     string
	Instance *uuid.UUID
}

func GenericResource(resourceType string) Resource {
	return Resource{Type: resourceType}
}

func SpecificResource(resourceType string, instance uuid.UUID) Resource {
	return Resource{Type: resourceType, Instance: &instance}
}

func (r Resource) IsSpecific() bool {
	return r.Instance != nil
}

// Generic strips the instance, widening a specific resource to its type.
func (r Resource) Generic() Resource {
	return Resource{Type: r.Type}
}

func (r Resource) Validate() error {
	if r.Type == "" {
		return ErrInvalidResource
	}
	return nil
}

func (r Resource) String() string {
	if r.Instance != nil {
		return r.Type + "/" + r.Instance.String()
	}
	return r.Type
}

// Right grants a subject one method on one resource.
type Right struct {
	ID        uuid.UUID `json:"id"`
	Subject   Subject   `json:"subject"`
	Resource  Resource  `json:"resource"`
	Method    Method    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate enforces the write-time integrity rules: a well-formed subject,
// a named resource, and a known method.
func (r Right) Validate() error {
	if err := r.Subject.Validate(); err != nil {
		return err
	}
	if err := r.Resource.Validate(); err != nil {
		return err
	}
	if _, err := ParseMethod(string(r.Method)); err != nil {
		return err
	}
	return nil
}

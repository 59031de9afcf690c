package rights

import (
	"context"
	"fmt"
	"time"

	"rights-service/internal/cache"
)

const defaultDecisionTTL = time.Minute

// Engine answers authorization questions against a Store with default-deny
// semantics: access is granted only when exactly one matching right exists.
// Decisions are memoized in the decision cache for a bounded time.
type Engine struct {
	store       Store
	decisions   cache.DecisionCache
	decisionTTL time.Duration
}

// NewEngine creates an Engine. A nil decision cache disables memoization.
func NewEngine(store Store, decisions cache.DecisionCache, decisionTTL time.Duration) *Engine {
	if decisionTTL <= 0 {
		decisionTTL = defaultDecisionTTL
	}
	return &Engine{
		store:       store,
		decisions:   decisions,
		decisionTTL: decisionTTL,
	}
}

// Authorize checks whether the subject holds the method on the resource.
// A request for a specific resource instance falls back to the grant on the
// generic resource type when no instance-level grant is stored. Duplicate
// grants abort the check with ErrDuplicateGrant rather than picking a
// winner.
func (e *Engine) Authorize(ctx context.Context, subject Subject, resource Resource, method Method) error {
	if err := subject.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrDenied, err)
	}
	if err := resource.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrDenied, err)
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return fmt.Errorf("%w: %w", ErrDenied, err)
	}

	key := cache.BuildKey(subject.String(), resource.String(), string(method))
	if e.decisions != nil {
		if allowed, ok := e.decisions.Get(ctx, key); ok {
			if allowed {
				return nil
			}
			return e.denied(subject, resource, method)
		}
	}

	right, err := e.store.Find(ctx, subject, resource, method)
	if err != nil {
		return err
	}
	if right == nil && resource.IsSpecific() {
		right, err = e.store.Find(ctx, subject, resource.Generic(), method)
		if err != nil {
			return err
		}
	}

	allowed := right != nil
	if e.decisions != nil {
		e.decisions.Set(ctx, key, allowed, e.decisionTTL)
	}

	if !allowed {
		return e.denied(subject, resource, method)
	}
	return nil
}

// IsAuthorized is the boolean form of Authorize. Store failures and
// duplicate grants read as denied.
func (e *Engine) IsAuthorized(ctx context.Context, subject Subject, resource Resource, method Method) bool {
	return e.Authorize(ctx, subject, resource, method) == nil
}

func (e *Engine) denied(subject Subject, resource Resource, method Method) error {
	return fmt.Errorf("%w: %s has no %s grant on %s", ErrDenied, subject, method, resource)
}

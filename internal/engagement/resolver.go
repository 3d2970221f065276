package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/inkwell/backend/internal/models"
)

// TargetSource answers who owns a target of one kind. A missing target is
// reported as models.ErrRecordNotFound.
type TargetSource interface {
	TargetOwner(ctx context.Context, id string) (uint, error)
}

// TargetSourceFunc adapts a plain lookup function to TargetSource.
type TargetSourceFunc func(ctx context.Context, id string) (uint, error)

func (f TargetSourceFunc) TargetOwner(ctx context.Context, id string) (uint, error) {
	return f(ctx, id)
}

// Target is a resolved, existing like target.
type Target struct {
	Kind    models.TargetKind
	ID      string
	OwnerID uint
}

// ParseTargetKind validates a caller-supplied kind.
func ParseTargetKind(s string) (models.TargetKind, error) {
	switch k := models.TargetKind(s); k {
	case models.TargetPost, models.TargetComment, models.TargetReply:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Resolver validates users and targets before any mutation. It has no side effects.
type Resolver struct {
	users   UserStore
	sources map[models.TargetKind]TargetSource
}

func NewResolver(users UserStore, sources map[models.TargetKind]TargetSource) *Resolver {
	return &Resolver{users: users, sources: sources}
}

// Resolve checks that the target exists and returns its owner.
func (r *Resolver) Resolve(ctx context.Context, kind models.TargetKind, id string) (Target, error) {
	if _, err := ParseTargetKind(string(kind)); err != nil {
		return Target{}, err
	}
	src, ok := r.sources[kind]
	if !ok || src == nil {
		return Target{}, fmt.Errorf("%w: no source for %q", ErrInvalidKind, kind)
	}
	owner, err := src.TargetOwner(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return Target{}, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return Target{}, fmt.Errorf("resolve %s %s: %w", kind, id, err)
	}
	return Target{Kind: kind, ID: id, OwnerID: owner}, nil
}

// User loads a user, mapping absence to ErrNotFound.
func (r *Resolver) User(ctx context.Context, id uint) (*models.User, error) {
	user, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

package identity

import (
	"context"
	"errors"

	"homework-sync-api/internal/feature/user"
)

// Resolver maps a verified identity onto its durable user record. The
// upsert runs before any assignment operation so no assignment row can
// ever reference a user that does not exist.
type Resolver interface {
	Resolve(ctx context.Context, id *Identity) (*user.User, error)
	// Touch refreshes last-seen for a user already known by id (the
	// first-party token path, where no provider claims are available).
	Touch(ctx context.Context, userID string) (*user.User, error)
}

type UserResolver struct {
	users *user.Repo
}

func NewUserResolver(users *user.Repo) *UserResolver {
	return &UserResolver{users: users}
}

func (r *UserResolver) Resolve(ctx context.Context, id *Identity) (*user.User, error) {
	if id == nil || id.Subject == "" {
		return nil, ErrUnauthenticated
	}
	u := &user.User{
		ID:      id.Subject,
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.Picture,
	}
	if err := r.users.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return r.users.FindByID(ctx, u.ID)
}

func (r *UserResolver) Touch(ctx context.Context, userID string) (*user.User, error) {
	u, err := r.users.Touch(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return u, err
}

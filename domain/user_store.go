package domain

import "context"

type UserStore interface {
	// GetByEmail returns (nil, nil) when no user matches. Lookup is
	// case-sensitive, matching how emails are stored.
	GetByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, user *User) (*User, error)
}

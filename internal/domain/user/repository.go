// internal/domain/user/repository.go
package user

import "context"

// Repository is the user store consumed by the auth service.
//
// Implementations return xerrors.ErrNotFound when no row matches and
// xerrors.ErrDuplicateEmail when the email uniqueness constraint is
// violated; the store is the authority on uniqueness under concurrency.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	List(ctx context.Context) ([]*User, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*User, error)
}

package repository

import (
	"context"
	"errors"

	"user-admin-backend/internal/features/user/models"
)

var (
	// ErrUserNotFound is returned when no record matches the predicate.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateLogin is returned when an insert or update violates the
	// unique index on login.
	ErrDuplicateLogin = errors.New("login already taken")
)

// UserRepository is the single-table record store. Each method is one atomic
// statement against the database; uniqueness of login is ultimately enforced
// by the store's unique index, the service only pre-checks it.
type UserRepository interface {
	// GetByLogin returns the record with the given login, revoked or not.
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	// GetByCredentials returns the record matching login and password
	// exactly, optionally restricted to administrators.
	GetByCredentials(ctx context.Context, login, password string, requireAdmin bool) (*models.User, error)

	// ExistsByLogin reports whether any record, active or revoked, holds
	// the login.
	ExistsByLogin(ctx context.Context, login string) (bool, error)

	// ListActive returns all non-revoked records ordered by created_on
	// ascending.
	ListActive(ctx context.Context) ([]*models.User, error)

	// ListAll returns every record in the table.
	ListAll(ctx context.Context) ([]*models.User, error)

	// Insert persists a new record.
	Insert(ctx context.Context, user *models.User) error

	// Update rewrites all mutable fields of the record keyed by id.
	Update(ctx context.Context, user *models.User) error

	// Delete permanently removes the record with the given login.
	Delete(ctx context.Context, login string) error
}

// Package users declares the repository contract for user records in the
// relational store.
package users

import (
	"context"

	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Create inserts a user. The user ID is generated on the relational
	// side via fn_generate_user_id().
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email. Returns common.ErrorNotFound
	// when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by ID. Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdateProfile rewrites email and full name. Returns common.ErrorNotFound
	// when no row matches.
	UpdateProfile(ctx context.Context, id string, email string, fullName string) error

	// UpdatePasswordHash replaces the stored password digest.
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error

	// Search returns users whose email or full name contains term,
	// case-insensitively. No pagination.
	Search(ctx context.Context, term string) ([]*models.User, error)

	// Delete removes a user by ID. Returns common.ErrorNotFound when no row
	// matches.
	Delete(ctx context.Context, id string) error
}

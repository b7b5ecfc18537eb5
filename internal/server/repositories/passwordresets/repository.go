// Package passwordresets declares the repository contract for short-lived
// password-reset tokens.
package passwordresets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and burning
// password-reset tokens.
type Repository interface {
	// Create stores a new reset token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks a reset token up by its opaque token string.
	// Implementations should return a not-found error when the token is absent.
	Find(ctx context.Context, token string) (*models.PasswordReset, error)

	// Delete burns a reset token. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error
}

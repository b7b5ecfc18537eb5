// Package documents declares the repository contract for the document facet
// of events: free-form detail blobs keyed by a store-generated identifier.
package documents

import (
	"context"

	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

// Repository defines persistence operations for event detail documents.
type Repository interface {
	// Insert stores a detail document and returns the store-generated ID.
	Insert(ctx context.Context, detail *models.Detail) (string, error)

	// FindByIDs performs one batched lookup and returns the matched
	// documents keyed by ID. IDs with no match are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.Detail, error)

	// FindByID returns a single document. Returns common.ErrorNotFound when
	// absent.
	FindByID(ctx context.Context, id string) (*models.Detail, error)

	// Replace overwrites the full content of the document with the given ID.
	Replace(ctx context.Context, id string, detail *models.Detail) error

	// Delete removes the document with the given ID. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, id string) error
}

// Package events declares the repository contract for the relational facet
// of events: the index rows that are the system of record for event
// existence and identity.
package events

import (
	"context"

	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

// Repository defines persistence operations for event index rows.
type Repository interface {
	// Insert creates an event row through the relational insert procedure,
	// which generates the event ID and inserts atomically. Returns the new ID.
	Insert(ctx context.Context, row *models.EventRow) (string, error)

	// SelectFutureAgenda returns all future events of a user from the agenda
	// view, with category names resolved, in the store's natural order.
	SelectFutureAgenda(ctx context.Context, userID string) ([]*models.EventRow, error)

	// SelectOne returns a single event row, category name resolved, matched
	// by both event ID and owning user ID. Returns common.ErrorNotFound when
	// no row matches both predicates.
	SelectOne(ctx context.Context, eventID string, userID string) (*models.EventRow, error)

	// FindDetailRef returns the document reference of the row matched by
	// (eventID, userID). Empty string means the row has no document facet.
	// Returns common.ErrorNotFound when no row matches.
	FindDetailRef(ctx context.Context, eventID string, userID string) (string, error)

	// Update rewrites the mutable relational columns of an event row.
	Update(ctx context.Context, eventID string, input *models.EventInput) error

	// Delete removes an event row by ID.
	Delete(ctx context.Context, eventID string) error
}

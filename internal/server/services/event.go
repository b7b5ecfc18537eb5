// Package services contains server-side business logic. This file implements
// EventService, the coordinator that sequences event writes across the
// relational and document stores, compensates partial failures, and keeps
// the cache coherent.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tickethub/internal/common"
	"github.com/dmitrijs2005/tickethub/internal/dbx"
	"github.com/dmitrijs2005/tickethub/internal/logging"
	"github.com/dmitrijs2005/tickethub/internal/server/cache"
	"github.com/dmitrijs2005/tickethub/internal/server/config"
	"github.com/dmitrijs2005/tickethub/internal/server/models"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/documents"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/repomanager"
)

// EventService orchestrates create/read/update/delete of events. The
// relational store is the system of record; the document store holds the
// optional detail facet; the cache holds serialized read snapshots and is
// strictly best-effort.
type EventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	documents   documents.Repository
	cache       cache.Cache
	logger      logging.Logger
	cacheTTL    time.Duration
}

// NewEventService constructs an EventService from injected store handles.
func NewEventService(db *sql.DB, m repomanager.RepositoryManager, docs documents.Repository, c cache.Cache, logger logging.Logger, cfg *config.Config) *EventService {
	return &EventService{
		db:          db,
		repomanager: m,
		documents:   docs,
		cache:       c,
		logger:      logger,
		cacheTTL:    cfg.CacheTTL,
	}
}

// cachedEvent is the single-item snapshot stored in the cache. It carries
// the owner so a hit under the shared "event:<id>" key never leaks the
// event to a different caller.
type cachedEvent struct {
	UserID string        `json:"user_id"`
	Event  *models.Event `json:"event"`
}

// CreateEvent writes the document facet first, then the relational row via
// the insert procedure. If the relational write fails after the document
// write succeeded, the orphaned document is deleted best-effort before the
// original error is propagated. Returns the freshly re-fetched joined event.
func (s *EventService) CreateEvent(ctx context.Context, userID string, input *models.EventInput) (*models.Event, error) {
	repo := s.repomanager.Events(s.db)

	var detailID string
	if input.Detail != nil {
		id, err := s.documents.Insert(ctx, input.Detail)
		if err != nil {
			return nil, fmt.Errorf("error writing event detail: %w", err)
		}
		detailID = id
	}

	eventID, err := repo.Insert(ctx, &models.EventRow{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Title:      input.Title,
		StartsAt:   input.StartsAt,
		Location:   input.Location,
		DetailID:   detailID,
	})
	if err != nil {
		if detailID != "" {
			// Compensation: the relational write is the system of record, so
			// the already-written document must not survive it failing.
			if delErr := s.documents.Delete(ctx, detailID); delErr != nil {
				s.logger.Error(ctx, "compensating document delete failed", "detail_id", detailID, "error", delErr)
			} else {
				s.logger.Warn(ctx, "relational insert failed, document compensated", "detail_id", detailID)
			}
		}
		return nil, fmt.Errorf("error inserting event: %w", err)
	}

	s.invalidate(ctx, cache.AgendaKey(userID))

	return s.fetchJoined(ctx, eventID, userID)
}

// ReadAgenda returns all future events of the user with document facets
// joined, serving from cache when possible. An empty agenda is an empty
// slice, not an error.
func (s *EventService) ReadAgenda(ctx context.Context, userID string) ([]*models.Event, error) {
	key := cache.AgendaKey(userID)

	if b, ok := s.cacheGet(ctx, key); ok {
		var agenda []*models.Event
		if err := json.Unmarshal(b, &agenda); err == nil {
			return agenda, nil
		}
		s.logger.Warn(ctx, "discarding undecodable cache entry", "key", key)
	}

	rows, err := s.repomanager.Events(s.db).SelectFutureAgenda(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error reading agenda: %w", err)
	}

	var refs []string
	for _, row := range rows {
		if row.DetailID != "" {
			refs = append(refs, row.DetailID)
		}
	}

	details := map[string]*models.Detail{}
	if len(refs) > 0 {
		details, err = s.documents.FindByIDs(ctx, refs)
		if err != nil {
			return nil, fmt.Errorf("error reading event details: %w", err)
		}
	}

	agenda := make([]*models.Event, 0, len(rows))
	for _, row := range rows {
		agenda = append(agenda, models.Joined(row, details[row.DetailID]))
	}

	s.cacheSet(ctx, key, agenda)

	return agenda, nil
}

// ReadSingleEvent returns one event matched by both event ID and owner.
// A wrong ID and a wrong owner are indistinguishable: both yield
// common.ErrorNotFound.
func (s *EventService) ReadSingleEvent(ctx context.Context, eventID string, userID string) (*models.Event, error) {
	key := cache.EventKey(eventID)

	if b, ok := s.cacheGet(ctx, key); ok {
		var snapshot cachedEvent
		if err := json.Unmarshal(b, &snapshot); err == nil && snapshot.UserID == userID {
			return snapshot.Event, nil
		}
	}

	event, err := s.fetchJoined(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, &cachedEvent{UserID: userID, Event: event})

	return event, nil
}

// UpdateEvent rewrites the relational columns inside a transaction and, when
// the row carries a document reference, performs a full overwrite of the
// document content. A failed relational commit after a successful document
// replace leaves the document ahead of the relational state; that window is
// accepted, matching the create-side compensation being one-directional.
func (s *EventService) UpdateEvent(ctx context.Context, eventID string, userID string, input *models.EventInput) (*models.Event, error) {
	detailID, err := s.repomanager.Events(s.db).FindDetailRef(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error locating event: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Events(tx).Update(ctx, eventID, input); err != nil {
			return err
		}
		if detailID != "" {
			detail := input.Detail
			if detail == nil {
				detail = models.NewDetail(nil)
			}
			if err := s.documents.Replace(ctx, detailID, detail); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}

	s.invalidate(ctx, cache.AgendaKey(userID), cache.EventKey(eventID))

	return s.fetchJoined(ctx, eventID, userID)
}

// DeleteEvent removes the relational row and, when present, the referenced
// document, inside one relational transaction. Returns false (not an error)
// when no row matches (eventID, userID).
func (s *EventService) DeleteEvent(ctx context.Context, eventID string, userID string) (bool, error) {
	detailID, err := s.repomanager.Events(s.db).FindDetailRef(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error locating event: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Events(tx).Delete(ctx, eventID); err != nil {
			return err
		}
		if detailID != "" {
			if err := s.documents.Delete(ctx, detailID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error deleting event: %w", err)
	}

	s.invalidate(ctx, cache.AgendaKey(userID), cache.EventKey(eventID))

	return true, nil
}

// --- helpers below ---

// fetchJoined is the fetch-after-write read: the relational row with the
// category name resolved, joined to its document facet.
func (s *EventService) fetchJoined(ctx context.Context, eventID string, userID string) (*models.Event, error) {
	row, err := s.repomanager.Events(s.db).SelectOne(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error reading event: %w", err)
	}

	var detail *models.Detail
	if row.DetailID != "" {
		detail, err = s.documents.FindByID(ctx, row.DetailID)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				return nil, fmt.Errorf("error reading event detail: %w", err)
			}
			// dangling reference: serve the relational facet alone
			detail = nil
		}
	}

	return models.Joined(row, detail), nil
}

// cacheGet treats any cache failure as a miss.
func (s *EventService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "cache read failed", "key", key, "error", err)
		return nil, false
	}
	return b, ok
}

// cacheSet serializes v and stores it; failures are logged, never surfaced.
func (s *EventService) cacheSet(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn(ctx, "cache serialization failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
		s.logger.Warn(ctx, "cache write failed", "key", key, "error", err)
	}
}

// invalidate deletes cache keys; failures are logged, never surfaced.
func (s *EventService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn(ctx, "cache invalidation failed", "keys", keys, "error", err)
	}
}

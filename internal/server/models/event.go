package models

import "time"

// EventRow is the relational facet of an event: the system of record for
// existence and identity. DetailID references the document facet in the
// document store and may be empty.
type EventRow struct {
	ID           string
	UserID       string
	CategoryID   int
	CategoryName string
	Title        string
	StartsAt     time.Time
	Location     string
	DetailID     string
}

// Event is the joined view returned by read paths: the relational facet
// plus the optional document facet.
type Event struct {
	ID           string    `json:"id"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Title        string    `json:"title"`
	StartsAt     time.Time `json:"starts_at"`
	Location     string    `json:"location"`
	Detail       *Detail   `json:"detail"`
}

// EventInput carries the caller-supplied fields for create and update.
type EventInput struct {
	CategoryID int       `json:"category_id"`
	Title      string    `json:"title"`
	StartsAt   time.Time `json:"starts_at"`
	Location   string    `json:"location"`
	Detail     *Detail   `json:"detail"`
}

// Joined builds the response shape from a relational row and its document
// facet (which may be nil).
func Joined(row *EventRow, detail *Detail) *Event {
	return &Event{
		ID:           row.ID,
		CategoryID:   row.CategoryID,
		CategoryName: row.CategoryName,
		Title:        row.Title,
		StartsAt:     row.StartsAt,
		Location:     row.Location,
		Detail:       detail,
	}
}

// Package store holds the persistence contracts for users and notes.
// Two implementations exist: an in-memory one used by tests and
// zero-config deployments, and a MySQL one for production.
package store

import (
	"context"
	"errors"

	"notes-api/models"
)

// ErrNotFound is returned when a record does not exist. Match with errors.Is.
var ErrNotFound = errors.New("not found")

// UserStore is read-only after seeding; username lookup is case-insensitive.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type NoteStore interface {
	// Insert assigns a fresh id (strictly greater than any previously
	// assigned, also under concurrent callers), sets CreatedAt and
	// returns the stored copy.
	Insert(ctx context.Context, note *models.Note) (*models.Note, error)

	FindByID(ctx context.Context, id int) (*models.Note, error)

	// FindByOwner returns the owner's notes ordered by CreatedAt
	// descending, ties kept in insertion order.
	FindByOwner(ctx context.Context, ownerID int) ([]models.Note, error)

	// Update atomically applies mutate to the record and sets UpdatedAt.
	// Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, id int, mutate func(*models.Note)) (*models.Note, error)

	// Delete returns ErrNotFound if the id does not exist.
	Delete(ctx context.Context, id int) error
}

// Package service implements the ownership-enforcing façade over the
// note store. Handlers never touch the store directly.
package service

import (
	"context"
	"errors"
	"fmt"

	"notes-api/models"
	"notes-api/store"
)

const maxTitleLength = 100

var (
	// ErrNoteNotFound covers both a missing note and a note owned by
	// someone else. Callers must not be able to tell the two apart.
	ErrNoteNotFound = errors.New("note not found")

	ErrValidation = errors.New("validation failed")
)

type Notes struct {
	store store.NoteStore
}

func NewNotes(s store.NoteStore) *Notes {
	return &Notes{store: s}
}

func (n *Notes) List(ctx context.Context, callerID int) ([]models.Note, error) {
	return n.store.FindByOwner(ctx, callerID)
}

func (n *Notes) Create(ctx context.Context, callerID int, title, content string) (*models.Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	note := &models.Note{
		Title:   title,
		Content: content,
		UserID:  callerID,
	}
	return n.store.Insert(ctx, note)
}

func (n *Notes) Get(ctx context.Context, callerID, id int) (*models.Note, error) {
	note, err := n.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if note.UserID != callerID {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Update applies only the supplied fields; nil leaves the prior value.
func (n *Notes) Update(ctx context.Context, callerID, id int, title, content *string) (*models.Note, error) {
	if title != nil {
		if err := validateTitle(*title); err != nil {
			return nil, err
		}
	}
	if content != nil && *content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	// Ownership never changes, so the check does not need to happen
	// inside the store's critical section. A concurrent delete shows up
	// as ErrNotFound below, which folds into the same outward result.
	if _, err := n.Get(ctx, callerID, id); err != nil {
		return nil, err
	}

	note, err := n.store.Update(ctx, id, func(note *models.Note) {
		if title != nil {
			note.Title = *title
		}
		if content != nil {
			note.Content = *content
		}
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func (n *Notes) Delete(ctx context.Context, callerID, id int) error {
	if _, err := n.Get(ctx, callerID, id); err != nil {
		return err
	}
	if err := n.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTitleLength)
	}
	return nil
}

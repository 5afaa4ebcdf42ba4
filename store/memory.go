package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"notes-api/models"
)

// MemoryUserStore serves a fixed user set built at construction. The map
// is never written afterwards, so reads need no locking.
type MemoryUserStore struct {
	byUsername map[string]models.User
}

func NewMemoryUserStore(users []models.User) *MemoryUserStore {
	m := make(map[string]models.User, len(users))
	for _, u := range users {
		m[strings.ToLower(u.Username)] = u
	}
	return &MemoryUserStore{byUsername: m}
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := s.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// MemoryNoteStore keeps notes in a map guarded by a single mutex. The id
// counter lives under the same lock, so ids are strictly increasing even
// under concurrent inserts.
type MemoryNoteStore struct {
	mu     sync.RWMutex
	notes  map[int]models.Note
	order  []int
	nextID int
}

func NewMemoryNoteStore() *MemoryNoteStore {
	return &MemoryNoteStore{notes: make(map[int]models.Note), nextID: 1}
}

func (s *MemoryNoteStore) Insert(_ context.Context, note *models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *note
	stored.ID = s.nextID
	s.nextID++
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = nil

	s.notes[stored.ID] = stored
	s.order = append(s.order, stored.ID)

	out := stored
	return &out, nil
}

func (s *MemoryNoteStore) FindByID(_ context.Context, id int) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &note, nil
}

func (s *MemoryNoteStore) FindByOwner(_ context.Context, ownerID int) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Note
	for _, id := range s.order {
		if note, ok := s.notes[id]; ok && note.UserID == ownerID {
			out = append(out, note)
		}
	}
	// Stable sort keeps insertion order for equal timestamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryNoteStore) Update(_ context.Context, id int, mutate func(*models.Note)) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}

	mutate(&note)
	now := time.Now().UTC()
	note.UpdatedAt = &now
	s.notes[id] = note

	out := note
	return &out, nil
}

func (s *MemoryNoteStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return ErrNotFound
	}
	delete(s.notes, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

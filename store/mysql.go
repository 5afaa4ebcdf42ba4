package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notes-api/models"
)

type MySQLUserStore struct {
	db *sql.DB
}

func NewMySQLUserStore(db *sql.DB) *MySQLUserStore {
	return &MySQLUserStore{db: db}
}

func (s *MySQLUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	// The username column uses a case-insensitive collation, so plain
	// equality already matches regardless of case.
	query := "SELECT id, username, password_hash, created_at FROM users WHERE username = ?"

	var u models.User
	err := s.db.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// MySQLNoteStore delegates id assignment to AUTO_INCREMENT and same-row
// atomicity to row locks.
type MySQLNoteStore struct {
	db *sql.DB
}

func NewMySQLNoteStore(db *sql.DB) *MySQLNoteStore {
	return &MySQLNoteStore{db: db}
}

const noteColumns = "id, title, content, user_id, created_at, updated_at"

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	var n models.Note
	var updatedAt sql.NullTime
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		n.UpdatedAt = &updatedAt.Time
	}
	return &n, nil
}

func (s *MySQLNoteStore) Insert(ctx context.Context, note *models.Note) (*models.Note, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO notes (title, content, user_id) VALUES (?, ?, ?)",
		note.Title, note.Content, note.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return s.FindByID(ctx, int(id))
}

func (s *MySQLNoteStore) FindByID(ctx context.Context, id int) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query note: %w", err)
	}
	return note, nil
}

func (s *MySQLNoteStore) FindByOwner(ctx context.Context, ownerID int) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY created_at DESC, id ASC",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (s *MySQLNoteStore) Update(ctx context.Context, id int, mutate func(*models.Note)) (*models.Note, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	// Row lock serializes concurrent read-modify-write on the same id.
	row := tx.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ? FOR UPDATE", id)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock note: %w", err)
	}

	mutate(note)

	if _, err := tx.ExecContext(ctx,
		"UPDATE notes SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		note.Title, note.Content, id); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *MySQLNoteStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

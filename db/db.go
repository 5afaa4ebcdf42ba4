package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"notes-api/models"
)

func Connect(dsn string) (*sql.DB, error) {
	// Timestamp columns must scan into time.Time.
	if !strings.Contains(dsn, "parseTime") {
		if strings.Contains(dsn, "?") {
			dsn += "&parseTime=true"
		} else {
			dsn += "?parseTime=true"
		}
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func EnsureSchema(db *sql.DB) error {
	userTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	notesTable := `
	CREATE TABLE IF NOT EXISTS notes (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		content TEXT NOT NULL,
		user_id INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);`

	if _, err := db.Exec(userTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := db.Exec(notesTable); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

// DemoUsers returns the seed accounts with freshly hashed passwords.
// Also used directly by the in-memory deployment mode.
func DemoUsers() []models.User {
	users := []models.User{
		{ID: 1, Username: "demo"},
		{ID: 2, Username: "test"},
	}
	passwords := []string{"demo123", "test123"}
	for i := range users {
		hash, _ := bcrypt.GenerateFromPassword([]byte(passwords[i]), bcrypt.DefaultCost)
		users[i].PasswordHash = string(hash)
		users[i].CreatedAt = time.Now().UTC()
	}
	return users
}

// Seed inserts the demo accounts and a few starter notes, but only when
// the users table is still empty.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range DemoUsers() {
		if _, err := db.Exec("INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)",
			u.ID, u.Username, u.PasswordHash); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	notes := []models.Note{
		{Title: "Welcome Note", Content: "Welcome to your notes application! This is a demo note.", UserID: 1},
		{Title: "Shopping List", Content: "1. Milk\n2. Bread\n3. Eggs", UserID: 1},
		{Title: "Meeting Notes", Content: "Important points from today's meeting:\n- Project timeline\n- Team assignments\n- Next steps", UserID: 2},
	}
	for _, n := range notes {
		if _, err := db.Exec("INSERT INTO notes (title, content, user_id) VALUES (?, ?, ?)",
			n.Title, n.Content, n.UserID); err != nil {
			return fmt.Errorf("seed note %q: %w", n.Title, err)
		}
	}
	return nil
}

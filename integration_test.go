package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"notes-api/auth"
	"notes-api/db"
	"notes-api/handlers"
	appmw "notes-api/middleware"
	"notes-api/models"
	"notes-api/service"
	"notes-api/store"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	users := store.NewMemoryUserStore(db.DemoUsers())
	notes := store.NewMemoryNoteStore()

	authenticator := auth.New(users, []byte("integration-secret"), time.Hour)
	noteService := service.NewNotes(notes)

	authHandler := handlers.NewAuthHandler(authenticator)
	notesHandler := handlers.NewNotesHandler(noteService)

	router := chi.NewRouter()
	router.Post("/api/login", authHandler.Login)
	router.Group(func(r chi.Router) {
		r.Use(appmw.RequireAuth(authenticator))
		r.Get("/api/notes", notesHandler.GetNotes)
		r.Post("/api/notes", notesHandler.CreateNote)
		r.Get("/api/notes/{id}", notesHandler.GetNote)
		r.Put("/api/notes/{id}", notesHandler.UpdateNote)
		r.Delete("/api/notes/{id}", notesHandler.DeleteNote)
	})
	return router
}

func login(t *testing.T, router *chi.Mux, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req := httptest.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Login failed for %s: status %v", username, resp.Code)
	}

	var loginResp map[string]string
	json.Unmarshal(resp.Body.Bytes(), &loginResp)
	if loginResp["token"] == "" {
		t.Fatalf("Login response missing token")
	}
	return loginResp["token"]
}

func doJSON(router *chi.Mux, method, target, token string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, target, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestDemoUserScenario(t *testing.T) {
	router := newTestRouter(t)

	demoToken := login(t, router, "demo", "demo123")

	// First note in a fresh store gets id 1.
	resp := doJSON(router, "POST", "/api/notes", demoToken, map[string]string{
		"title":   "Groceries",
		"content": "Milk, Eggs",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create note: got %v want %v", resp.Code, http.StatusCreated)
	}

	var created models.Note
	json.Unmarshal(resp.Body.Bytes(), &created)
	if created.ID != 1 {
		t.Errorf("Expected first note id 1, got %d", created.ID)
	}
	if created.Title != "Groceries" || created.Content != "Milk, Eggs" {
		t.Errorf("Created note fields wrong: %+v", created)
	}

	resp = doJSON(router, "GET", "/api/notes", demoToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("List notes: got %v want %v", resp.Code, http.StatusOK)
	}
	var notes []models.Note
	json.Unmarshal(resp.Body.Bytes(), &notes)
	if len(notes) != 1 || notes[0].ID != created.ID {
		t.Errorf("Expected exactly the created note, got %+v", notes)
	}

	// The other seeded user must not see or reach demo's note.
	testToken := login(t, router, "test", "test123")

	resp = doJSON(router, "GET", "/api/notes", testToken, nil)
	json.Unmarshal(resp.Body.Bytes(), &notes)
	if len(notes) != 0 {
		t.Errorf("Other user should see no notes, got %+v", notes)
	}

	resp = doJSON(router, "GET", "/api/notes/1", testToken, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Foreign note access: got %v want %v", resp.Code, http.StatusNotFound)
	}
}

func TestUpdateAndDeleteFlow(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "demo", "demo123")

	resp := doJSON(router, "POST", "/api/notes", token, map[string]string{
		"title":   "Note to be updated",
		"content": "original",
	})
	var created models.Note
	json.Unmarshal(resp.Body.Bytes(), &created)

	// Partial update: only content changes.
	resp = doJSON(router, "PUT", "/api/notes/1", token, map[string]string{
		"content": "updated content",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Update note: got %v want %v", resp.Code, http.StatusOK)
	}
	var updated models.Note
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.Title != "Note to be updated" {
		t.Errorf("Title should be unchanged, got %v", updated.Title)
	}
	if updated.Content != "updated content" {
		t.Errorf("Content not updated, got %v", updated.Content)
	}
	if updated.UpdatedAt == nil {
		t.Errorf("Expected updated_at to be set")
	}

	resp = doJSON(router, "DELETE", "/api/notes/1", token, nil)
	if resp.Code != http.StatusNoContent {
		t.Errorf("Delete note: got %v want %v", resp.Code, http.StatusNoContent)
	}

	resp = doJSON(router, "DELETE", "/api/notes/1", token, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Second delete: got %v want %v", resp.Code, http.StatusNotFound)
	}

	resp = doJSON(router, "GET", "/api/notes/1", token, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Get after delete: got %v want %v", resp.Code, http.StatusNotFound)
	}
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	router := newTestRouter(t)

	for _, tc := range []struct {
		name   string
		method string
		target string
	}{
		{"list", "GET", "/api/notes"},
		{"create", "POST", "/api/notes"},
		{"get", "GET", "/api/notes/1"},
		{"update", "PUT", "/api/notes/1"},
		{"delete", "DELETE", "/api/notes/1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(router, tc.method, tc.target, "", nil)
			if resp.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without token, got %v", resp.Code)
			}
		})
	}

	t.Run("wrong credentials", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"username": "demo", "password": "nope"})
		req := httptest.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for bad credentials, got %v", resp.Code)
		}
	})
}

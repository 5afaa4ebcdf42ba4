package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"notes-api/auth"
	"notes-api/config"
	"notes-api/db"
	"notes-api/handlers"
	appmw "notes-api/middleware"
	"notes-api/service"
	"notes-api/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using environment as-is")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error: ", err)
	}

	var users store.UserStore
	var notes store.NoteStore

	if cfg.DSN != "" {
		sqlDB, err := db.Connect(cfg.DSN)
		if err != nil {
			log.Fatal("DB connection error: ", err)
		}
		if err := db.EnsureSchema(sqlDB); err != nil {
			log.Fatal("DB schema error: ", err)
		}
		if err := db.Seed(sqlDB); err != nil {
			log.Fatal("DB seed error: ", err)
		}
		users = store.NewMySQLUserStore(sqlDB)
		notes = store.NewMySQLNoteStore(sqlDB)
	} else {
		log.Println("DSN not set, using in-memory store")
		users = store.NewMemoryUserStore(db.DemoUsers())
		notes = store.NewMemoryNoteStore()
	}

	authenticator := auth.New(users, []byte(cfg.JWTSecret), cfg.TokenTTL)
	noteService := service.NewNotes(notes)

	authHandler := handlers.NewAuthHandler(authenticator)
	notesHandler := handlers.NewNotesHandler(noteService)

	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/api/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(appmw.RequireAuth(authenticator))
		r.Get("/api/notes", notesHandler.GetNotes)
		r.Post("/api/notes", notesHandler.CreateNote)
		r.Get("/api/notes/{id}", notesHandler.GetNote)
		r.Put("/api/notes/{id}", notesHandler.UpdateNote)
		r.Delete("/api/notes/{id}", notesHandler.DeleteNote)
	})

	log.Println("Server running on " + cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal("Server error: ", err)
	}
}

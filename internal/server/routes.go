package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/todo-provider/internal/domain"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.db != nil {
		r.Get("/health", s.healthHandler)
	}

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", handle(s.listTodosHandler))
		r.With(middleware.AllowContentType("application/json")).Post("/", handle(s.createTodoHandler))
		r.Get("/{id}", handle(s.getTodoHandler))
		r.With(middleware.AllowContentType("application/json")).Put("/{id}", handle(s.updateTodoHandler))
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) error {
	todos, err := s.todos.ListTodos(r.Context())
	if err != nil {
		return Internal(err)
	}
	if todos == nil {
		todos = []domain.Todo{}
	}

	respondWithJSON(w, http.StatusOK, todos)
	return nil
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := parseTodoID(r)
	if err != nil {
		return err
	}

	todo, err := s.todos.GetTodo(r.Context(), id)
	if err != nil {
		return Internal(err)
	}
	if todo == nil {
		return NotFound()
	}

	respondWithJSON(w, http.StatusOK, todo)
	return nil
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) error {
	var req createTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if req.Description == nil {
		return missingField("description")
	}

	todo, err := s.todos.CreateTodo(r.Context(), *req.Description)
	if err != nil {
		return Internal(err)
	}

	respondWithJSON(w, http.StatusCreated, todo)
	return nil
}

// updateTodoHandler overwrites a todo. An unknown id is a provider failure
// and surfaces as 500, not 404.
func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := parseTodoID(r)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if req.Description == nil {
		return missingField("description")
	}
	if req.Done == nil {
		return missingField("done")
	}

	todo, err := s.todos.UpdateTodo(r.Context(), id, *req.Description, *req.Done)
	if err != nil {
		return Internal(err)
	}

	respondWithJSON(w, http.StatusOK, todo)
	return nil
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

package server

import (
	"net/http"

	"github.com/Tomlord1122/todo-provider/internal/config"
	"github.com/Tomlord1122/todo-provider/internal/database"
	"github.com/Tomlord1122/todo-provider/internal/provider"
)

// Server carries the dependencies shared by every handler. It is built once
// and never mutated afterwards.
type Server struct {
	todos          provider.TodoProvider
	db             database.Service
	allowedOrigins []string
}

// NewServer wires todos into the route table and returns a configured
// http.Server. db is optional; without it /health is not served.
func NewServer(cfg config.Server, todos provider.TodoProvider, db database.Service) *http.Server {
	appServer := &Server{
		todos:          todos,
		db:             db,
		allowedOrigins: cfg.AllowedOrigins,
	}

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

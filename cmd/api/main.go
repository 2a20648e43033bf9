package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/todo-provider/internal/config"
	"github.com/Tomlord1122/todo-provider/internal/database"
	"github.com/Tomlord1122/todo-provider/internal/provider"
	"github.com/Tomlord1122/todo-provider/internal/server"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, timeout time.Duration, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	ctxTimeout, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Closing database connection pool...")
	if err := dbService.Close(); err != nil {
		log.Printf("Error closing database connection pool: %v", err)
	} else {
		log.Println("Database connection pool closed.")
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// newProvider builds the todo provider for the open database and creates
// the todos table when autoMigrate is set.
func newProvider(ctx context.Context, cfg config.Database, dbService database.Service) (provider.TodoProvider, error) {
	type migrator interface {
		provider.TodoProvider
		Migrate(ctx context.Context) error
	}

	var p migrator
	switch dbService.Driver() {
	case config.DriverSQLite:
		p = provider.NewSQLiteTodoProvider(dbService.DB())
	case config.DriverPostgres:
		gormDB, err := database.NewGorm(dbService, cfg.LogQueries)
		if err != nil {
			return nil, err
		}
		p = provider.NewGormTodoProvider(gormDB)
	default:
		return nil, fmt.Errorf("no todo provider for driver %q", dbService.Driver())
	}

	if cfg.AutoMigrate {
		log.Println("Running database auto-migration...")
		if err := p.Migrate(ctx); err != nil {
			return nil, err
		}
		log.Println("Database auto-migration complete.")
	}
	return p, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Connected to %s database %s", cfg.Database.Driver, cfg.Database.Redacted())

	todoProvider, err := newProvider(context.Background(), cfg.Database, dbService)
	if err != nil {
		_ = dbService.Close()
		log.Fatalf("Failed to initialize todo provider: %v", err)
	}

	apiServer := server.NewServer(cfg.Server, todoProvider, dbService)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	go gracefulShutdown(apiServer, dbService, cfg.Server.ShutdownTimeout, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")
}

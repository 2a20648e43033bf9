// Package provider defines the storage boundary for todo items and its
// relational implementations.
//
// Every error returned by a provider is a *StorageError. Absence on lookup is
// not an error: GetTodo returns a nil todo and a nil error.
package provider

import (
	"context"
	"errors"

	"github.com/Tomlord1122/todo-provider/internal/domain"
)

// TodoProvider is the set of storage operations the HTTP layer depends on.
// Implementations must be safe for concurrent use.
type TodoProvider interface {
	// ListTodos returns every stored todo. The result is never nil.
	ListTodos(ctx context.Context) ([]domain.Todo, error)

	// GetTodo returns the todo with the given id, or nil if there is none.
	GetTodo(ctx context.Context, id int64) (*domain.Todo, error)

	// CreateTodo stores a new, not yet done, todo and returns it with its
	// storage-assigned id.
	CreateTodo(ctx context.Context, description string) (domain.Todo, error)

	// UpdateTodo overwrites description and done for the todo with the given
	// id. A missing row is reported as a StorageError wrapping ErrTodoNotFound.
	UpdateTodo(ctx context.Context, id int64, description string, done bool) (domain.Todo, error)
}

// ErrTodoNotFound marks an update that matched no row.
var ErrTodoNotFound = errors.New("todo not found")

// StorageError is the single failure type surfaced by providers.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

package provider

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/Tomlord1122/todo-provider/internal/domain"
)

//go:embed schema.sql
var sqliteSchema string

// SQLiteTodoProvider implements TodoProvider with plain SQL against a
// modernc.org/sqlite database handle.
type SQLiteTodoProvider struct {
	db *sql.DB
}

// NewSQLiteTodoProvider creates a provider backed by db. The handle must have
// been opened with the "sqlite" driver.
func NewSQLiteTodoProvider(db *sql.DB) *SQLiteTodoProvider {
	return &SQLiteTodoProvider{db: db}
}

// Migrate creates the todos table if it does not exist.
func (p *SQLiteTodoProvider) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, sqliteSchema); err != nil {
		return storageError("migrate todos", err)
	}
	return nil
}

func (p *SQLiteTodoProvider) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, description, done FROM todos ORDER BY id`)
	if err != nil {
		return nil, storageError("list todos", err)
	}
	defer rows.Close()

	todos := []domain.Todo{}
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(&todo.ID, &todo.Description, &todo.Done); err != nil {
			return nil, storageError("list todos", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list todos", err)
	}
	return todos, nil
}

func (p *SQLiteTodoProvider) GetTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	var todo domain.Todo
	err := p.db.QueryRowContext(ctx,
		`SELECT id, description, done FROM todos WHERE id = ?`, id,
	).Scan(&todo.ID, &todo.Description, &todo.Done)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get todo", err)
	}
	return &todo, nil
}

func (p *SQLiteTodoProvider) CreateTodo(ctx context.Context, description string) (domain.Todo, error) {
	var todo domain.Todo
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO todos (description, done) VALUES (?, FALSE) RETURNING id, description, done`, description,
	).Scan(&todo.ID, &todo.Description, &todo.Done)
	if err != nil {
		return domain.Todo{}, storageError("create todo", err)
	}
	return todo, nil
}

func (p *SQLiteTodoProvider) UpdateTodo(ctx context.Context, id int64, description string, done bool) (domain.Todo, error) {
	var todo domain.Todo
	err := p.db.QueryRowContext(ctx,
		`UPDATE todos SET description = ?, done = ? WHERE id = ? RETURNING id, description, done`,
		description, done, id,
	).Scan(&todo.ID, &todo.Description, &todo.Done)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: id %d", ErrTodoNotFound, id)
		}
		return domain.Todo{}, storageError("update todo", err)
	}
	return todo, nil
}

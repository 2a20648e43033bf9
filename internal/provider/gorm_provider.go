package provider

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-provider/internal/domain"
)

// GormTodoProvider implements TodoProvider on top of GORM. It is the
// production provider for Postgres.
type GormTodoProvider struct {
	db *gorm.DB
}

// NewGormTodoProvider creates a provider backed by db.
func NewGormTodoProvider(db *gorm.DB) *GormTodoProvider {
	return &GormTodoProvider{db: db}
}

// Migrate creates or updates the todos table.
func (p *GormTodoProvider) Migrate(ctx context.Context) error {
	if err := p.db.WithContext(ctx).AutoMigrate(&domain.Todo{}); err != nil {
		return storageError("migrate todos", err)
	}
	return nil
}

// ListTodos retrieves all todos ordered by id.
func (p *GormTodoProvider) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	result := p.db.WithContext(ctx).Order("id").Find(&todos)
	if result.Error != nil {
		return nil, storageError("list todos", result.Error)
	}
	return todos, nil
}

// GetTodo retrieves a todo by its primary key.
func (p *GormTodoProvider) GetTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	var todo domain.Todo
	result := p.db.WithContext(ctx).First(&todo, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("get todo", result.Error)
	}
	return &todo, nil
}

// CreateTodo inserts a new todo; Postgres fills the id through RETURNING.
func (p *GormTodoProvider) CreateTodo(ctx context.Context, description string) (domain.Todo, error) {
	todo := domain.Todo{Description: description, Done: false}
	if err := p.db.WithContext(ctx).Create(&todo).Error; err != nil {
		return domain.Todo{}, storageError("create todo", err)
	}
	return todo, nil
}

// UpdateTodo overwrites description and done in a single statement.
func (p *GormTodoProvider) UpdateTodo(ctx context.Context, id int64, description string, done bool) (domain.Todo, error) {
	var todo domain.Todo
	result := p.db.WithContext(ctx).
		Raw(`UPDATE todos SET description = ?, done = ? WHERE id = ? RETURNING id, description, done`,
			description, done, id).
		Scan(&todo)
	if result.Error != nil {
		return domain.Todo{}, storageError("update todo", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Todo{}, storageError("update todo", fmt.Errorf("%w: id %d", ErrTodoNotFound, id))
	}
	return todo, nil
}

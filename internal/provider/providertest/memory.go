package providertest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Tomlord1122/todo-provider/internal/domain"
	"github.com/Tomlord1122/todo-provider/internal/provider"
)

var _ provider.TodoProvider = (*Memory)(nil)

// Memory is an in-process TodoProvider. Ids start at 1 and are never reused.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	todos  map[int64]domain.Todo

	// Err, when set, is returned (wrapped in a StorageError) by every call.
	Err error
}

// NewMemory returns an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{nextID: 1, todos: make(map[int64]domain.Todo)}
}

func (m *Memory) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail("list todos"); err != nil {
		return nil, err
	}

	todos := make([]domain.Todo, 0, len(m.todos))
	for _, todo := range m.todos {
		todos = append(todos, todo)
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (m *Memory) GetTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail("get todo"); err != nil {
		return nil, err
	}

	todo, ok := m.todos[id]
	if !ok {
		return nil, nil
	}
	return &todo, nil
}

func (m *Memory) CreateTodo(ctx context.Context, description string) (domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create todo"); err != nil {
		return domain.Todo{}, err
	}

	todo := domain.Todo{ID: m.nextID, Description: description}
	m.todos[todo.ID] = todo
	m.nextID++
	return todo, nil
}

func (m *Memory) UpdateTodo(ctx context.Context, id int64, description string, done bool) (domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update todo"); err != nil {
		return domain.Todo{}, err
	}

	if _, ok := m.todos[id]; !ok {
		return domain.Todo{}, &provider.StorageError{
			Op:  "update todo",
			Err: fmt.Errorf("%w: id %d", provider.ErrTodoNotFound, id),
		}
	}
	todo := domain.Todo{ID: id, Description: description, Done: done}
	m.todos[id] = todo
	return todo, nil
}

func (m *Memory) fail(op string) error {
	if m.Err == nil {
		return nil
	}
	return &provider.StorageError{Op: op, Err: m.Err}
}

// Package providertest holds TodoProvider test doubles and a behavioural
// suite every provider implementation must pass.
package providertest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Tomlord1122/todo-provider/internal/domain"
	"github.com/Tomlord1122/todo-provider/internal/provider"
)

var _ provider.TodoProvider = (*MockTodoProvider)(nil)

// MockTodoProvider is a programmable TodoProvider. Set expectations with On
// using the method names, e.g.
//
//	p.On("GetTodo", mock.Anything, int64(1)).Return(&todo, nil).Once()
type MockTodoProvider struct {
	mock.Mock
}

// NewMockTodoProvider returns a mock whose expectations are asserted when the
// test finishes.
func NewMockTodoProvider(t mock.TestingT) *MockTodoProvider {
	m := &MockTodoProvider{}
	m.Test(t)
	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
	return m
}

func (m *MockTodoProvider) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	args := m.Called(ctx)
	todos, _ := args.Get(0).([]domain.Todo)
	return todos, args.Error(1)
}

func (m *MockTodoProvider) GetTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	args := m.Called(ctx, id)
	todo, _ := args.Get(0).(*domain.Todo)
	return todo, args.Error(1)
}

func (m *MockTodoProvider) CreateTodo(ctx context.Context, description string) (domain.Todo, error) {
	args := m.Called(ctx, description)
	todo, _ := args.Get(0).(domain.Todo)
	return todo, args.Error(1)
}

func (m *MockTodoProvider) UpdateTodo(ctx context.Context, id int64, description string, done bool) (domain.Todo, error) {
	args := m.Called(ctx, id, description, done)
	todo, _ := args.Get(0).(domain.Todo)
	return todo, args.Error(1)
}

package providertest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-provider/internal/domain"
	"github.com/Tomlord1122/todo-provider/internal/provider"
)

// RunContract exercises the TodoProvider contract. newProvider must return a
// provider over empty storage each time it is called.
func RunContract(t *testing.T, newProvider func(t *testing.T) provider.TodoProvider) {
	t.Helper()

	t.Run("ListEmpty", func(t *testing.T) {
		p := newProvider(t)
		todos, err := p.ListTodos(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	t.Run("CreateAssignsIDAndDefaults", func(t *testing.T) {
		p := newProvider(t)
		ctx := context.Background()

		first, err := p.CreateTodo(ctx, "buy milk")
		require.NoError(t, err)
		assert.Positive(t, first.ID)
		assert.Equal(t, "buy milk", first.Description)
		assert.False(t, first.Done)

		second, err := p.CreateTodo(ctx, "walk dog")
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("CreateAllowsEmptyDescription", func(t *testing.T) {
		p := newProvider(t)
		todo, err := p.CreateTodo(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "", todo.Description)
	})

	t.Run("GetReturnsCreated", func(t *testing.T) {
		p := newProvider(t)
		ctx := context.Background()

		created, err := p.CreateTodo(ctx, "test 1")
		require.NoError(t, err)

		got, err := p.GetTodo(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created, *got)
	})

	t.Run("GetMissingIsAbsent", func(t *testing.T) {
		p := newProvider(t)
		got, err := p.GetTodo(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("UpdateKeepsID", func(t *testing.T) {
		p := newProvider(t)
		ctx := context.Background()

		created, err := p.CreateTodo(ctx, "test 1")
		require.NoError(t, err)

		updated, err := p.UpdateTodo(ctx, created.ID, "test 1 (edited)", true)
		require.NoError(t, err)
		assert.Equal(t, domain.Todo{ID: created.ID, Description: "test 1 (edited)", Done: true}, updated)

		got, err := p.GetTodo(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, updated, *got)

		reverted, err := p.UpdateTodo(ctx, created.ID, "test 1", false)
		require.NoError(t, err)
		assert.False(t, reverted.Done)
	})

	t.Run("UpdateMissingIsStorageError", func(t *testing.T) {
		p := newProvider(t)
		_, err := p.UpdateTodo(context.Background(), 999, "nope", true)
		require.Error(t, err)

		var storageErr *provider.StorageError
		assert.True(t, errors.As(err, &storageErr), "error %v is not a StorageError", err)
		assert.ErrorIs(t, err, provider.ErrTodoNotFound)
	})

	t.Run("ListReturnsEveryTodo", func(t *testing.T) {
		p := newProvider(t)
		ctx := context.Background()

		want := map[int64]domain.Todo{}
		for _, description := range []string{"test 1", "test 2", "test 3"} {
			todo, err := p.CreateTodo(ctx, description)
			require.NoError(t, err)
			want[todo.ID] = todo
		}

		todos, err := p.ListTodos(ctx)
		require.NoError(t, err)
		require.Len(t, todos, len(want))
		for _, todo := range todos {
			assert.Equal(t, want[todo.ID], todo)
		}
	})

	t.Run("ConcurrentCreates", func(t *testing.T) {
		p := newProvider(t)
		ctx := context.Background()

		const n = 20
		var wg sync.WaitGroup
		ids := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				todo, err := p.CreateTodo(ctx, "concurrent")
				if assert.NoError(t, err) {
					ids <- todo.ID
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := map[int64]bool{}
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)

		todos, err := p.ListTodos(ctx)
		require.NoError(t, err)
		assert.Len(t, todos, n)
	})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-provider/internal/config"
	"github.com/Tomlord1122/todo-provider/internal/database"
	"github.com/Tomlord1122/todo-provider/internal/domain"
	"github.com/Tomlord1122/todo-provider/internal/provider"
	"github.com/Tomlord1122/todo-provider/internal/provider/providertest"
)

type testClient struct {
	t       *testing.T
	baseURL string
}

func startServer(t *testing.T, p provider.TodoProvider, db database.Service) *testClient {
	t.Helper()
	cfg := config.Server{Port: 8080, AllowedOrigins: []string{"https://*", "http://*"}}
	ts := httptest.NewServer(NewServer(cfg, p, db).Handler)
	t.Cleanup(ts.Close)
	return &testClient{t: t, baseURL: ts.URL}
}

func (c *testClient) do(method, path, body string) (int, http.Header, string) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res.StatusCode, res.Header, string(data)
}

func openSQLite(t *testing.T) (*provider.SQLiteTodoProvider, database.Service) {
	t.Helper()
	svc, err := database.New(config.Database{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "todos.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	p := provider.NewSQLiteTodoProvider(svc.DB())
	require.NoError(t, p.Migrate(context.Background()))
	return p, svc
}

// seedTodos inserts "test 1".."test 3", all not done.
func seedTodos(t *testing.T, p provider.TodoProvider) {
	t.Helper()
	for _, description := range []string{"test 1", "test 2", "test 3"} {
		_, err := p.CreateTodo(context.Background(), description)
		require.NoError(t, err)
	}
}

func TestScenario(t *testing.T) {
	backends := map[string]func(t *testing.T) provider.TodoProvider{
		"memory": func(t *testing.T) provider.TodoProvider { return providertest.NewMemory() },
		"sqlite": func(t *testing.T) provider.TodoProvider {
			p, _ := openSQLite(t)
			return p
		},
	}
	for name, newProvider := range backends {
		t.Run(name, func(t *testing.T) {
			c := startServer(t, newProvider(t), nil)

			status, header, body := c.do(http.MethodPost, "/todos", `{"description":"buy milk"}`)
			assert.Equal(t, http.StatusCreated, status)
			assert.Equal(t, "application/json", header.Get("Content-Type"))
			assert.Equal(t, `{"id":1,"description":"buy milk","done":false}`, body)

			status, _, body = c.do(http.MethodGet, "/todos/1", "")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, `{"id":1,"description":"buy milk","done":false}`, body)

			status, _, body = c.do(http.MethodPut, "/todos/1", `{"description":"buy milk","done":true}`)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, `{"id":1,"description":"buy milk","done":true}`, body)

			status, _, body = c.do(http.MethodGet, "/todos/1", "")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, `{"id":1,"description":"buy milk","done":true}`, body)

			status, _, body = c.do(http.MethodGet, "/todos/999", "")
			assert.Equal(t, http.StatusNotFound, status)
			assert.Empty(t, body)

			status, _, body = c.do(http.MethodPut, "/todos/999", `{"description":"ghost","done":true}`)
			assert.Equal(t, http.StatusInternalServerError, status)
			assert.Empty(t, body)
		})
	}
}

func TestSQLiteListSeeded(t *testing.T) {
	p, _ := openSQLite(t)
	seedTodos(t, p)
	c := startServer(t, p, nil)

	status, header, body := c.do(http.MethodGet, "/todos", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.JSONEq(t, `[
		{"id": 1, "description": "test 1", "done": false},
		{"id": 2, "description": "test 2", "done": false},
		{"id": 3, "description": "test 3", "done": false}
	]`, body)
}

func TestCreatedTodosAreListedAndReadable(t *testing.T) {
	p, _ := openSQLite(t)
	c := startServer(t, p, nil)

	created := map[int64]domain.Todo{}
	for _, description := range []string{"alpha", "", "gamma with spaces", "δέλτα"} {
		status, _, body := c.do(http.MethodPost, "/todos", `{"description":`+quote(t, description)+`}`)
		require.Equal(t, http.StatusCreated, status)

		var todo domain.Todo
		require.NoError(t, json.Unmarshal([]byte(body), &todo))
		assert.Positive(t, todo.ID)
		assert.NotContains(t, created, todo.ID)
		assert.Equal(t, description, todo.Description)
		assert.False(t, todo.Done)
		created[todo.ID] = todo

		status, _, readBody := c.do(http.MethodGet, "/todos/"+strconv.FormatInt(todo.ID, 10), "")
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, body, readBody)
	}

	status, _, body := c.do(http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, status)
	var todos []domain.Todo
	require.NoError(t, json.Unmarshal([]byte(body), &todos))
	assert.Len(t, todos, len(created))
	for _, todo := range todos {
		assert.Equal(t, created[todo.ID], todo)
	}
}

func TestHealth(t *testing.T) {
	p, svc := openSQLite(t)
	c := startServer(t, p, svc)

	status, _, body := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)

	var stats map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	assert.Equal(t, "up", stats["status"])

	require.NoError(t, svc.Close())
	status, _, body = c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	assert.Equal(t, "down", stats["status"])

	// With the pool closed every provider call fails, and clients see a bare 500.
	status, _, body = c.do(http.MethodGet, "/todos", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Empty(t, body)
}

func TestHealthNotServedWithoutDatabase(t *testing.T) {
	c := startServer(t, providertest.NewMemory(), nil)

	status, _, _ := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNewServerUsesConfig(t *testing.T) {
	cfg := config.Server{
		Port:         9090,
		ReadTimeout:  time.Second,
		WriteTimeout: 2 * time.Second,
		IdleTimeout:  3 * time.Second,
	}
	srv := NewServer(cfg, providertest.NewMemory(), nil)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.NotNil(t, srv.Handler)
}

func TestAppError(t *testing.T) {
	cause := errors.New("boom")

	notFound := NotFound()
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode())
	assert.Equal(t, "not found", notFound.Error())

	internal := Internal(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.StatusCode())
	assert.ErrorIs(t, internal, cause)
	assert.Contains(t, internal.Error(), "boom")
}

func TestWriteErrorTreatsUnknownErrorsAsInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()

	writeError(rec, req, errors.New("unexpected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func quote(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorKind classifies failures surfaced to clients.
type ErrorKind int

const (
	// KindInternal is any failure the client cannot act on. Maps to 500.
	KindInternal ErrorKind = iota
	// KindNotFound is a lookup that found nothing. Maps to 404.
	KindNotFound
)

// AppError is the error a handler returns to produce a status-only response.
type AppError struct {
	Kind ErrorKind
	Err  error
}

// NotFound reports a missing todo.
func NotFound() *AppError {
	return &AppError{Kind: KindNotFound}
}

// Internal wraps err as a 500. err is logged, never sent to the client.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Err: err}
}

func (e *AppError) Error() string {
	switch {
	case e.Kind == KindNotFound:
		return "not found"
	case e.Err != nil:
		return "internal error: " + e.Err.Error()
	default:
		return "internal error"
	}
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error kind.
func (e *AppError) StatusCode() int {
	if e.Kind == KindNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// handlerFunc is an HTTP handler that reports failure as a value.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts h to net/http, translating its error into a response.
func handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		http.Error(w, reqErr.msg, reqErr.status)
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	if appErr.Kind == KindInternal {
		log.Printf("[%s] %s %s failed: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, appErr.Err)
	}
	w.WriteHeader(appErr.StatusCode())
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// requestError is a malformed request, rejected before any provider call.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) *requestError {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

type createTodoRequest struct {
	Description *string `json:"description"`
}

type updateTodoRequest struct {
	Description *string `json:"description"`
	Done        *bool   `json:"done"`
}

func parseTodoID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, badRequest("Invalid todo ID provided")
	}
	return id, nil
}

// decodeJSON reads exactly one JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError):
			return badRequest("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return badRequest("Request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			return badRequest("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return badRequest("Request body contains unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.Is(err, io.EOF):
			return badRequest("Request body must not be empty")
		case errors.As(err, &maxBytesError):
			return badRequest("Request body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return Internal(fmt.Errorf("decode request body: %w", err))
		}
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest("Request body must only contain a single JSON object")
	}
	return nil
}

func missingField(name string) error {
	return badRequest("Request body is missing the %q field", name)
}

package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/pagination"
)

// PaginationParams reads limit and cursor query parameters.
func PaginationParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}

	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return params, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return pagination.Params{}, errors.New(errors.CodeValidation, "limit must be a positive integer")
	}
	params.Limit = limit
	return params, nil
}

// Int64Param reads a numeric chi route parameter.
func Int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return 0, errors.New(errors.CodeValidation, name+" must be a positive integer")
	}
	return value, nil
}

// UUIDParam reads a uuid chi route parameter.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	value, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.New(errors.CodeValidation, name+" must be a valid uuid")
	}
	return value, nil
}

package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
)

// ParseURLInt64 reads a positive integer path parameter.
func ParseURLInt64(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive integer").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryInt64Ptr reads an optional integer query parameter,
// returning nil when absent.
func ParseQueryInt64Ptr(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

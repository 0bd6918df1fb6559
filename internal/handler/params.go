package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// pathUUID binds a {name} path parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := bindPath(r, name, &id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// pathInt binds a {name} path parameter as an int.
func pathInt(r *http.Request, name string) (int, error) {
	var n int
	if err := bindPath(r, name, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func bindPath(r *http.Request, name string, dst any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return fmt.Errorf("invalid path parameter %s: %w", name, err)
	}
	return nil
}

// queryParam binds an optional form-style query parameter. dst is left
// untouched when the parameter is absent.
func queryParam(r *http.Request, name string, dst any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		return fmt.Errorf("invalid query parameter %s: %w", name, err)
	}
	return nil
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/mindmax/mood-journal/internal/api/middleware"
	"github.com/mindmax/mood-journal/internal/core/domain"
)

// ctxUserID returns the caller's id. An empty value means the route was
// mounted without the Auth middleware; treat it as unauthenticated.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", domain.ErrMissingToken
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the schema.
// A field of the wrong JSON type is reported as a validation failure on that
// field; anything else that cannot be decoded is ErrInvalidPayload.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			verr := domain.NewValidationError()
			verr.Add(ute.Field, fmt.Sprintf("%s must be %s", ute.Field, jsonKind(ute.Type)))
			return verr
		}
		return domain.ErrInvalidPayload
	}
	return c.Validate(req)
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	default:
		return "a valid " + t.String()
	}
}

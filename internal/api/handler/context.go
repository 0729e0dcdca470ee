package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/dispatch-coordinator/internal/api/middleware"
	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
)

// actingDriver resolves the driverId a request acts for. With auth enabled a
// driver may only act for itself: an empty driverId defaults to the token
// subject and any other value is forbidden. Without auth, or for other
// roles, driverID is returned unchanged.
func actingDriver(c echo.Context, driverID string) (string, error) {
	role, _ := c.Get(middleware.ContextRole).(string)
	if role != domain.RoleDriver {
		return driverID, nil
	}

	subject, _ := c.Get(middleware.ContextSubject).(string)
	if subject == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if driverID == "" {
		return subject, nil
	}
	if driverID != subject {
		return "", echo.NewHTTPError(http.StatusForbidden, "drivers may only act for themselves")
	}
	return driverID, nil
}

// bind decodes the request into dst. Malformed payloads are validation
// failures, so a non-numeric price reads "price must be a number".
func bind(c echo.Context, dst interface{}) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, echo.ErrUnsupportedMediaType) {
		return err
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return fmt.Errorf("%w: %s must be a %s", domain.ErrValidation, ute.Field, jsonKind(ute.Type))
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}
	return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	default:
		return t.Kind().String()
	}
}

// Package validation holds the pure input checks that run before the
// coordination service touches any registry or store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

var (
	trackingIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// timestampLayouts are the ISO-8601 forms accepted for a dispatch ETA.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Validator wraps go-playground/validator with the tags used by the
// coordination inputs. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom tags registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("name"); name != "" {
			return name
		}
		return f.Name
	})
	_ = v.RegisterValidation("trackingid", func(fl validator.FieldLevel) bool {
		return trackingIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

// ValidateTrackingID checks a bare tracking code, as used by the list endpoint.
func (ev *Validator) ValidateTrackingID(trackingID string) error {
	if err := ev.v.Var(trackingID, "required,trackingid"); err != nil {
		return ev.wrap(err, "trackingId")
	}
	return nil
}

// ValidateOfferInput checks a bid before any lookup happens.
func (ev *Validator) ValidateOfferInput(in ports.CreateOfferInput) error {
	return ev.wrap(ev.v.Struct(in), "")
}

// ValidateAcceptInput checks an accept request.
func (ev *Validator) ValidateAcceptInput(in ports.AcceptOfferInput) error {
	return ev.wrap(ev.v.Struct(in), "")
}

// ValidateDispatchInput checks the dispatch details, including that the ETA parses.
func (ev *Validator) ValidateDispatchInput(in ports.SubmitDispatchInput) error {
	return ev.wrap(ev.v.Struct(in), "")
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO-8601 timestamp", s)
}

// wrap converts validator errors into a single domain.ErrValidation.
// field names the value for Var checks, which carry no struct field name.
func (ev *Validator) wrap(err error, field string) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe, field))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError, fallback string) string {
	field := fe.Field()
	if field == "" {
		field = fallback
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "trackingid":
		return field + " may only contain letters, digits, '-' and '_'"
	case "phone":
		return field + " must be a phone number in international format"
	case "iso8601":
		return field + " must be an ISO-8601 timestamp"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

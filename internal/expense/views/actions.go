package views

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
)

var (
	ErrUnknownAction = errors.New("views: unknown action")
	ErrValidation    = errors.New("views: validation failed")
)

// ValidationError carries per-field messages keyed by JSON field path.
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Details[k])
	}
	return e.Message + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ActionResult acknowledges an accepted submission. The payload itself is
// discarded.
type ActionResult struct {
	Page    domain.PageKey `json:"page"`
	Action  string         `json:"action"`
	Message string         `json:"message"`
}

type action struct {
	newForm func() any
	message func(p *bluemonday.Policy, form any) string
}

// handle binds a typed form to the message it produces once valid.
func handle[F any](msg func(p *bluemonday.Policy, f *F) string) action {
	return action{
		newForm: func() any { return new(F) },
		message: func(p *bluemonday.Policy, form any) string { return msg(p, form.(*F)) },
	}
}

// fixed is an action whose message does not depend on the payload.
func fixed[F any](msg string) action {
	return handle(func(*bluemonday.Policy, *F) string { return msg })
}

// Perform validates payload against the form of page/name and returns the
// confirmation message. An empty payload is validated as an empty form.
func (r *Router) Perform(page domain.PageKey, name string, payload []byte) (ActionResult, error) {
	a, ok := r.actions[page][name]
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: %s/%s", ErrUnknownAction, page, name)
	}

	form := a.newForm()
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, form); err != nil {
			return ActionResult{}, decodeError(err)
		}
	}
	if err := r.validate.Struct(form); err != nil {
		return ActionResult{}, validationError(err)
	}

	return ActionResult{
		Page:    page,
		Action:  name,
		Message: a.message(r.policy, form),
	}, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fieldPath(fe)
		details[field] = fieldError(field, fe)
	}
	return &ValidationError{Message: "invalid form", Details: details}
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldError(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must have length %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date (%s)", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func decodeError(err error) error {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return &ValidationError{
			Message: "invalid form",
			Details: map[string]string{te.Field: te.Field + " must be a " + te.Type.Kind().String()},
		}
	}
	return &ValidationError{Message: "malformed request body"}
}

// attachmentSuffix lists sanitized attachment names the way the upload
// forms echo them.
func attachmentSuffix(p *bluemonday.Policy, names []string) string {
	clean := make([]string, 0, len(names))
	for _, n := range names {
		if s := strings.TrimSpace(p.Sanitize(n)); s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return ""
	}
	return "\nAttached files: " + strings.Join(clean, ", ")
}

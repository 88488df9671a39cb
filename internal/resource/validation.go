package resource

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/pkg/shopapi"
)

// FieldErrors maps a form field (its json name) to the message shown under it.
// The key "" holds a message that belongs to the form as a whole.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			parts = append(parts, f[k])
			continue
		}
		parts = append(parts, k+": "+f[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateForm runs the `validate` tags of form and converts failures into
// FieldErrors. It returns nil when the form is valid.
func ValidateForm(v *validator.Validate, form any) FieldErrors {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "numeric", "number":
		return "Enter a number."
	case "gte", "min":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed %s check.", fe.Tag())
	}
}

// FromAPIError turns a backend validation failure into inline messages.
// Other errors are not field errors and yield nil.
func FromAPIError(err error) FieldErrors {
	var apiErr *shopapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != shopapi.KindValidation {
		return nil
	}
	out := make(FieldErrors, len(apiErr.Fields)+1)
	for field, msgs := range apiErr.Fields {
		out[field] = strings.Join(msgs, " ")
	}
	if len(apiErr.Fields) == 0 {
		out[""] = apiErr.Message
	}
	return out
}

// Parser converts form strings to payload numbers, collecting a FieldErrors
// entry for every value that does not parse. Blank optional values become zero.
type Parser struct {
	errs FieldErrors
}

func (p *Parser) fail(field, msg string) {
	if p.errs == nil {
		p.errs = make(FieldErrors)
	}
	p.errs[field] = msg
}

// Int parses a whole number.
func (p *Parser) Int(field, s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(field, "Enter a whole number.")
		return 0
	}
	return n
}

// IntAtLeast parses a whole number no smaller than min.
func (p *Parser) IntAtLeast(field, s string, min int) int {
	n := p.Int(field, s)
	if _, failed := p.errs[field]; !failed && n < min {
		p.fail(field, fmt.Sprintf("Must be at least %d.", min))
	}
	return n
}

// WholeAmount parses an amount that the backend stores as an integer,
// accepting "1500" and "1500.00".
func (p *Parser) WholeAmount(field, s string) int {
	m := p.Money(field, s)
	if !m.IsInteger() {
		p.fail(field, "Enter a whole amount.")
		return 0
	}
	return int(m.IntPart())
}

// Money parses a non-negative decimal amount.
func (p *Parser) Money(field, s string) models.Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Money{}
	}
	m, err := models.ParseMoney(s)
	if err != nil {
		p.fail(field, "Enter an amount.")
		return models.Money{}
	}
	if m.IsNegative() {
		p.fail(field, "Amount cannot be negative.")
	}
	return m
}

// Fields returns a copy of the collected errors; callers may add their own.
func (p *Parser) Fields() FieldErrors {
	out := make(FieldErrors, len(p.errs))
	for k, v := range p.errs {
		out[k] = v
	}
	return out
}

// Err returns the collected FieldErrors, or nil.
func (p *Parser) Err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs
}

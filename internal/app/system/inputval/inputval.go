// Package inputval provides request input validation using go-playground/validator.
//
// Define an input struct with validate tags, decode the request body into it,
// and call Validate to get user-facing messages. Every broken rule is
// reported, in struct order, with one message per rule.
//
// Example:
//
//	type RegisterInput struct {
//	    Name  string `json:"nome" validate:"required"`
//	    Email string `json:"email" validate:"required,mailaddr"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    jsonutil.Messages(w, http.StatusUnprocessableEntity, res.Messages())
//	    return
//	}
package inputval

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Result holds validation results with user-friendly messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// Messages returns every error message in field order.
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return msgs
}

// customValidator is a singleton validator with custom rules registered.
var (
	customValidator *validator.Validate
	validatorOnce   sync.Once
)

// getValidator returns the singleton validator with custom rules.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		customValidator = validator.New()

		// mailaddr: bare address with a dotted domain
		_ = customValidator.RegisterValidation("mailaddr", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
	})
	return customValidator
}

// Validate validates a struct and returns a Result with user-friendly errors.
//
// Supported rules:
//   - required: field must not be empty
//   - mailaddr: field must be a bare email address
//   - alphanum: ASCII letters and digits only
//   - min=N / max=N: string length bounds
func Validate(s any) *Result {
	return ValidateDecoded(s, nil)
}

// ValidateDecoded validates s after decoding it with jsonutil.Decode.
//
// Each rule in a field's validate tag is checked on its own, so a value
// that breaks several rules gets one message per rule. A failed required
// skips the remaining rules of that field. When decodeErr is a
// *json.UnmarshalTypeError the mistyped field is reported as a type error
// in place of its rules.
func ValidateDecoded(s any, decodeErr error) *Result {
	result := &Result{}

	var typeErr *json.UnmarshalTypeError
	if errors.As(decodeErr, &typeErr) && typeErr.Field == "" {
		result.add("value", "object", `"value" must be of type object`)
		return result
	}

	v := reflect.Indirect(reflect.ValueOf(s))
	if v.Kind() != reflect.Struct {
		result.add("", "invalid", "invalid input")
		return result
	}

	typeReported := typeErr == nil
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)

		if typeErr != nil && name == typeErr.Field {
			result.add(name, "type", typeMessage(name, typeErr.Type))
			typeReported = true
			continue
		}

		tag := f.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}
		rules := strings.Split(tag, ",")
		value := v.Field(i)
		if value.IsZero() && !slices.Contains(rules, "required") {
			continue
		}

		for _, rule := range rules {
			if err := getValidator().Var(value.Interface(), rule); err != nil {
				ruleName, param, _ := strings.Cut(rule, "=")
				result.add(name, ruleName, formatMessage(name, ruleName, param))
				if ruleName == "required" {
					break
				}
			}
		}
	}

	if !typeReported {
		result.add(typeErr.Field, "type", typeMessage(typeErr.Field, typeErr.Type))
	}
	return result
}

// IsDecodeFailure reports whether err from jsonutil.Decode means the body
// could not be read as JSON at all. Type mismatches are not decode failures;
// ValidateDecoded reports them per field.
func IsDecodeFailure(err error) bool {
	if err == nil {
		return false
	}
	var typeErr *json.UnmarshalTypeError
	return !errors.As(err, &typeErr)
}

func (r *Result) add(field, rule, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Rule: rule, Message: msg})
}

// fieldName reports a field by its JSON name, which is what clients send.
func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func typeMessage(field string, t reflect.Type) string {
	label := fmt.Sprintf("%q", field)
	if t == nil {
		return label + " is invalid"
	}
	switch t.Kind() {
	case reflect.String:
		return label + " must be a string"
	case reflect.Bool:
		return label + " must be a boolean"
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return label + " must be a number"
	default:
		return label + " must be of type " + t.Kind().String()
	}
}

// formatMessage renders a rule failure the way the wallet clients already
// display them: the quoted field name followed by the broken constraint.
func formatMessage(field, rule, param string) string {
	label := fmt.Sprintf("%q", field)
	switch rule {
	case "required":
		return label + " is required"
	case "mailaddr", "email":
		return label + " must be a valid email"
	case "alphanum":
		return label + " must only contain alpha-numeric characters"
	case "min":
		return label + " length must be at least " + param + " characters long"
	case "max":
		return label + " length must be less than or equal to " + param + " characters long"
	default:
		return label + " is invalid"
	}
}

// IsValidEmail checks if the given string is a bare email address.
//
// The address must parse with net/mail and its domain must be a dotted
// host name ending in a letter-led label, so "ana@x" and address literals
// such as "ana@[127.0.0.1]" are rejected.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	// ParseAddress accepts "Name <email>" format, so verify the address
	// matches what we passed in (just the email part).
	if addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if strings.HasSuffix(domain, ".") {
		return false
	}
	return getValidator().Var(domain, "fqdn") == nil
}

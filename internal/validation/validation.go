// Package validation checks raw form values against a field schema.
//
// Each field carries a list of constraints. Every constraint of a field is
// evaluated, so a value that is both too short and malformed reports both
// messages. Validation is a pure function of its inputs.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Constraint is a single check applied to a field value.
type Constraint struct {
	// Tag is a go-playground/validator tag, e.g. "min=2" or "email".
	Tag     string
	Message string
}

// Required rejects empty values.
func Required(message string) Constraint {
	return Constraint{Tag: "required", Message: message}
}

// MinLen rejects values with fewer than n characters.
func MinLen(n int, message string) Constraint {
	return Constraint{Tag: fmt.Sprintf("min=%d", n), Message: message}
}

// MaxLen rejects values with more than n characters.
func MaxLen(n int, message string) Constraint {
	return Constraint{Tag: fmt.Sprintf("max=%d", n), Message: message}
}

// Email rejects values that are not an email address.
func Email(message string) Constraint {
	return Constraint{Tag: "email", Message: message}
}

// Field names a form field and the constraints its value must satisfy.
type Field struct {
	Name        string
	Constraints []Constraint
}

// Schema is an ordered set of fields.
type Schema []Field

// Result is the outcome of Validate. When Valid reports true, Data holds the
// normalized values. Otherwise Errors maps each failing field to its messages and
// Values echoes the raw input unchanged.
type Result struct {
	Data   map[string]string
	Errors map[string][]string
	Values map[string]string
}

// Valid reports whether every field passed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Engine evaluates schemas. It is safe for concurrent use.
type Engine struct {
	validate *validator.Validate
}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{validate: validator.New()}
}

// Validate checks raw against schema. Values are trimmed of surrounding whitespace
// before they are checked; a field missing from raw is checked as "".
func (e *Engine) Validate(schema Schema, raw map[string]string) Result {
	data := make(map[string]string, len(schema))
	fieldErrors := make(map[string][]string)

	for _, field := range schema {
		value := normalize(raw[field.Name])
		for _, c := range field.Constraints {
			if err := e.validate.Var(value, c.Tag); err != nil {
				fieldErrors[field.Name] = append(fieldErrors[field.Name], c.Message)
			}
		}
		data[field.Name] = value
	}

	if len(fieldErrors) > 0 {
		return Result{Errors: fieldErrors, Values: copyValues(raw)}
	}
	return Result{Data: data}
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}

func copyValues(raw map[string]string) map[string]string {
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[k] = v
	}
	return values
}

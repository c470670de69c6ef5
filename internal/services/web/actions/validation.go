package actions

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// FieldError names one invalid request field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the invalid fields of a request in check order.
type ValidationError struct {
	Fields []FieldError
}

// Error returns the first field message.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid request"
	}
	return e.Fields[0].Message
}

// Details returns the field messages keyed by field name.
func (e *ValidationError) Details() map[string]any {
	if e == nil {
		return nil
	}
	details := make(map[string]any, len(e.Fields))
	for _, field := range e.Fields {
		if _, seen := details[field.Field]; !seen {
			details[field.Field] = field.Message
		}
	}
	return details
}

type checker struct {
	fields []FieldError
}

func (c *checker) add(field, message string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
}

func (c *checker) required(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		c.add(field, message)
	}
}

func (c *checker) email(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		c.add(field, "Email is required")
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		c.add(field, "Email is invalid")
	}
}

func (c *checker) role(field, value string) {
	if _, err := snapshot.ParseRole(value); err != nil {
		c.add(field, "Role must be owner, admin or member")
	}
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

func validationFailure[T any](err error, fallback string) actionresult.Result[T] {
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		return actionresult.Failure[T](fallback, actionresult.WithCode(CodeValidation))
	}
	return actionresult.Failure[T](
		invalid.Error(),
		actionresult.WithCode(CodeValidation),
		actionresult.WithDetails(invalid.Details()),
	)
}

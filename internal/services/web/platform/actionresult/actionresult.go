// Package actionresult defines the success/failure envelope returned by every
// server-side action.
//
// A Result carries exactly one variant. Callers branch on OK and never need
// to inspect errors: failures travel as data, including across the JSON
// boundary to interactive clients.
package actionresult

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Result is the envelope for an action producing T.
type Result[T any] struct {
	ok      bool
	data    T
	message string
	code    string
	details map[string]any
}

// FailureOption decorates a failure result.
type FailureOption func(*failureFields)

type failureFields struct {
	code    string
	details map[string]any
}

// WithCode attaches a machine-readable failure code.
func WithCode(code string) FailureOption {
	return func(f *failureFields) { f.code = strings.TrimSpace(code) }
}

// WithDetails attaches structured failure details.
func WithDetails(details map[string]any) FailureOption {
	return func(f *failureFields) {
		if len(details) == 0 {
			return
		}
		f.details = details
	}
}

// Success builds a successful result.
func Success[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data}
}

// Failure builds a failed result. An empty message is replaced with a
// generic one so failures are never blank.
func Failure[T any](message string, opts ...FailureOption) Result[T] {
	message = strings.TrimSpace(message)
	if message == "" {
		message = UnexpectedMessage
	}
	var fields failureFields
	for _, opt := range opts {
		if opt != nil {
			opt(&fields)
		}
	}
	return Result[T]{message: message, code: fields.code, details: fields.details}
}

// UnexpectedMessage is the message used when no better one is available.
const UnexpectedMessage = "An unexpected error occurred"

// OK reports whether the result is a success.
func (r Result[T]) OK() bool { return r.ok }

// Data returns the success payload, or the zero value on failure.
func (r Result[T]) Data() T { return r.data }

// Message returns the failure message, or "" on success.
func (r Result[T]) Message() string { return r.message }

// Code returns the optional failure code.
func (r Result[T]) Code() string { return r.code }

// Details returns the optional failure details.
func (r Result[T]) Details() map[string]any { return r.details }

// Map re-types a result, transforming its payload on success.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Result[U]{message: r.message, code: r.code, details: r.details}
	}
	return Result[U]{ok: true, data: fn(r.data)}
}

// Discard drops the payload while keeping the variant.
func Discard[T any](r Result[T]) Result[struct{}] {
	return Map(r, func(T) struct{} { return struct{}{} })
}

type wireResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *string         `json:"error"`
	Code    string          `json:"code,omitempty"`
	Details map[string]any  `json:"details,omitempty"`
}

// MarshalJSON renders the success/failure wire shape.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if !r.ok {
		message := r.message
		return json.Marshal(wireResult{Success: false, Error: &message, Code: r.code, Details: r.details})
	}
	data, err := json.Marshal(r.data)
	if err != nil {
		return nil, fmt.Errorf("marshal result data: %w", err)
	}
	return json.Marshal(wireResult{Success: true, Data: data})
}

// UnmarshalJSON decodes the wire shape and rejects payloads carrying both or
// neither variant.
func (r *Result[T]) UnmarshalJSON(raw []byte) error {
	var wire wireResult
	if err := json.Unmarshal(raw, &wire); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	hasData := len(wire.Data) > 0 && !bytes.Equal(bytes.TrimSpace(wire.Data), []byte("null"))
	if wire.Success {
		if wire.Error != nil {
			return errors.New("decode result: success carries an error")
		}
		var data T
		if len(wire.Data) > 0 {
			if err := json.Unmarshal(wire.Data, &data); err != nil {
				return fmt.Errorf("decode result data: %w", err)
			}
		}
		*r = Result[T]{ok: true, data: data}
		return nil
	}
	if hasData {
		return errors.New("decode result: failure carries data")
	}
	if wire.Error == nil || strings.TrimSpace(*wire.Error) == "" {
		return errors.New("decode result: failure without message")
	}
	*r = Result[T]{message: *wire.Error, code: wire.Code, details: wire.Details}
	return nil
}

// Write encodes a result as a JSON response.
func Write[T any](w http.ResponseWriter, status int, r Result[T]) error {
	if w == nil {
		return errors.New("response writer is required")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(r)
}

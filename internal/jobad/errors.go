package jobad

import (
	"errors"
	"fmt"
)

// Kind classifies why a check failed.
type Kind string

const (
	KindUnsuccessfulResponse Kind = "UnsuccessfulResponse"
	KindMissingField         Kind = "MissingField"
	KindFieldMismatch        Kind = "FieldMismatch"
	KindBlankField           Kind = "BlankField"
	KindUnexpectedStatus     Kind = "UnexpectedStatus"
	// KindMalformedJSON is fatal: it is returned as an error and never
	// recorded as a regular check.
	KindMalformedJSON Kind = "MalformedJSON"
)

// Failure is a failed check. Field is the dotted JSON path, empty for
// response-level failures.
type Failure struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	msg := string(f.Kind)
	if f.Field != "" {
		msg += " " + f.Field
	}
	if f.Message != "" {
		msg += ": " + f.Message
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsKind reports whether err is or wraps a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var failure *Failure
	if !errors.As(err, &failure) {
		return false
	}
	return failure.Kind == kind
}

func missing(field string) *Failure {
	return &Failure{Kind: KindMissingField, Field: field, Message: "not present in response"}
}

func blank(field string) *Failure {
	return &Failure{Kind: KindBlankField, Field: field, Message: "value is empty"}
}

func mismatch(field string, want, got any) *Failure {
	return &Failure{
		Kind:    KindFieldMismatch,
		Field:   field,
		Message: fmt.Sprintf("want %q, got %q", fmt.Sprint(want), fmt.Sprint(got)),
	}
}

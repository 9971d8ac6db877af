package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to API clients.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindStorage       ErrorKind = "storage"
	KindConflict      ErrorKind = "conflict"
	KindInternal      ErrorKind = "internal"
)

var (
	ErrTaskNotFound       = NotFound("task")
	ErrCommentNotFound    = NotFound("comment")
	ErrAttachmentNotFound = NotFound("attachment")
	ErrUserNotFound       = NotFound("user")
	ErrBlobNotFound       = NotFound("blob")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = &Error{Kind: KindConflict, Resource: "user", Fields: map[string]string{"email": "taken"}}
)

// Error is the typed failure returned by services. Fields carries per-field
// validation details; Resource names the entity involved.
type Error struct {
	Kind     ErrorKind
	Resource string
	Action   string
	Fields   map[string]string
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Resource != "" {
		msg = e.Resource + ": " + msg
	}
	if e.Action != "" {
		msg += " (" + e.Action + ")"
	}
	if len(e.Fields) > 0 {
		msg += fmt.Sprintf(" %v", e.Fields)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind and resource so sentinel values such as
// ErrTaskNotFound can be compared with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Resource == t.Resource && t.Action == "" && len(t.Fields) == 0
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource}
}

func Forbidden(resource, action string) *Error {
	return &Error{Kind: KindAuthorization, Resource: resource, Action: action}
}

func Storage(resource string, err error) *Error {
	return &Error{Kind: KindStorage, Resource: resource, Err: err}
}

// ValidationErrors accumulates field-level problems.
type ValidationErrors map[string]string

func (v ValidationErrors) Add(field, rule string) {
	if _, exists := v[field]; !exists {
		v[field] = rule
	}
}

// Err returns nil when no field failed.
func (v ValidationErrors) Err(resource string) error {
	if len(v) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Resource: resource, Fields: map[string]string(v)}
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

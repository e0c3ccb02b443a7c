package docset

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrIO       ErrorKind = "io"
	ErrSQL      ErrorKind = "sql"
	ErrSchema   ErrorKind = "schema"
	ErrNotFound ErrorKind = "not_found"
	ErrCodec    ErrorKind = "codec"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Key     string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Key != "" {
		base = fmt.Sprintf("%s (key=%s)", base, e.Key)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func SchemaError(msg string) *Error {
	return &Error{Kind: ErrSchema, Message: msg}
}

func NotFoundError(key string) *Error {
	return &Error{Kind: ErrNotFound, Message: "document not found", Key: key}
}

func withKey(e *Error, key string) *Error {
	e.Key = key
	return e
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

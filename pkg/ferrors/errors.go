// Package ferrors implements the error taxonomy described by the file
// server's design: every expected failure carries an HTTP status and a
// human-readable reason, and is classified into one of a small number of
// kinds (parse, url, media, store, config) at the point it is raised.
//
// The fluent With/Withf builder style is modeled on
// github.com/mutablelogic/go-server/pkg/httpresponse (see its use in
// pkg/backend/blob.go and pkg/httphandler/object.go of the go-filer
// lineage), but the type is implemented locally so the status code and
// taxonomy kind can be read back directly by the wire codec, which has no
// dependency on net/http.
package ferrors

import (
	"errors"
	"fmt"
)

// Kind identifies which of the taxonomy's five families produced an error.
type Kind int

const (
	KindParse Kind = iota
	KindURL
	KindMedia
	KindStore
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindURL:
		return "URLError"
	case KindMedia:
		return "MediaError"
	case KindStore:
		return "StoreError"
	case KindConfig:
		return "ConfigError"
	default:
		return "Error"
	}
}

// Error is a status-carrying error. It is returned by every layer of the
// server that can fail in a way the client is meant to see.
type Error struct {
	kind   Kind
	status int
	reason string
	cause  error
}

func (e *Error) Error() string {
	if e.reason == "" {
		return e.kind.String()
	}
	return e.reason
}

// Status returns the HTTP status code associated with the error.
func (e *Error) Status() int { return e.status }

// Kind returns the taxonomy family the error belongs to.
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Unwrap() error { return e.cause }

// With returns a copy of the error whose reason is replaced by a literal
// reason; an empty reason keeps the existing one.
func (e *Error) With(reason string) *Error {
	cp := *e
	if reason != "" {
		cp.reason = reason
	}
	return &cp
}

// Withf returns a copy of the error whose reason is replaced by a formatted
// reason.
func (e *Error) Withf(format string, args ...any) *Error {
	return e.With(fmt.Sprintf(format, args...))
}

// WithCause attaches an underlying cause for Unwrap/errors.Is chains.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

func newError(kind Kind, status int, reason string) *Error {
	return &Error{kind: kind, status: status, reason: reason}
}

////////////////////////////////////////////////////////////////////////////////
// CONSTRUCTORS — one family per error kind

// ParseError covers malformed request lines, headers or bodies (400), a
// missing Content-Length on a body-bearing request (411), and an HTTP
// version mismatch (505).
func ParseError(status int, reason string) *Error { return newError(KindParse, status, reason) }

// URLError covers unrecognized endpoints, missing path segments, unknown
// actions and invalid identifiers (400 or 404).
func URLError(status int, reason string) *Error { return newError(KindURL, status, reason) }

// MediaError covers an unsupported request content type (415) or no
// acceptable response type (406).
func MediaError(status int, reason string) *Error { return newError(KindMedia, status, reason) }

// StoreError covers name collisions, missing files, and I/O failures in the
// file store (400, 404, 500).
func StoreError(status int, reason string) *Error { return newError(KindStore, status, reason) }

// ConfigError is fatal and prevents startup; it carries no HTTP status
// because it is never serialized to a client.
func ConfigError(reason string) *Error { return newError(KindConfig, 0, reason) }

////////////////////////////////////////////////////////////////////////////////
// INSPECTION

// StatusOf extracts the HTTP status from err, defaulting to 500 for errors
// that don't carry one (i.e. weren't produced by this package).
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.status
	}
	return 500
}

// KindOf extracts the taxonomy kind, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return 0, false
}

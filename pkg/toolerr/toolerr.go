// Package toolerr defines the failure kinds shared by the runner, the registry
// and the tool adapters. Every kind renders as a single identifiable line so
// operators can tell infrastructure problems from usage errors.
package toolerr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrToolUnavailable     = errors.New("tool missing")
	ErrInvalidParameters   = errors.New("bad input")
	ErrSpawnFailure        = errors.New("spawn failed")
	ErrExecutionTimeout    = errors.New("timed out")
	ErrUnknownTool         = errors.New("unknown tool")
	ErrDuplicateIdentifier = errors.New("duplicate tool")
	ErrCanceled            = errors.New("canceled")
)

// Error is a classified failure. Kind is one of the sentinel errors above.
type Error struct {
	Kind    error
	Tool    string
	Timeout time.Duration
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	b.WriteString(": ")
	switch {
	case errors.Is(e.Kind, ErrToolUnavailable):
		fmt.Fprintf(&b, "%s not found or not executable", e.Tool)
	case errors.Is(e.Kind, ErrExecutionTimeout):
		fmt.Fprintf(&b, "%s did not finish within %s and was killed", e.Tool, e.Timeout)
	default:
		parts := make([]string, 0, 3)
		if e.Tool != "" {
			parts = append(parts, e.Tool)
		}
		if e.Detail != "" {
			parts = append(parts, e.Detail)
		}
		if e.Err != nil {
			parts = append(parts, e.Err.Error())
		}
		b.WriteString(strings.Join(parts, ": "))
	}
	// Keep the single-line contract even when a cause carries newlines.
	return strings.ReplaceAll(b.String(), "\n", " ")
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Unavailable(binary string) error {
	return &Error{Kind: ErrToolUnavailable, Tool: binary}
}

func Timeout(binary string, timeout time.Duration) error {
	return &Error{Kind: ErrExecutionTimeout, Tool: binary, Timeout: timeout}
}

func Spawn(binary string, cause error) error {
	return &Error{Kind: ErrSpawnFailure, Tool: binary, Err: cause}
}

func Canceled(binary string, cause error) error {
	return &Error{Kind: ErrCanceled, Tool: binary, Err: cause}
}

func Unknown(id string) error {
	return &Error{Kind: ErrUnknownTool, Detail: fmt.Sprintf("%q", id)}
}

func Duplicate(id string) error {
	return &Error{Kind: ErrDuplicateIdentifier, Detail: fmt.Sprintf("%q is already registered", id)}
}

// Invalid wraps a validation failure. The cause is kept so callers can inspect
// validator.ValidationErrors.
func Invalid(cause error) error {
	return &Error{Kind: ErrInvalidParameters, Err: cause}
}

// Invalidf reports a validation failure described by a format string.
func Invalidf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidParameters, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the short name of the failure kind, or "error" for
// unclassified errors. It is used as the error_kind column of the audit log.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrToolUnavailable):
		return "tool_unavailable"
	case errors.Is(err, ErrInvalidParameters):
		return "invalid_parameters"
	case errors.Is(err, ErrSpawnFailure):
		return "spawn_failure"
	case errors.Is(err, ErrExecutionTimeout):
		return "execution_timeout"
	case errors.Is(err, ErrUnknownTool):
		return "unknown_tool"
	case errors.Is(err, ErrDuplicateIdentifier):
		return "duplicate_identifier"
	case errors.Is(err, ErrCanceled):
		return "canceled"
	default:
		return "error"
	}
}

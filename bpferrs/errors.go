// Package bpferrs provides typed error handling for the eBPF loader.
//
// Errors carry a classification (ErrorKind) alongside the usual wrapped
// cause, so callers can branch on "what kind of thing went wrong" without
// string-matching messages. All errors support errors.Is/As/Unwrap.
package bpferrs

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrSyscall indicates the kernel rejected a bpf()/perf_event_open/ioctl call.
	ErrSyscall ErrorKind = iota
	// ErrVerifierRejected indicates the kernel verifier rejected a program at load time.
	ErrVerifierRejected
	// ErrNotFound indicates a tracepoint id, BTF type, kprobe target, or interface was absent.
	ErrNotFound
	// ErrInvalidShape indicates a caller-side contract violation (bad size, alignment, key/value shape).
	ErrInvalidShape
	// ErrUnsupported indicates the running kernel lacks a required feature.
	ErrUnsupported
	// ErrAlreadyExists indicates a duplicate resource (e.g. a tracefs event name race).
	ErrAlreadyExists
	// ErrResourceLeak indicates cleanup failed to fully release a kernel resource.
	ErrResourceLeak
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSyscall:
		return "syscall error"
	case ErrVerifierRejected:
		return "verifier rejected"
	case ErrNotFound:
		return "not found"
	case ErrInvalidShape:
		return "invalid shape"
	case ErrUnsupported:
		return "unsupported"
	case ErrAlreadyExists:
		return "already exists"
	case ErrResourceLeak:
		return "resource leak"
	default:
		return "unknown error"
	}
}

// BPFError represents an error from a library operation.
type BPFError struct {
	// Op is the operation that failed (e.g., "load", "attach", "lookup").
	Op string
	// Subject is the program, map, or attachment name involved, if any.
	Subject string
	// Err is the underlying error.
	Err error
	// Kind is the error classification.
	Kind ErrorKind
	// Detail provides additional context (e.g. the verifier log).
	Detail string
}

// Error returns the error message.
func (e *BPFError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var msg string
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: ", e.Subject)
	}
	if e.Op != "" {
		msg += fmt.Sprintf("%s: ", e.Op)
	}
	if e.Detail != "" {
		msg += e.Detail
	} else {
		msg += e.Kind.String()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *BPFError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the error matches the target.
// It matches if the target is a *BPFError with the same Kind,
// or if the underlying error matches.
func (e *BPFError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if t, ok := target.(*BPFError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates a new BPFError with the given kind.
func New(kind ErrorKind, op string, detail string) *BPFError {
	return &BPFError{
		Op:     op,
		Kind:   kind,
		Detail: detail,
	}
}

// Wrap wraps an error with operation context.
func Wrap(err error, kind ErrorKind, op string) *BPFError {
	return &BPFError{
		Op:   op,
		Err:  err,
		Kind: kind,
	}
}

// WrapWithSubject wraps an error with operation context and a subject name.
func WrapWithSubject(err error, kind ErrorKind, op string, subject string) *BPFError {
	return &BPFError{
		Op:      op,
		Subject: subject,
		Err:     err,
		Kind:    kind,
	}
}

// WrapWithDetail wraps an error with additional detail.
func WrapWithDetail(err error, kind ErrorKind, op string, detail string) *BPFError {
	return &BPFError{
		Op:     op,
		Err:    err,
		Kind:   kind,
		Detail: detail,
	}
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind ErrorKind) bool {
	var berr *BPFError
	if errors.As(err, &berr) {
		return berr.Kind == kind
	}
	return false
}

// GetKind returns the error kind if the error is a BPFError.
func GetKind(err error) (ErrorKind, bool) {
	var berr *BPFError
	if errors.As(err, &berr) {
		return berr.Kind, true
	}
	return 0, false
}

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

package loom

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeCircularDependency
	ErrCodeResolutionFailed
	ErrCodeTimeout
	ErrCodeFrozenContainer
	ErrCodeGuardRejected
	ErrCodeValidationFailed
	ErrCodeCircuitOpen
	ErrCodeDisposeFailed
	ErrCodeCanceled
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeResolutionFailed:   "RESOLUTION_FAILED",
	ErrCodeTimeout:            "TIMEOUT",
	ErrCodeFrozenContainer:    "FROZEN_CONTAINER",
	ErrCodeGuardRejected:      "GUARD_REJECTED",
	ErrCodeValidationFailed:   "VALIDATION_FAILED",
	ErrCodeCircuitOpen:        "CIRCUIT_OPEN",
	ErrCodeDisposeFailed:      "DISPOSE_FAILED",
	ErrCodeCanceled:           "CANCELED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the base error for everything the container reports. Every failure
// carries enough structured context (factory name, chain, timing, circuit
// state) to diagnose without re-running under a debugger.
type Error struct {
	Code     ErrorCode
	Message  string
	Factory  string
	Chain    []string
	Circuit  string
	Failures int
	Elapsed  time.Duration
	Cause    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Factory != "" {
		b.WriteString(fmt.Sprintf(" factory=%q:", e.Factory))
	}
	if e.Circuit != "" {
		b.WriteString(fmt.Sprintf(" circuit=%q:", e.Circuit))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithFactory(factory string) *Error {
	e.Factory = factory
	return e
}

func (e *Error) WithChain(chain []string) *Error {
	e.Chain = chain
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errCircularDependency(chain []string) *Error {
	return newError(
		ErrCodeCircularDependency,
		fmt.Sprintf(
			"circular dependency detected: %s; break the cycle by resolving one side lazily (after construction) instead of inside the factory body",
			strings.Join(chain, " -> "),
		),
		nil,
	).WithFactory(chain[0]).WithChain(chain)
}

func errResolutionFailed(factory string, chain []string, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve %s", factory),
		cause,
	).WithFactory(factory).WithChain(chain)
}

func errTimeout(factory string, timeout time.Duration) *Error {
	e := newError(
		ErrCodeTimeout,
		fmt.Sprintf("resolution did not settle within %s", timeout),
		nil,
	).WithFactory(factory)
	e.Elapsed = timeout
	return e
}

func errFrozenContainer(factory string) *Error {
	return newError(
		ErrCodeFrozenContainer,
		"container is frozen; only already-cached factories may be resolved",
		nil,
	).WithFactory(factory)
}

func errGuardRejected(factory string) *Error {
	return newError(
		ErrCodeGuardRejected,
		"guard rejected resolution",
		nil,
	).WithFactory(factory)
}

func errValidationFailed(factory string, cause error) *Error {
	return newError(
		ErrCodeValidationFailed,
		"resolved value failed validation",
		cause,
	).WithFactory(factory)
}

func errCircuitOpen(circuit string, failures int) *Error {
	e := newError(
		ErrCodeCircuitOpen,
		fmt.Sprintf("circuit is open after %d consecutive failures", failures),
		nil,
	)
	e.Circuit = circuit
	e.Failures = failures
	return e
}

func errDisposeFailed(cause error) *Error {
	return newError(
		ErrCodeDisposeFailed,
		"one or more dispose callbacks failed",
		cause,
	)
}

func errCanceled(factory string, cause error) *Error {
	return newError(
		ErrCodeCanceled,
		"context canceled while waiting for resolution",
		cause,
	).WithFactory(factory)
}

// is reports whether any *Error in err's chain carries the given code.
// Nested resolution wraps causes in outer RESOLUTION_FAILED layers, so a
// single errors.As only ever sees the outermost code.
func is(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

func IsCircularDependency(err error) bool {
	return is(err, ErrCodeCircularDependency)
}

func IsResolutionFailed(err error) bool {
	return is(err, ErrCodeResolutionFailed)
}

func IsTimeout(err error) bool {
	return is(err, ErrCodeTimeout)
}

func IsFrozenContainer(err error) bool {
	return is(err, ErrCodeFrozenContainer)
}

func IsGuardRejected(err error) bool {
	return is(err, ErrCodeGuardRejected)
}

func IsValidationFailed(err error) bool {
	return is(err, ErrCodeValidationFailed)
}

func IsCircuitOpen(err error) bool {
	return is(err, ErrCodeCircuitOpen)
}

func IsDisposeFailed(err error) bool {
	return is(err, ErrCodeDisposeFailed)
}

func IsCanceled(err error) bool {
	return is(err, ErrCodeCanceled)
}

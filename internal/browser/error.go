package browser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a BrowserError. Ported from the source's
// thiserror-based BrowserError enum.
type ErrorKind int

const (
	// ErrLaunchFailed means the Chromium process could not be started.
	ErrLaunchFailed ErrorKind = iota
	// ErrConnectionFailed means attaching to a running browser failed.
	ErrConnectionFailed
	// ErrNotRunning means an operation required a running browser that isn't.
	ErrNotRunning
	// ErrContextNotFound means a named context does not exist.
	ErrContextNotFound
	// ErrPageNotFound means a page index is out of range or missing.
	ErrPageNotFound
	// ErrNavigationFailed means a navigation did not complete.
	ErrNavigationFailed
	// ErrEvaluationFailed means a page-side JS evaluation failed.
	ErrEvaluationFailed
	// ErrTimeout means an operation exceeded its deadline.
	ErrTimeout
	// ErrLastContext means a close was attempted on the only remaining context.
	ErrLastContext
)

// Error is the browser-layer error type, carrying a kind plus detail.
type Error struct {
	Kind   ErrorKind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrLaunchFailed:
		return fmt.Sprintf("launch failed: %s", e.Detail)
	case ErrConnectionFailed:
		return fmt.Sprintf("connection failed: %s", e.Detail)
	case ErrNotRunning:
		return "browser not running"
	case ErrContextNotFound:
		return fmt.Sprintf("context not found: %s", e.Detail)
	case ErrPageNotFound:
		return fmt.Sprintf("page not found: %s", e.Detail)
	case ErrNavigationFailed:
		return fmt.Sprintf("navigation failed: %s", e.Detail)
	case ErrEvaluationFailed:
		return fmt.Sprintf("evaluation failed: %s", e.Detail)
	case ErrTimeout:
		return fmt.Sprintf("timeout: %s", e.Detail)
	case ErrLastContext:
		return "cannot close the only remaining context"
	default:
		return fmt.Sprintf("browser error: %s", e.Detail)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// LaunchFailed builds a launch-failure error.
func LaunchFailed(detail string) error { return &Error{Kind: ErrLaunchFailed, Detail: detail} }

// ConnectionFailed builds a connection-failure error.
func ConnectionFailed(detail string) error {
	return &Error{Kind: ErrConnectionFailed, Detail: detail}
}

// NotRunning builds a not-running error.
func NotRunning() error { return &Error{Kind: ErrNotRunning} }

// ContextNotFound builds a context-not-found error.
func ContextNotFound(name string) error { return &Error{Kind: ErrContextNotFound, Detail: name} }

// PageNotFound builds a page-not-found error.
func PageNotFound(detail string) error { return &Error{Kind: ErrPageNotFound, Detail: detail} }

// NavigationFailed builds a navigation-failure error.
func NavigationFailed(detail string) error {
	return &Error{Kind: ErrNavigationFailed, Detail: detail}
}

// EvaluationFailed builds an evaluation-failure error.
func EvaluationFailed(detail string) error {
	return &Error{Kind: ErrEvaluationFailed, Detail: detail}
}

// Timeout builds a timeout error.
func Timeout(detail string) error { return &Error{Kind: ErrTimeout, Detail: detail} }

// LastContext builds an error for closing the only remaining context.
func LastContext() error { return &Error{Kind: ErrLastContext} }

// KindOf extracts the ErrorKind from err, if it is (or wraps) a *Error.
func KindOf(err error) (ErrorKind, bool) {
	var be *Error
	if !errors.As(err, &be) {
		return 0, false
	}
	return be.Kind, true
}

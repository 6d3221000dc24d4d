package klang

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorRun is returned when a run was successfully started, but the cycle
// loop and/or the final flush failed.
type ErrorRun struct {
	ErrExec  error
	ErrFlush error
}

func (e *ErrorRun) Error() string {
	switch {
	case e.ErrExec != nil && e.ErrFlush != nil:
		return fmt.Sprintf("flush error: %v after execute error: %v", e.ErrFlush, e.ErrExec)
	case e.ErrExec != nil:
		return fmt.Sprintf("execute error: %v", e.ErrExec)
	case e.ErrFlush != nil:
		return fmt.Sprintf("flush error: %v", e.ErrFlush)
	}
	return ""
}

// Is checks if any of the wrapped errors match the provided sentinel error.
func (e *ErrorRun) Is(err error) bool {
	if e.ErrExec != nil && errors.Is(e.ErrExec, err) {
		return true
	}
	if e.ErrFlush != nil && errors.Is(e.ErrFlush, err) {
		return true
	}
	return false
}

// flushErrors wraps errors that occur when multiple blocks fail to flush.
type flushErrors []error

func (e flushErrors) Error() string {
	s := []string{}
	for _, se := range e {
		s = append(s, se.Error())
	}
	return strings.Join(s, ",")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e flushErrors) Unwrap() []error {
	return e
}

// ret returns untyped nil if the error list is empty.
func (e flushErrors) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}

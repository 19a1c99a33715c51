//go:build !ios && !android && (amd64 || arm64)

package python

import (
	"errors"
	"strconv"
)

// ErrNotInitialized is returned by every operation that requires the
// interpreter when it has not been initialized, or after Shutdown.
var ErrNotInitialized = errors.New("python: not in initialized state; call python.Init() first")

// LogicError reports a usage error: calling an operation out of lifecycle
// order, double-registering a handle, forgetting a handle that is not under
// control, converting or appending to an object of the wrong kind.
type LogicError struct {
	Op      string // the operation that was misused
	Message string
	Err     error // optional underlying sentinel
}

// Error implements the error interface.
func (e *LogicError) Error() string {
	if e.Message == "" && e.Err != nil {
		return "python: " + e.Op + ": " + e.Err.Error()
	}
	return "python: " + e.Op + ": " + e.Message
}

// Unwrap returns the underlying sentinel, if any.
func (e *LogicError) Unwrap() error {
	return e.Err
}

// ExecError reports a failure raised by the interpreter itself while
// importing, resolving, executing or calling.
type ExecError struct {
	Op     string // the operation during which the interpreter raised
	Detail string // what was being imported, resolved or executed
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return "python: " + e.Op + ": " + e.Detail
}

// IsLogicError reports whether err is, or wraps, a usage error.
func IsLogicError(err error) bool {
	var le *LogicError
	return errors.As(err, &le)
}

// IsExecError reports whether err is, or wraps, an interpreter failure.
func IsExecError(err error) bool {
	var ee *ExecError
	return errors.As(err, &ee)
}

func notInitialized(op string) error {
	return &LogicError{Op: op, Err: ErrNotInitialized}
}

func utoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}

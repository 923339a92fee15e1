package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Status enumerates how a single server operation ended.
type Status int

const (
	// StatusOK means the request was accepted.
	StatusOK Status = iota
	// StatusVanished means the target window no longer exists.
	StatusVanished
	// StatusUnsupported means the client does not implement the protocol
	// or property the operation relies on.
	StatusUnsupported
	// StatusFailed covers every other server error.
	StatusFailed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusVanished:
		return "vanished"
	case StatusUnsupported:
		return "unsupported"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one server operation. Callers decide per call
// site whether a non-OK result aborts what they were doing.
type Result struct {
	Status Status
	Err    error
}

// OK is the successful result.
var OK = Result{Status: StatusOK}

// Vanished builds a StatusVanished result for win.
func Vanished(win xproto.Window) Result {
	return Result{Status: StatusVanished, Err: fmt.Errorf("window 0x%x is gone", uint32(win))}
}

// Unsupported builds a StatusUnsupported result.
func Unsupported(format string, args ...any) Result {
	return Result{Status: StatusUnsupported, Err: fmt.Errorf(format, args...)}
}

// Classify maps a server error onto a Result.
func Classify(err error) Result {
	if err == nil {
		return OK
	}
	var badWindow xproto.WindowError
	var badDrawable xproto.DrawableError
	if errors.As(err, &badWindow) || errors.As(err, &badDrawable) {
		return Result{Status: StatusVanished, Err: err}
	}
	return Result{Status: StatusFailed, Err: err}
}

// Ok reports whether the operation succeeded.
func (r Result) Ok() bool { return r.Status == StatusOK }

// Gone reports whether the target window disappeared.
func (r Result) Gone() bool { return r.Status == StatusVanished }

// Error implements error for non-OK results so they can be logged directly.
func (r Result) Error() string {
	if r.Err == nil {
		return r.Status.String()
	}
	return fmt.Sprintf("%s: %v", r.Status, r.Err)
}

// First returns the first non-OK result, or OK.
func First(results ...Result) Result {
	for _, r := range results {
		if !r.Ok() {
			return r
		}
	}
	return OK
}

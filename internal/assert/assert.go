// Package assert implements the two assertion flavours used across memkit.
//
// Strict assertions always run and panic with a *Violation describing the
// failed condition. Debug assertions run only when the module is built with
// the memdebug build tag; otherwise the check is compiled out and a violated
// precondition is undefined behaviour.
//
//	go test -tags memdebug ./...
package assert

import "fmt"

// Violation is the panic value raised by a failed assertion.
type Violation struct {
	Msg string
}

func (v *Violation) Error() string {
	return "assertion failed: " + v.Msg
}

// Strict panics with a *Violation when cond is false.
func Strict(cond bool, format string, args ...any) {
	if !cond {
		fail(format, args...)
	}
}

// Debug is Strict when built with the memdebug tag and a no-op otherwise.
func Debug(cond bool, format string, args ...any) {
	if Enabled && !cond {
		fail(format, args...)
	}
}

func fail(format string, args ...any) {
	panic(&Violation{Msg: fmt.Sprintf(format, args...)})
}

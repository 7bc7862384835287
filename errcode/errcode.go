package errcode

import "errors"

// Code is a stable, user-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Block table / workspace
	UnknownBlock     Code = "unknown_block"
	UnknownField     Code = "unknown_field"
	MissingField     Code = "missing_field"
	InvalidField     Code = "invalid_field"
	UnknownInput     Code = "unknown_input"
	TypeMismatch     Code = "type_mismatch"
	InvalidWorkspace Code = "invalid_workspace"

	// Pins / boards
	UnknownPin   Code = "unknown_pin"
	PinConflict  Code = "pin_conflict"
	UnknownBoard Code = "unknown_board"

	// Settings / sketch output
	InvalidSettings   Code = "invalid_settings"
	InvalidSketchName Code = "invalid_sketch_name"
	IOError           Code = "io_error"

	Error Code = "error" // generic fallback
)

// E keeps context and a cause next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap builds an *E. Msg may be empty.
func Wrap(c Code, op, msg string, err error) *E {
	return &E{C: c, Op: op, Msg: msg, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

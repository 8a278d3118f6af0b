package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad   Phase = "load"   // image loading
	PhaseDecode Phase = "decode" // operand/instruction decoding
	PhaseExec   Phase = "exec"   // instruction execution
	PhaseHost   Phase = "host"   // host function registration and dispatch
)

// Kind categorizes the error
type Kind string

const (
	KindBadMagic       Kind = "bad_magic"
	KindShortImage     Kind = "short_image"
	KindTruncated      Kind = "truncated"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindUnknownOpcode  Kind = "unknown_opcode"
	KindDivByZero      Kind = "div_by_zero"
	KindUnresolvedName Kind = "unresolved_name"
	KindOutOfMemory    Kind = "out_of_memory"
	KindInvalidInput   Kind = "invalid_input"
	KindRegistration   Kind = "registration"
	KindNotFound       Kind = "not_found"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string // mnemonic of the faulting instruction, if any
	Detail string
	PC     int64 // byte offset into the code segment, -1 if not applicable
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.PC >= 0 {
		fmt.Fprintf(&b, " at pc=0x%x", e.PC)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			PC:    -1,
		},
	}
}

// Op sets the mnemonic of the faulting instruction
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// PC sets the code offset the error occurred at
func (b *Builder) PC(pc int) *Builder {
	b.err.PC = int64(pc)
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// BadMagic creates a bad image magic error
func BadMagic(got []byte) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindBadMagic,
		PC:     -1,
		Detail: fmt.Sprintf("want 41 51 42 43, got % x", got),
	}
}

// ShortImage creates a truncated image error
func ShortImage(section string, need, have int) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindShortImage,
		PC:     -1,
		Detail: fmt.Sprintf("%s needs %d bytes, %d remain", section, need, have),
	}
}

// Truncated creates an operand over-read error
func Truncated(pc int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		PC:     int64(pc),
		Detail: "operand runs past end of code segment",
	}
}

// UnknownOpcode creates a fatal unknown-opcode error
func UnknownOpcode(pc int, op byte) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindUnknownOpcode,
		PC:     int64(pc),
		Detail: fmt.Sprintf("opcode 0x%02x", op),
	}
}

// DivByZero creates an integer division-by-zero error
func DivByZero(op string, pc int) *Error {
	return &Error{
		Phase: PhaseExec,
		Kind:  KindDivByZero,
		Op:    op,
		PC:    int64(pc),
	}
}

// UnresolvedName creates an INVOKE name-resolution error
func UnresolvedName(name string, pc int) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindUnresolvedName,
		Op:     "INVOKE",
		PC:     int64(pc),
		Detail: fmt.Sprintf("no host function %q", name),
	}
}

// OutOfBounds creates an out-of-range access error
func OutOfBounds(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		PC:     -1,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// OutOfMemory creates an allocation failure error
func OutOfMemory(size uint64) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindOutOfMemory,
		Op:     "NEW",
		PC:     -1,
		Detail: fmt.Sprintf("cannot allocate %d bytes", size),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		PC:     -1,
		Detail: detail,
	}
}

// Registration creates a host registration error
func Registration(detail string) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		PC:     -1,
		Detail: detail,
	}
}

// Wrap wraps an underlying error with phase and kind
func Wrap(phase Phase, kind Kind, err error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		PC:     -1,
		Cause:  err,
		Detail: detail,
	}
}

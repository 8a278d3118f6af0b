// Package errors provides structured error types for the AQ runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the faulting instruction's mnemonic and
// program counter where applicable.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExec, errors.KindOutOfBounds).
//		Op("GOTO").
//		PC(pc).
//		Detail("target 0x%x outside code segment", target).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DivByZero("DIV", pc)
//	err := errors.UnresolvedName("print", pc)
//
// All errors implement the standard error interface and support errors.Is/As;
// two *Error values match under errors.Is when Phase and Kind agree.
package errors

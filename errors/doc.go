// Package errors provides structured error types for linmem.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: a path to the offending field or record,
// the name of the accessed type, the offending value and a cause chain.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindMalformed).
//		Path("type 7", "value").
//		Type("flags").
//		Detail("alignment group has %d bits set", 2).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidRange(offset, length, bufferLength)
//	err := errors.OutOfBounds("u32", offset, 4, viewLength)
//
// All errors implement the standard error interface and support errors.Is/As.
// The sentinels ErrInvalidRange and ErrOutOfBounds match any error of the
// same phase and kind.
package errors

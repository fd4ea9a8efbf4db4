package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // view construction
	PhaseAccess    Phase = "access"    // typed get/set
	PhaseDecode    Phase = "decode"    // bytes to table
	PhaseEncode    Phase = "encode"    // table to bytes
	PhaseValidate  Phase = "validate"  // table validation
	PhaseGenerate  Phase = "generate"  // descriptor generation
	PhaseLoad      Phase = "load"      // module loading
	PhaseParse     Phase = "parse"     // manifest parsing
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidRange Kind = "invalid_range"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindMalformed    Kind = "malformed"
	KindOverflow     Kind = "overflow"
	KindUnsupported  Kind = "unsupported"
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
)

// Sentinels for errors.Is matching on phase and kind.
var (
	ErrInvalidRange = &Error{Phase: PhaseConstruct, Kind: KindInvalidRange}
	ErrOutOfBounds  = &Error{Phase: PhaseAccess, Kind: KindOutOfBounds}
	ErrMalformed    = &Error{Phase: PhaseValidate, Kind: KindMalformed}
)

// Error is the structured error type used throughout linmem
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the accessed type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// Join combines errors the way the standard library does.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Convenience constructors for common error patterns

// InvalidRange creates a construction error for a view extent that does not
// fit its buffer.
func InvalidRange(byteOffset, byteLength, bufferLength uint32) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindInvalidRange,
		Detail: fmt.Sprintf("invalid length: offset %d + length %d exceeds buffer length %d", byteOffset, byteLength, bufferLength),
		Value:  byteLength,
	}
}

// InvalidByteLength creates a construction error for a view longer than the
// configured maximum.
func InvalidByteLength(byteLength, maxByteLength uint32) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindInvalidRange,
		Detail: fmt.Sprintf("invalid byteLength %d (max %d)", byteLength, maxByteLength),
		Value:  byteLength,
	}
}

// OutOfBounds creates an access error for a typed read or write that does not
// fit in the view.
func OutOfBounds(typ string, byteOffset, width, length uint32) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindOutOfBounds,
		Type:   typ,
		Detail: fmt.Sprintf("offset %d + %d out of bounds (length %d)", byteOffset, width, length),
		Value:  byteOffset,
	}
}

// Malformed creates a validation error for a descriptor that breaks the
// table layout rules.
func Malformed(path []string, detail string, value any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindMalformed,
		Path:   path,
		Detail: detail,
		Value:  value,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Type:   targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Truncated creates a decode error for input shorter than its header claims.
func Truncated(what string, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformed,
		Detail: fmt.Sprintf("%s truncated: need %d bytes, have %d", what, need, have),
		Value:  have,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

package common

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a malformed-input failure
type Kind int

const (
	ValueKind Kind = iota
	ShapeKind
	LayoutKind
	ValidationKind
	SizeMismatchKind
)

func (k Kind) String() string {
	switch k {
	case ValueKind:
		return "value"
	case ShapeKind:
		return "shape"
	case LayoutKind:
		return "layout"
	case ValidationKind:
		return "validation"
	case SizeMismatchKind:
		return "size mismatch"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching. ErrParameter matches every ParameterError.
var (
	ErrParameter    = errors.New("parameter error")
	ErrValue        = errors.New("value error")
	ErrShape        = errors.New("shape error")
	ErrLayout       = errors.New("layout error")
	ErrValidation   = errors.New("validation error")
	ErrSizeMismatch = errors.New("size mismatch error")
)

func (k Kind) sentinel() error {
	switch k {
	case ValueKind:
		return ErrValue
	case ShapeKind:
		return ErrShape
	case LayoutKind:
		return ErrLayout
	case ValidationKind:
		return ErrValidation
	case SizeMismatchKind:
		return ErrSizeMismatch
	default:
		return nil
	}
}

// ParameterError reports malformed input to a pure computation.
// These are caller defects and are never worth retrying.
type ParameterError struct {
	Kind Kind
	Op   string // operation that rejected the input, e.g. "stft"
	Msg  string
}

func (e *ParameterError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, e.Msg)
}

// Is matches ErrParameter and the sentinel of the error's own kind
func (e *ParameterError) Is(target error) bool {
	return target == ErrParameter || target == e.Kind.sentinel()
}

func newParameterError(kind Kind, op, format string, args ...any) error {
	return &ParameterError{
		Kind: kind,
		Op:   op,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// ValueError reports an out-of-domain scalar parameter
func ValueError(op, format string, args ...any) error {
	return newParameterError(ValueKind, op, format, args...)
}

// ShapeError reports input with the wrong length or dimensionality
func ShapeError(op, format string, args ...any) error {
	return newParameterError(ShapeKind, op, format, args...)
}

// LayoutError reports a buffer whose memory order does not match the requested axis
func LayoutError(op, format string, args ...any) error {
	return newParameterError(LayoutKind, op, format, args...)
}

// ValidationError reports audio data that failed validation
func ValidationError(op, format string, args ...any) error {
	return newParameterError(ValidationKind, op, format, args...)
}

// SizeMismatchError reports explicit coefficients of the wrong length
func SizeMismatchError(op, format string, args ...any) error {
	return newParameterError(SizeMismatchKind, op, format, args...)
}

package cbmpi

import (
	"errors"
	"fmt"
)

// Kind classifies every error returned by the cbmpi packages. The set is
// closed: callers switch on it instead of matching on messages.
type Kind uint8

const (
	// KindParse reports malformed numeric or key text.
	KindParse Kind = iota + 1
	// KindArithmetic reports illegal arithmetic operands. The Reason field
	// of Error carries the specific cause.
	KindArithmetic
	// KindInvalidArgument reports inputs outside an operation's domain:
	// sieve bases that are too small, bit lengths that are too short,
	// inconsistent key parameters or blocks not below the modulus.
	KindInvalidArgument
	// KindGenerationFailure reports that a prime or key generation loop
	// exhausted its retry ceiling.
	KindGenerationFailure
	// KindRandomSource reports a random source that failed or returned
	// fewer bytes than requested.
	KindRandomSource
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindArithmetic:
		return "arithmetic error"
	case KindInvalidArgument:
		return "invalid argument"
	case KindGenerationFailure:
		return "generation failure"
	case KindRandomSource:
		return "random source failure"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ArithmeticReason refines KindArithmetic.
type ArithmeticReason uint8

const (
	ReasonNone ArithmeticReason = iota
	// ReasonDivideByZero is returned by division and remainder with a zero divisor.
	ReasonDivideByZero
	// ReasonInvalidModulus is returned by modular operations with a zero modulus.
	ReasonInvalidModulus
	// ReasonUnderflow is returned by subtraction whose result would be negative.
	ReasonUnderflow
)

func (r ArithmeticReason) String() string {
	switch r {
	case ReasonDivideByZero:
		return "divide by zero"
	case ReasonInvalidModulus:
		return "invalid modulus"
	case ReasonUnderflow:
		return "underflow"
	default:
		return ""
	}
}

// Error is the single error type produced by this module.
type Error struct {
	Kind   Kind
	Reason ArithmeticReason // set only for KindArithmetic
	Op     string           // operation that failed, e.g. "mpi.Parse"
	Detail string           // human readable context
	Err    error            // underlying cause, if any
}

func (e *Error) Error() string {
	msg := "cbmpi: " + e.Op + ": " + e.Kind.String()
	if e.Reason != ReasonNone {
		msg += " (" + e.Reason.String() + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind and, for arithmetic sentinels that carry
// a reason, by reason as well.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" || t.Kind != e.Kind {
		return false
	}
	return t.Reason == ReasonNone || t.Reason == e.Reason
}

// Sentinels for errors.Is. They never appear as returned values themselves.
var (
	ErrParse             = &Error{Kind: KindParse}
	ErrArithmetic        = &Error{Kind: KindArithmetic}
	ErrDivideByZero      = &Error{Kind: KindArithmetic, Reason: ReasonDivideByZero}
	ErrInvalidModulus    = &Error{Kind: KindArithmetic, Reason: ReasonInvalidModulus}
	ErrUnderflow         = &Error{Kind: KindArithmetic, Reason: ReasonUnderflow}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrGenerationFailure = &Error{Kind: KindGenerationFailure}
	ErrRandomSource      = &Error{Kind: KindRandomSource}
)

// Errorf creates an Error of the given kind.
// This is exported for use by the subpackages.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// ArithmeticErrorf creates a KindArithmetic Error with the given reason.
func ArithmeticErrorf(reason ArithmeticReason, op, format string, args ...any) error {
	return &Error{Kind: KindArithmetic, Reason: reason, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and operation to an underlying error. A nil err yields nil.
// An err that already is an *Error is returned unchanged so the innermost
// classification wins.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of err, or 0 when err is not produced by cbmpi.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

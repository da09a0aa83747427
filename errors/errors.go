package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInstruction is returned when instruction data cannot be
	// decoded: unknown tag, truncated payload or missing accounts.
	ErrInvalidInstruction = Register(2, "invalid instruction")

	// ErrMissingAuthorization is returned when a required signer did not
	// sign the transaction.
	ErrMissingAuthorization = Register(3, "missing required signature")

	// ErrNotExempt is returned when an account balance does not cover the
	// storage exemption for its size.
	ErrNotExempt = Register(4, "not rent exempt")

	// ErrAlreadyInitialized is returned on an attempt to initialize
	// state that was initialized before.
	ErrAlreadyInitialized = Register(5, "account already initialized")

	// ErrInvalidAccountData is returned when account data is corrupted or
	// when a supplied account does not match the one referenced by a
	// stored record.
	ErrInvalidAccountData = Register(6, "invalid account data")

	// ErrExpectedAmountMismatch is returned when the amount declared by a
	// caller differs from the live balance.
	ErrExpectedAmountMismatch = Register(7, "expected amount mismatch")

	// ErrAmountOverflow is returned when balance arithmetic overflows.
	ErrAmountOverflow = Register(8, "amount overflow")

	// ErrNotInitialized is returned when state is expected to be
	// initialized but is not, or was already closed.
	ErrNotInitialized = Register(9, "account not initialized")

	// ErrIncorrectProgram is returned when an account is owned by, or an
	// instruction is addressed to, an unexpected program.
	ErrIncorrectProgram = Register(10, "incorrect program id")

	// ErrInsufficientFunds is returned when a balance is too low to
	// complete a transfer.
	ErrInsufficientFunds = Register(11, "insufficient funds")

	// ErrNotFound is used when a requested entity does not exist.
	ErrNotFound = Register(12, "not found")

	// ErrInvalidInput stands for general input problems indication.
	ErrInvalidInput = Register(13, "invalid input")

	// ErrDuplicate is returned when an entity with the same key already
	// exists.
	ErrDuplicate = Register(14, "duplicate")

	// ErrDatabase is returned when the storage layer fails.
	ErrDatabase = Register(15, "database")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(16, "coding error")

	// ErrNetwork is returned when a remote node cannot be reached.
	ErrNetwork = Register(17, "network")

	// ErrTimeout is returned when waiting for a result took too long.
	ErrTimeout = Register(18, "timeout")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but programs may want to
// declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for internal errors and must not be used.
}

// Error represents a root error.
//
// Each error instance created during the runtime should wrap one of the
// declared root errors. This allows error tests and returning all errors to
// the client in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide ABCICode method (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

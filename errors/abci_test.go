package errors

import (
	"io"
	"testing"
)

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrNotFound,
			debug:    false,
			wantLog:  "not found",
			wantCode: ErrNotFound.code,
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrNotFound, "foo"), "bar"),
			debug:    false,
			wantLog:  "bar: foo: not found",
			wantCode: ErrNotFound.code,
		},
		"nil is empty message": {
			err:      nil,
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"nil registered error is not an error": {
			err:      (*Error)(nil),
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"stdlib is generic message": {
			err:      io.EOF,
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib returns error message in debug mode": {
			err:      io.EOF,
			debug:    true,
			wantLog:  "EOF",
			wantCode: 1,
		},
		"wrapped stdlib is only a generic message": {
			err:      Wrap(io.EOF, "cannot read file"),
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
		"wrapped stdlib is a full message in debug mode": {
			err:      Wrap(io.EOF, "cannot read file"),
			debug:    true,
			wantLog:  "cannot read file: EOF",
			wantCode: 1,
		},
		"custom error": {
			err:      customErr{},
			debug:    false,
			wantLog:  "custom",
			wantCode: 999,
		},
		"custom error in debug mode": {
			err:      customErr{},
			debug:    true,
			wantLog:  "custom",
			wantCode: 999,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

// customErr is a custom implementation of an error that provides an ABCICode
// method.
type customErr struct{}

func (customErr) ABCICode() uint32 { return 999 }

func (customErr) Error() string { return "custom" }

func TestABCIErrorRecoversKind(t *testing.T) {
	kinds := []*Error{
		ErrInvalidInstruction,
		ErrMissingAuthorization,
		ErrExpectedAmountMismatch,
		ErrAmountOverflow,
		ErrDuplicate,
	}
	for _, kind := range kinds {
		code, log := ABCIInfo(Wrap(kind, "context"), false)
		err := ABCIError(code, log)
		if !kind.Is(err) {
			t.Errorf("code %d: want %q kind, got %v", code, kind, err)
		}
	}

	if err := ABCIError(SuccessABCICode, ""); err != nil {
		t.Errorf("success must not be an error: %v", err)
	}
	err := ABCIError(424242, "unknown")
	if err == nil || ErrPanic.Is(err) {
		t.Errorf("unregistered code must be a plain error, got %v", err)
	}
	if ABCIError(internalABCICode, internalABCILog) == nil {
		t.Error("internal code must be an error")
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrNotFound, false); !ErrNotFound.Is(err) {
		t.Errorf("registered errors are kept, got %v", err)
	}
	if err := Redact(io.EOF, false); err.Error() != internalABCILog {
		t.Errorf("stdlib errors are redacted, got %v", err)
	}
	if err := Redact(Wrap(ErrPanic, "boom"), false); err.Error() != internalABCILog {
		t.Errorf("panics are redacted, got %v", err)
	}
	if err := Redact(io.EOF, true); err != io.EOF {
		t.Errorf("debug mode keeps the error, got %v", err)
	}
}

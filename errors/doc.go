/*
Package errors implements the error taxonomy shared by the runtime and all
programs.

Reuse root errors from this package where possible and only register a custom
root error with Register(code, description) when a program needs a kind that
is meaningful to its clients. The code is the ABCI response code.

Create errors at the point of failure with ErrXyz.New("...") or
errors.Wrap(err, "..."), so that a stacktrace is attached to the innermost
wrap. Test for a kind with ErrXyz.Is(err).
*/
package errors

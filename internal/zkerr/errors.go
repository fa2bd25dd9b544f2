// Package zkerr defines the service's closed error taxonomy and the
// single place (Code/CodeOf) where an error is classified into a wire
// status category. Every other package propagates these sentinel errors
// unchanged; only the C7 wire surface calls CodeOf.
package zkerr

import "errors"

// Sentinel errors. Wrap with fmt.Errorf("%w: ...", Err...) to add detail
// without losing errors.Is compatibility.
var (
	// ErrInvalidEncoding is returned by group parsers on malformed input.
	ErrInvalidEncoding = errors.New("zkauth: invalid encoding")

	// ErrInvalidArgument is returned for well-formed but semantically
	// invalid requests (empty username, etc).
	ErrInvalidArgument = errors.New("zkauth: invalid argument")

	// ErrNotFound is returned when a referenced user or challenge does
	// not exist (or has already expired/been consumed).
	ErrNotFound = errors.New("zkauth: not found")

	// ErrUnauthenticated is returned when a zero-knowledge proof fails
	// to verify.
	ErrUnauthenticated = errors.New("zkauth: unauthenticated")

	// ErrFailedPrecondition is returned when a challenge's user record
	// has vanished between challenge creation and verification.
	ErrFailedPrecondition = errors.New("zkauth: failed precondition")

	// ErrParameterGeneration is returned when parameter search exhausts
	// its retry budget.
	ErrParameterGeneration = errors.New("zkauth: parameter generation failed")

	// ErrInternal covers RNG failure and any other unexpected fault,
	// including panics recovered at the wire boundary.
	ErrInternal = errors.New("zkauth: internal error")
)

// Code is the wire status category an error maps to. The mapping from
// sentinel error to Code is total: every error that can cross the C7
// boundary is classified.
type Code int

const (
	// CodeOK indicates success; no error occurred.
	CodeOK Code = iota
	CodeInvalidArgument
	CodeNotFound
	CodeUnauthenticated
	CodeFailedPrecondition
	CodeInternal
)

// String renders the code for logs and response metadata.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidArgument:
		return "InvalidArgument"
	case CodeNotFound:
		return "NotFound"
	case CodeUnauthenticated:
		return "Unauthenticated"
	case CodeFailedPrecondition:
		return "FailedPrecondition"
	case CodeInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// CodeOf classifies err into its wire status category. nil maps to
// CodeOK. Unrecognized errors (including recovered panics, which the
// wire surface wraps in ErrInternal before calling CodeOf) map to
// CodeInternal.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidEncoding), errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrFailedPrecondition):
		return CodeFailedPrecondition
	default:
		return CodeInternal
	}
}

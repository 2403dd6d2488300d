package auth

import "errors"

var (
	// ErrInvalidCredentials merges unknown-username and wrong-password so the
	// login response never reveals which part was wrong.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInvalidToken merges malformed, unsigned, expired and
	// subject-not-found tokens into one failure.
	ErrInvalidToken = errors.New("invalid token")

	// ErrAccountDisabled is reported distinctly from bad credentials so
	// support tooling can tell the two apart.
	ErrAccountDisabled = errors.New("inactive user")

	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("resource conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

package scheme

import "errors"

var (
	// ErrKeyMismatch is returned when the two sides of an exchange derive different keys.
	ErrKeyMismatch = errors.New("scheme: derived keys do not match")

	// ErrParamsMismatch is returned when a vector or key does not fit the agreed parameters.
	ErrParamsMismatch = errors.New("scheme: value does not match protocol parameters")

	// ErrMissingKey is returned when required key material is absent.
	ErrMissingKey = errors.New("scheme: missing key material")
)

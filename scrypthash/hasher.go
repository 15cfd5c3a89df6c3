package scrypthash

import (
	"fmt"
	"strconv"

	"github.com/hasbyte1/go-scrypt-phc/kdf"
	"github.com/hasbyte1/go-scrypt-phc/phc"
)

// Identifier is the algorithm tag carried in every record this package
// produces, and the only tag it accepts back.
const Identifier = "scrypt"

// Identifiers returns the algorithm tags handled by this package, for use
// by a higher-level multi-algorithm dispatcher.
func Identifiers() []string {
	return []string{Identifier}
}

// Hasher hashes passwords with scrypt and verifies them against previously
// produced PHC-encoded records.
//
// # Thread safety
//
// Hasher is immutable after construction and safe for concurrent use.
type Hasher struct {
	opts Options
}

// New constructs a Hasher with the given options.  Every knob is validated
// against the bound algebra documented on [Options]; a violation fails with
// a [*ParamError] and nothing else is attempted.
//
// Use [DefaultOptions] for the recommended defaults.
func New(opts Options) (*Hasher, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return &Hasher{opts: opts}, nil
}

// Options returns the current parameter set.
func (h *Hasher) Options() Options { return h.opts }

// Identifiers returns the algorithm tags this hasher handles.
func (h *Hasher) Identifiers() []string { return Identifiers() }

// Hash derives a 32-byte key from password under a fresh random salt and
// returns the PHC-encoded record:
//
//	$scrypt$ln=15,r=8,p=1$<base64-salt>$<base64-hash>
//
// Two calls with the same password produce different outputs.  An empty
// password fails with [ErrEmptyPassword] before any derivation work begins.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt, err := kdf.GenerateSalt(h.opts.SaltLen)
	if err != nil {
		return "", err
	}
	key, err := kdf.Derive([]byte(password), salt, HashLen, h.kdfParams())
	if err != nil {
		return "", err
	}
	return phc.Encode(phc.Record{
		ID: Identifier,
		Params: []phc.Param{
			{Name: "ln", Value: strconv.Itoa(h.opts.LogN)},
			{Name: "r", Value: strconv.Itoa(h.opts.BlockSize)},
			{Name: "p", Value: strconv.Itoa(h.opts.Parallelism)},
		},
		Salt: salt,
		Hash: key,
	})
}

// Verify reports whether password matches the PHC-encoded record.
//
// The derivation parameters, salt, and expected key are all read back out of
// the record itself, so verification is independent of the hasher's own
// options — including the output length, which follows the stored hash.
// Comparison is performed in constant time.
//
// Returns (false, nil) on a clean mismatch.  A record that is malformed
// ([ErrInvalidHash]), incomplete ([ErrMissingField]), carries out-of-range
// parameters ([ErrInvalidParams]), or was produced by a different algorithm
// ([ErrAlgorithmMismatch]) fails with an error, never a silent false.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	rec, err := phc.Decode(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if rec.ID != Identifier {
		return false, fmt.Errorf("%w: record is %q, not %q", ErrAlgorithmMismatch, rec.ID, Identifier)
	}
	if rec.Params == nil {
		return false, fmt.Errorf("%w: params", ErrMissingField)
	}
	params, err := paramsFromRecord(rec)
	if err != nil {
		return false, err
	}
	if rec.Salt == nil {
		return false, fmt.Errorf("%w: salt", ErrMissingField)
	}
	if rec.Hash == nil {
		return false, fmt.Errorf("%w: hash", ErrMissingField)
	}

	derived, err := kdf.Derive([]byte(password), rec.Salt, len(rec.Hash), params)
	if err != nil {
		return false, err
	}
	return ConstantTimeEqual(derived, rec.Hash), nil
}

// Info parses the parameter block of an encoded record without verifying it.
// Useful for auditing, migration tooling, or logging.
func (h *Hasher) Info(encoded string) (Info, error) {
	rec, err := phc.Decode(encoded)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if rec.ID != Identifier {
		return Info{}, fmt.Errorf("%w: record is %q, not %q", ErrAlgorithmMismatch, rec.ID, Identifier)
	}
	if rec.Params == nil {
		return Info{}, fmt.Errorf("%w: params", ErrMissingField)
	}
	params, err := paramsFromRecord(rec)
	if err != nil {
		return Info{}, err
	}
	return Info{
		LogN:        params.LogN,
		BlockSize:   params.BlockSize,
		Parallelism: params.Parallelism,
		SaltLen:     len(rec.Salt),
		HashLen:     len(rec.Hash),
	}, nil
}

// Info carries the metadata parsed from an encoded record.
type Info struct {
	// LogN is the cost exponent stored in the record (N = 2^LogN).
	LogN int

	// BlockSize is the stored block-size factor r.
	BlockSize int

	// Parallelism is the stored parallelism factor p.
	Parallelism int

	// SaltLen and HashLen are the stored salt and derived-key lengths in
	// bytes; zero when the corresponding segment is absent.
	SaltLen, HashLen int
}

func (h *Hasher) kdfParams() kdf.Params {
	return kdf.Params{
		LogN:        h.opts.LogN,
		BlockSize:   h.opts.BlockSize,
		Parallelism: h.opts.Parallelism,
		MaxMemory:   MaxMemory,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Package-level convenience API
// ──────────────────────────────────────────────────────────────────────────────

// defaultHasher backs the package-level Hash and Verify.  The default
// options satisfy the bound algebra by construction.
var defaultHasher = &Hasher{opts: Options{
	LogN:        DefaultLogN,
	BlockSize:   DefaultBlockSize,
	Parallelism: DefaultParallelism,
	SaltLen:     DefaultSaltLen,
}}

// Hash hashes password with the default options.  See [Hasher.Hash].
func Hash(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// Verify reports whether password matches the encoded record.
// See [Hasher.Verify].
func Verify(password, encoded string) (bool, error) {
	return defaultHasher.Verify(password, encoded)
}

// Package phc implements the low-level grammar of PHC-style encoded hash
// strings: the dollar-delimited framing, the key=value parameter segment,
// and the unpadded base64 encoding of salt and hash.
//
// The package is deliberately dumb.  It tokenizes and frames; it does not
// know which parameters an algorithm expects, whether their values are
// integers, or whether a record is complete.  Those judgements belong to
// the consuming package (see scrypthash).
//
// # Record format
//
//	$<id>[$v=<version>][$<name>=<value>{,<name>=<value>}][$<salt>[$<hash>]]
//
// Salt and hash are base64 with the standard alphabet and no padding
// (RFC 4648 §5 without "="), the convention shared by the Argon2 and
// scrypt reference encodings and by Python's passlib.  The optional
// version segment some encodings carry (Argon2's "v=19") is surfaced as a
// leading "v" parameter; re-encoding folds it into the parameter segment,
// which decodes back to the same record.
package phc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned by [Decode] when the input does not conform to
// the record grammar, and by [Encode] when a field contains characters the
// grammar cannot represent.  Use [errors.Is] for comparisons.
var ErrMalformed = errors.New("phc: malformed hash record")

// Param is a single name=value entry of a record's parameter segment.
// Values are kept as raw strings; numeric interpretation is the caller's
// concern.
type Param struct {
	Name  string
	Value string
}

// Record is the decoded form of an encoded hash string.
//
// Params, Salt, and Hash are nil when the corresponding segment is absent
// from the input, which is distinct from being present and empty — the
// grammar rejects empty segments outright.  Records round-trip exactly:
// Decode(Encode(r)) reproduces r, including parameter order.
type Record struct {
	ID     string
	Params []Param
	Salt   []byte
	Hash   []byte
}

// Param returns the value of the named parameter and whether it is present.
func (r *Record) Param(name string) (string, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Encode serialises a record into its string form.
// The identifier and every parameter are checked against the grammar's
// character sets; a field that cannot be represented fails with
// [ErrMalformed].
func Encode(r Record) (string, error) {
	if !validID(r.ID) {
		return "", fmt.Errorf("%w: invalid identifier %q", ErrMalformed, r.ID)
	}
	// Empty segments are not representable: the grammar rejects them on
	// decode, so emitting one would break the round trip.  Absence is nil.
	if r.Params != nil && len(r.Params) == 0 {
		return "", fmt.Errorf("%w: empty parameter segment", ErrMalformed)
	}
	if r.Salt != nil && len(r.Salt) == 0 {
		return "", fmt.Errorf("%w: empty salt segment", ErrMalformed)
	}
	if r.Hash != nil && len(r.Hash) == 0 {
		return "", fmt.Errorf("%w: empty hash segment", ErrMalformed)
	}
	var b strings.Builder
	b.WriteByte('$')
	b.WriteString(r.ID)

	if r.Params != nil {
		b.WriteByte('$')
		for i, p := range r.Params {
			if !validParamName(p.Name) {
				return "", fmt.Errorf("%w: invalid parameter name %q", ErrMalformed, p.Name)
			}
			if !validParamValue(p.Value) {
				return "", fmt.Errorf("%w: invalid value %q for parameter %q", ErrMalformed, p.Value, p.Name)
			}
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Name)
			b.WriteByte('=')
			b.WriteString(p.Value)
		}
	}

	if r.Salt != nil {
		b.WriteByte('$')
		b.WriteString(base64.RawStdEncoding.EncodeToString(r.Salt))
		if r.Hash != nil {
			b.WriteByte('$')
			b.WriteString(base64.RawStdEncoding.EncodeToString(r.Hash))
		}
	} else if r.Hash != nil {
		return "", fmt.Errorf("%w: hash cannot be encoded without a salt", ErrMalformed)
	}

	return b.String(), nil
}

// Decode parses an encoded hash string into a [Record].
//
// A segment after the identifier is treated as a parameter segment when it
// contains '='; otherwise it is the salt.  A lone "v=<value>" segment ahead
// of the parameters is the optional version marker and is carried as a
// leading "v" parameter.  At most one version, one parameter, one salt, and
// one hash segment are accepted.
func Decode(s string) (*Record, error) {
	parts := strings.Split(s, "$")
	// A leading "$" yields an empty first element.
	if len(parts) < 2 || parts[0] != "" {
		return nil, fmt.Errorf("%w: missing leading %q", ErrMalformed, "$")
	}
	if len(parts) > 6 {
		return nil, fmt.Errorf("%w: too many segments (%d)", ErrMalformed, len(parts)-1)
	}
	for _, p := range parts[1:] {
		if p == "" {
			return nil, fmt.Errorf("%w: empty segment", ErrMalformed)
		}
	}

	rec := &Record{ID: parts[1]}
	if !validID(rec.ID) {
		return nil, fmt.Errorf("%w: invalid identifier %q", ErrMalformed, rec.ID)
	}

	rest := parts[2:]
	if len(rest) > 0 {
		if v, ok := strings.CutPrefix(rest[0], "v="); ok && !strings.ContainsAny(v, ",=") {
			if !validParamValue(v) {
				return nil, fmt.Errorf("%w: invalid version %q", ErrMalformed, v)
			}
			rec.Params = []Param{{Name: "v", Value: v}}
			rest = rest[1:]
		}
	}
	if len(rest) > 0 && strings.ContainsRune(rest[0], '=') {
		params, err := parseParams(rest[0])
		if err != nil {
			return nil, err
		}
		if rec.Params != nil {
			for _, p := range params {
				if p.Name == "v" {
					return nil, fmt.Errorf("%w: duplicate parameter %q", ErrMalformed, "v")
				}
			}
			rec.Params = append(rec.Params, params...)
		} else {
			rec.Params = params
		}
		rest = rest[1:]
	}

	if len(rest) > 2 {
		return nil, fmt.Errorf("%w: too many segments after parameters", ErrMalformed)
	}
	if len(rest) > 0 {
		salt, err := base64.RawStdEncoding.DecodeString(rest[0])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid salt base64: %v", ErrMalformed, err)
		}
		rec.Salt = salt
	}
	if len(rest) > 1 {
		hash, err := base64.RawStdEncoding.DecodeString(rest[1])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid hash base64: %v", ErrMalformed, err)
		}
		rec.Hash = hash
	}
	return rec, nil
}

// parseParams splits "ln=15,r=8,p=1" into ordered pairs.
func parseParams(s string) ([]Param, error) {
	var out []Param
	for _, kv := range strings.Split(s, ",") {
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: malformed parameter %q", ErrMalformed, kv)
		}
		name, value := kv[:eq], kv[eq+1:]
		if !validParamName(name) {
			return nil, fmt.Errorf("%w: invalid parameter name %q", ErrMalformed, name)
		}
		if !validParamValue(value) {
			return nil, fmt.Errorf("%w: invalid value %q for parameter %q", ErrMalformed, value, name)
		}
		if _, dup := (&Record{Params: out}).Param(name); dup {
			return nil, fmt.Errorf("%w: duplicate parameter %q", ErrMalformed, name)
		}
		out = append(out, Param{Name: name, Value: value})
	}
	return out, nil
}

// validID reports whether s is a legal algorithm identifier:
// 1–32 characters from [a-z0-9-].
func validID(s string) bool {
	if len(s) < 1 || len(s) > 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

// validParamName reports whether s is a legal parameter name:
// 1–32 characters from [a-z0-9-].
func validParamName(s string) bool {
	return validID(s)
}

// validParamValue reports whether s is a legal parameter value:
// one or more characters from [a-zA-Z0-9/+.-].
func validParamValue(s string) bool {
	if len(s) < 1 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '/' || c == '+' || c == '.' || c == '-':
		default:
			return false
		}
	}
	return true
}

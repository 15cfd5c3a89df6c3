// Package scrypthash provides password hashing and verification built on the
// scrypt memory-hard key-derivation function, producing and consuming
// self-describing PHC-style hash strings.
//
// # Architecture
//
// The package orchestrates three collaborators: the derivation primitive and
// salt generator (package kdf), and the encoded-record codec (package phc).
// Its own job is the parameter validation algebra — turning the user-facing
// knobs into legal, bounded scrypt inputs in both the hashing and the
// verification direction — plus the constant-time comparison that confirms a
// match without leaking timing.
//
// # Quick start
//
//	encoded, err := scrypthash.Hash("my-secret-password")
//	if err != nil { log.Fatal(err) }
//
//	ok, _ := scrypthash.Verify("my-secret-password", encoded)
//
// # Hash format
//
// Hashes are stored in the PHC string format used by the scrypt reference
// encoding and Python's passlib:
//
//	$scrypt$ln=15,r=8,p=1$<base64-salt>$<base64-hash>
//
// All parameters are self-contained in the string, so no external
// configuration is needed to verify a previously produced hash.  Parameters
// are re-validated on the verify path before any derivation work begins; a
// record carrying out-of-range values is rejected, never evaluated.
//
// # Security defaults
//
//   - N = 2^15 iterations, r = 8, p = 1: ≈ 32 MiB working memory and ≈ 100 ms
//     per hash on a modern server CPU, in line with the scrypt paper's
//     interactive-login recommendation scaled to current hardware.
//   - 16-byte random salt, 32-byte derived key.
//   - Working memory is capped at 128 MiB per derivation, so a hostile record
//     cannot turn verification into a memory bomb.
//
// # Concurrency
//
// A [Hasher] is immutable after construction and safe for concurrent use.
// Each call owns its own state; hashing and verification of independent
// passwords need no coordination.  Budget roughly 128·r·2^ln bytes of
// working memory per in-flight call.
package scrypthash

// Package checksum fingerprints migration file content.
//
// The digest is SHA-256 rendered as lowercase hex. The algorithm is part of
// the on-disk/in-database contract: checksums stored in the control table by
// earlier runs (or earlier implementations) must keep matching, so the
// algorithm and encoding must never change without a migration path for the
// control table itself.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum computes the SHA-256 digest of content as a lowercase hex string.
//
// Deterministic: the same bytes always produce the same digest, and any
// byte change produces a different digest (collision resistance of SHA-256).
// Used both to fingerprint files on disk and to compare against digests
// recorded in the control table.
func Sum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Package digest implements the entry password digest: an unsalted SHA-256
// over the UTF-8 bytes of the plaintext, rendered as lowercase hex. Stored
// digests are compared byte-for-byte against this encoding, so the format
// must not change.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the digest of the given plaintext password.
func Sum(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

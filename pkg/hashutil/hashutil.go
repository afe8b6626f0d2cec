// Package hashutil derives content identifiers from response bodies.
package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// etagSize is how many digest bytes go into an entity tag.
const etagSize = 16

// Digest returns the hex encoded 256-bit BLAKE3 digest of data.
func Digest(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ETag returns a strong entity tag for body: the first 16 bytes of its
// BLAKE3 digest, hex encoded and quoted.
func ETag(body []byte) string {
	return `"` + Digest(body)[:2*etagSize] + `"`
}

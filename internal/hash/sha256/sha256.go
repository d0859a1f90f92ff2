// Package sha256 fingerprints fetched page content.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher implements extractor.Hasher using SHA-256.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the hex digest of content. Equal digests across history rows
// mean the site served the same content.
func (Hasher) Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

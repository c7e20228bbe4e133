// Package checksum derives stable content keys for computed stats.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// OfIDs returns the digest of a set of identity keys. The input is sorted
// before hashing, so the result does not depend on the order of ids.
func OfIDs(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return Sum([]byte(strings.Join(sorted, "\n")))
}

package scrape

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes a stable hash of a fragment's raw markup using
// xxhash. Identical fragments always produce identical fingerprints, so
// downstream collaborators can use them as record uids.
func Fingerprint(fragment string) string {
	h := xxhash.Sum64String(fragment)
	return fmt.Sprintf("%x", h)
}

package util

import (
	"encoding/hex"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
)

// Fingerprint hashes a set of names independent of their order. It keys
// saved column layouts, so two views with the same columns share one.
func Fingerprint(names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	sum := blake3.Sum256([]byte(strings.Join(sorted, "\x00")))
	return hex.EncodeToString(sum[:16])
}

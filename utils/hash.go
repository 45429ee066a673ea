package utils

import "fmt"

// FormatDigest renders an xxh3 digest the way diagnostics print it.
func FormatDigest(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// Package convert provides safe type conversion utilities.
package convert

import (
	"fmt"
	"math"
)

// IntToUint32 converts an int to uint32, returning an error if it does not fit.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer out of range: %d cannot be converted to uint32", v)
	}
	return uint32(v), nil
}

// IntToUint32Clamped converts an int to uint32, clamping to [0, MaxUint32].
// Use this when truncation is acceptable behavior (e.g., thresholds from config).
func IntToUint32Clamped(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

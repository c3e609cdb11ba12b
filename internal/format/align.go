package format

import "math/bits"

// Alignment utilities for block carving. Allocated payloads are placed on
// power-of-two boundaries, so alignment math reduces to masking.

// AlignDown returns addr aligned down to the previous align-byte boundary.
// align must be a power of two.
//
// Example:
//
//	AlignDown(0x1037, 16) = 0x1030
//	AlignDown(0x1030, 16) = 0x1030
func AlignDown(addr, align uint64) uint64 {
	return addr &^ (align - 1)
}

// RoundUpPow2 returns the smallest power of two greater than or equal to v.
// It fails with ErrRange when v is zero or when the next power of two is not
// representable in a uint64.
func RoundUpPow2(v uint64) (uint64, error) {
	if v == 0 {
		return 0, ErrRange
	}
	shift := bits.Len64(v - 1)
	if shift >= 64 {
		return 0, ErrRange
	}
	return 1 << shift, nil
}

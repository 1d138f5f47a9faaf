// Package utils implements various helper functions.
package utils

import (
	"math/bits"
	"slices"

	"golang.org/x/exp/constraints"
)

// IsPow2 returns true if x is a power of two.
func IsPow2[T constraints.Integer](x T) bool {
	return x > 0 && x&(x-1) == 0
}

// Log2 returns floor(log2(x)) for x > 0.
func Log2[T constraints.Unsigned | constraints.Signed](x T) int {
	return bits.Len64(uint64(x)) - 1
}

// GetSortedKeys returns the sorted keys of a map.
func GetSortedKeys[K constraints.Ordered, V any](m map[K]V) (keys []K) {
	keys = make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return
}

// RotateSlice returns a new slice corresponding to s rotated by k positions to the left.
func RotateSlice[V any](s []V, k int) []V {
	ret := make([]V, len(s))
	RotateSliceAllocFree(s, k, ret)
	return ret
}

// RotateSliceAllocFree rotates slice s by k positions to the left and writes the result in sout.
func RotateSliceAllocFree[V any](s []V, k int, sout []V) {

	if len(s) != len(sout) {
		panic("cannot RotateSliceAllocFree: s and sout of different lengths")
	}

	if len(s) == 0 {
		return
	}

	k = ModInt(k, len(s))

	if k == 0 {
		copy(sout, s)
		return
	}

	copy(sout[:len(s)-k], s[k:])
	copy(sout[len(s)-k:], s[:k])
}

// ModInt returns x mod m in [0, m).
func ModInt[T constraints.Signed](x, m T) T {
	x %= m
	if x < 0 {
		x += m
	}
	return x
}

package heaan

import (
	"math/bits"
)

// SpecialFFT evaluates in place the polynomial sum_j values[j] * Y^j at the points
// zeta^(5^i), i in [0, n), where n = len(values) is a power of two and zeta is a
// primitive 4n-th root of unity.
// rotGroup and roots are the tables returned by [Parameters.RotGroup] and
// [Parameters.Roots] for the cyclotomic index M, which must satisfy 4n <= M.
func SpecialFFT(values []complex128, M int, rotGroup []int, roots []complex128) {

	n := len(values)
	logN := bits.Len64(uint64(n)) - 1
	logM := bits.Len64(uint64(M)) - 1

	bitReverseInPlace(values)

	for loglen := 1; loglen <= logN; loglen++ {

		size := 1 << loglen
		lenh := size >> 1
		mask := (size << 2) - 1
		logGap := logM - 2 - loglen

		for i := 0; i < n; i += size {
			for j, k := 0, i; j < lenh; j, k = j+1, k+1 {
				u := values[k]
				v := values[k+lenh] * roots[(rotGroup[j]&mask)<<logGap]
				values[k] = u + v
				values[k+lenh] = u - v
			}
		}
	}
}

// SpecialIFFT is the inverse of [SpecialFFT]: it interpolates in place
// the coefficients of the polynomial taking the given values at the points
// zeta^(5^i), i in [0, n).
func SpecialIFFT(values []complex128, M int, rotGroup []int, roots []complex128) {

	n := len(values)

	for size := n; size >= 2; size >>= 1 {

		lenh := size >> 1
		lenq := size << 2
		mask := lenq - 1
		gap := M / lenq

		for i := 0; i < n; i += size {
			for j, k := 0, i; j < lenh; j, k = j+1, k+1 {
				u := values[k] + values[k+lenh]
				v := values[k] - values[k+lenh]
				values[k] = u
				values[k+lenh] = v * roots[(lenq-(rotGroup[j]&mask))*gap]
			}
		}
	}

	nInv := complex(1/float64(n), 0)
	for i := range values {
		values[i] *= nInv
	}

	bitReverseInPlace(values)
}

func bitReverseInPlace(values []complex128) {
	n := len(values)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			values[i], values[j] = values[j], values[i]
		}
	}
}

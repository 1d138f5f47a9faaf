package ring

import (
	"fmt"
	"math/big"
)

// Automorphism sets p2 = p1(X^galEl) in Z[X]/(X^N+1).
// The map is exact: coefficients are permuted and negated but never reduced.
// galEl must be odd. p1 and p2 can be the same polynomial.
func Automorphism(p1 Poly, galEl uint64, p2 Poly) {

	if galEl&1 == 0 {
		panic(fmt.Errorf("invalid galois element: must be odd but is %d", galEl))
	}

	N := uint64(p1.N())
	mask := 2*N - 1

	tmp := make([]*big.Int, N)
	for i := uint64(0); i < N; i++ {
		j := (i * galEl) & mask
		c := new(big.Int)
		if j < N {
			tmp[j] = c.Set(p1.Coeffs[i])
		} else {
			tmp[j-N] = c.Neg(p1.Coeffs[i])
		}
	}

	for i := range tmp {
		p2.Coeffs[i].Set(tmp[i])
	}
}

// Automorphism sets p2 = p1(X^galEl) mod (X^N+1, 2^LogQ).
func (r Ring) Automorphism(p1 Poly, galEl uint64, p2 Poly) {
	Automorphism(p1, galEl, p2)
	r.Reduce(p2, p2)
}

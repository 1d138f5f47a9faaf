package ring

import (
	"math/big"
)

// Mul sets p3 = p1 * p2 mod (X^N+1, 2^LogQ).
//
// The product is computed with Kronecker substitution: both operands are
// packed into a single integer with one slot of w = 2*LogQ + LogN + 1 bits
// per coefficient, the two integers are multiplied once, the 2N-1 slots of
// the result are unpacked and folded with X^N = -1.
func (r Ring) Mul(p1, p2, p3 Poly) {

	N := r.N

	wb := (2*r.LogQ + r.LogN + 8) >> 3

	a := r.pack(p1, wb)

	var b *big.Int
	if &p1.Coeffs[0] == &p2.Coeffs[0] {
		b = a
	} else {
		b = r.pack(p2, wb)
	}

	c := new(big.Int).Mul(a, b)

	buf := make([]byte, 2*N*wb)
	c.FillBytes(buf)

	lo, hi := new(big.Int), new(big.Int)
	for i := range N {
		lo.SetBytes(buf[(2*N-1-i)*wb : (2*N-i)*wb])
		hi.SetBytes(buf[(N-1-i)*wb : (N-i)*wb])
		p3.Coeffs[i].Sub(lo, hi)
		p3.Coeffs[i].And(p3.Coeffs[i], r.mask)
	}
}

// pack returns sum_i (p[i] mod 2^LogQ) * 2^(8*wb*i).
func (r Ring) pack(p Poly, wb int) *big.Int {
	N := r.N
	buf := make([]byte, N*wb)
	tmp := new(big.Int)
	for i := range N {
		tmp.And(p.Coeffs[i], r.mask)
		tmp.FillBytes(buf[(N-1-i)*wb : (N-i)*wb])
	}
	return new(big.Int).SetBytes(buf)
}

// Package ring implements arithmetic in the negacyclic ring Z_{2^LogQ}[X]/(X^N+1)
// with arbitrary precision coefficients.
package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// Ring is the ring Z_{2^LogQ}[X]/(X^N+1).
// A Ring is a lightweight value: instances for other moduli
// are obtained with [Ring.AtLogQ].
type Ring struct {
	N    int
	LogN int
	LogQ int
	mod  *big.Int
	mask *big.Int
}

// NewRing creates a new [Ring] of degree N (a power of two) and modulus 2^LogQ.
func NewRing(N, LogQ int) (*Ring, error) {

	if N < 2 || N&(N-1) != 0 {
		return nil, fmt.Errorf("invalid ring degree: must be a power of two greater than one but is %d", N)
	}

	if LogQ < 1 {
		return nil, fmt.Errorf("invalid modulus: LogQ must be positive but is %d", LogQ)
	}

	mod := new(big.Int).Lsh(big.NewInt(1), uint(LogQ))

	return &Ring{
		N:    N,
		LogN: bits.Len64(uint64(N)) - 1,
		LogQ: LogQ,
		mod:  mod,
		mask: new(big.Int).Sub(mod, big.NewInt(1)),
	}, nil
}

// AtLogQ returns an instance of the receiver with modulus 2^LogQ.
// The method panics if LogQ is not positive.
func (r Ring) AtLogQ(LogQ int) *Ring {
	rOut, err := NewRing(r.N, LogQ)
	if err != nil {
		panic(err)
	}
	return rOut
}

// Modulus returns a copy of 2^LogQ.
func (r Ring) Modulus() *big.Int {
	return new(big.Int).Set(r.mod)
}

// NewPoly allocates a new zero [Poly] of degree N.
func (r Ring) NewPoly() Poly {
	return NewPoly(r.N)
}

// Reduce sets p2 = p1 mod 2^LogQ with coefficients in [0, 2^LogQ).
func (r Ring) Reduce(p1, p2 Poly) {
	for i := range r.N {
		p2.Coeffs[i].And(p1.Coeffs[i], r.mask)
	}
}

// Center sets p2 = p1 mod 2^LogQ with coefficients in [-2^(LogQ-1), 2^(LogQ-1)).
func (r Ring) Center(p1, p2 Poly) {
	top := r.LogQ - 1
	for i := range r.N {
		c := p2.Coeffs[i].And(p1.Coeffs[i], r.mask)
		if c.Bit(top) == 1 {
			c.Sub(c, r.mod)
		}
	}
}

// Add sets p3 = p1 + p2 mod 2^LogQ.
func (r Ring) Add(p1, p2, p3 Poly) {
	for i := range r.N {
		p3.Coeffs[i].Add(p1.Coeffs[i], p2.Coeffs[i])
		p3.Coeffs[i].And(p3.Coeffs[i], r.mask)
	}
}

// Sub sets p3 = p1 - p2 mod 2^LogQ.
func (r Ring) Sub(p1, p2, p3 Poly) {
	for i := range r.N {
		p3.Coeffs[i].Sub(p1.Coeffs[i], p2.Coeffs[i])
		p3.Coeffs[i].And(p3.Coeffs[i], r.mask)
	}
}

// Neg sets p2 = -p1 mod 2^LogQ.
func (r Ring) Neg(p1, p2 Poly) {
	for i := range r.N {
		p2.Coeffs[i].Neg(p1.Coeffs[i])
		p2.Coeffs[i].And(p2.Coeffs[i], r.mask)
	}
}

// AddScalar sets p2 = p1 + scalar * X^0 mod 2^LogQ.
func (r Ring) AddScalar(p1 Poly, scalar *big.Int, p2 Poly) {
	r.Reduce(p1, p2)
	p2.Coeffs[0].Add(p2.Coeffs[0], scalar)
	p2.Coeffs[0].And(p2.Coeffs[0], r.mask)
}

// MulScalar sets p2 = p1 * scalar mod 2^LogQ.
func (r Ring) MulScalar(p1 Poly, scalar *big.Int, p2 Poly) {
	for i := range r.N {
		p2.Coeffs[i].Mul(p1.Coeffs[i], scalar)
		p2.Coeffs[i].And(p2.Coeffs[i], r.mask)
	}
}

// MulByPow2 sets p2 = p1 * 2^k mod 2^LogQ.
func (r Ring) MulByPow2(p1 Poly, k int, p2 Poly) {
	for i := range r.N {
		p2.Coeffs[i].Lsh(p1.Coeffs[i], uint(k))
		p2.Coeffs[i].And(p2.Coeffs[i], r.mask)
	}
}

// DivRoundByPow2 sets p2 = round(p1 / 2^k) mod 2^LogQ.
// Rounding is half up, i.e. floor((c + 2^(k-1)) / 2^k).
func (r Ring) DivRoundByPow2(p1 Poly, k int, p2 Poly) {

	if k == 0 {
		r.Reduce(p1, p2)
		return
	}

	half := new(big.Int).Lsh(big.NewInt(1), uint(k-1))
	for i := range r.N {
		p2.Coeffs[i].Add(p1.Coeffs[i], half)
		p2.Coeffs[i].Rsh(p2.Coeffs[i], uint(k))
		p2.Coeffs[i].And(p2.Coeffs[i], r.mask)
	}
}

// MulByMonomial sets p2 = p1 * X^k mod (X^N+1, 2^LogQ).
// k can be negative.
func (r Ring) MulByMonomial(p1 Poly, k int, p2 Poly) {

	N := r.N
	mask := 2*N - 1
	k &= mask

	tmp := make([]*big.Int, N)
	for i := range N {
		j := (i + k) & mask
		c := new(big.Int)
		if j < N {
			c.Set(p1.Coeffs[i])
			tmp[j] = c
		} else {
			c.Neg(p1.Coeffs[i])
			tmp[j-N] = c
		}
	}

	for i := range N {
		p2.Coeffs[i].And(tmp[i], r.mask)
	}
}

// Equal returns true if p1 = p2 mod 2^LogQ.
func (r Ring) Equal(p1, p2 Poly) bool {
	a, b := new(big.Int), new(big.Int)
	for i := range r.N {
		if a.And(p1.Coeffs[i], r.mask).Cmp(b.And(p2.Coeffs[i], r.mask)) != 0 {
			return false
		}
	}
	return true
}

package ring

import (
	"fmt"

	"github.com/Pro7ech/heaan/utils/sampling"
)

// TernarySampler samples polynomials with coefficients in [-1, 0, 1].
type TernarySampler struct {
	source *sampling.Source
	N      int
	p      float64
	h      int
}

// NewTernarySampler creates a new [TernarySampler] from the distribution X.
func NewTernarySampler(source *sampling.Source, r *Ring, X Ternary) (ts *TernarySampler, err error) {

	switch {
	case X.P != 0 && X.H != 0:
		return nil, fmt.Errorf("invalid ternary distribution: only one of P or H can be set")
	case X.P < 0 || X.P > 1:
		return nil, fmt.Errorf("invalid ternary distribution: P must be in [0, 1] but is %f", X.P)
	case X.H < 0 || X.H > r.N:
		return nil, fmt.Errorf("invalid ternary distribution: H must be in [0, %d] but is %d", r.N, X.H)
	case X.P == 0 && X.H == 0:
		return nil, fmt.Errorf("invalid ternary distribution: one of P or H must be set")
	}

	return &TernarySampler{source: source, N: r.N, p: X.P, h: X.H}, nil
}

// Read samples a ternary polynomial on pol.
func (ts *TernarySampler) Read(pol Poly) {

	pol.Zero()

	if ts.h != 0 {
		for _, i := range ts.source.Perm(ts.N)[:ts.h] {
			if ts.source.Uint64()&1 == 0 {
				pol.Coeffs[i].SetInt64(1)
			} else {
				pol.Coeffs[i].SetInt64(-1)
			}
		}
		return
	}

	for i := range ts.N {
		if ts.source.Rand.Float64() < ts.p {
			if ts.source.Uint64()&1 == 0 {
				pol.Coeffs[i].SetInt64(1)
			} else {
				pol.Coeffs[i].SetInt64(-1)
			}
		}
	}
}

// ReadNew samples a new ternary polynomial.
func (ts *TernarySampler) ReadNew() (pol Poly) {
	pol = NewPoly(ts.N)
	ts.Read(pol)
	return
}

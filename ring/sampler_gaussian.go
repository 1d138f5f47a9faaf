package ring

import (
	"fmt"
	"math"

	"github.com/Pro7ech/heaan/utils/sampling"
)

// GaussianSampler samples polynomials with rounded gaussian coefficients
// of standard deviation Sigma, rejecting values outside [-Bound, Bound].
type GaussianSampler struct {
	source *sampling.Source
	N      int
	xe     DiscreteGaussian
}

// NewGaussianSampler creates a new [GaussianSampler] from the distribution X.
func NewGaussianSampler(source *sampling.Source, r *Ring, X DiscreteGaussian) (*GaussianSampler, error) {
	if X.Sigma <= 0 {
		return nil, fmt.Errorf("invalid discrete gaussian: Sigma must be positive but is %f", X.Sigma)
	}
	if X.Bound < 1 {
		return nil, fmt.Errorf("invalid discrete gaussian: Bound must be at least one but is %f", X.Bound)
	}
	return &GaussianSampler{source: source, N: r.N, xe: X}, nil
}

// Read samples a gaussian polynomial on pol.
func (gs *GaussianSampler) Read(pol Poly) {
	for i := range gs.N {
		var e float64
		for {
			e = math.Round(gs.source.NormFloat64() * gs.xe.Sigma)
			if math.Abs(e) <= gs.xe.Bound {
				break
			}
		}
		pol.Coeffs[i].SetInt64(int64(e))
	}
}

// ReadNew samples a new gaussian polynomial.
func (gs *GaussianSampler) ReadNew() (pol Poly) {
	pol = NewPoly(gs.N)
	gs.Read(pol)
	return
}

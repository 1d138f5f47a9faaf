package ring

import (
	"fmt"

	"github.com/Pro7ech/heaan/utils/sampling"
)

// Sampler is an interface for random polynomial samplers.
// It has a single Read method which takes as argument the polynomial to be
// populated according to the Sampler's distribution.
type Sampler interface {
	Read(pol Poly)
	ReadNew() (pol Poly)
}

// NewSampler instantiates a new [Sampler] from the provided [sampling.Source],
// [Ring] and [DistributionParameters].
// Ternary and Gaussian samplers write signed coefficients, the uniform
// sampler writes coefficients in [0, 2^LogQ).
func NewSampler(source *sampling.Source, r *Ring, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case *DiscreteGaussian:
		return NewGaussianSampler(source, r, *X)
	case DiscreteGaussian:
		return NewGaussianSampler(source, r, X)
	case *Ternary:
		return NewTernarySampler(source, r, *X)
	case Ternary:
		return NewTernarySampler(source, r, X)
	case *Uniform, Uniform:
		return NewUniformSampler(source, r), nil
	default:
		return nil, fmt.Errorf("invalid distribution: want ring.DiscreteGaussian, ring.Ternary or ring.Uniform but have %T", X)
	}
}

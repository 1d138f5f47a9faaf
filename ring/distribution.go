package ring

// DistributionParameters is an interface for distribution
// parameters in the ring.
// There are three implementation of this interface:
//   - DiscreteGaussian for sampling polynomials with discretized
//     gaussian coefficient of given standard deviation and bound.
//   - Ternary for sampling polynomials with coefficients in [-1, 1].
//   - Uniform for sampling polynomial with uniformly random
//     coefficients in the ring.
type DistributionParameters interface {
	Equal(DistributionParameters) bool
	mustBeDist()
}

// DiscreteGaussian represents the parameters of a
// discrete Gaussian distribution with standard
// deviation Sigma and bounds [-Bound, Bound].
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// Ternary represent the parameters of a distribution with coefficients
// in [-1, 0, 1]. Only one of its field must be set to a non-zero value:
//
//   - If P is set, each coefficient in the polynomial is sampled in [-1, 0, 1]
//     with probabilities [0.5*P, 1-P, 0.5*P].
//   - if H is set, the coefficients are sampled uniformly in the set of ternary
//     polynomials with H non-zero coefficients (i.e., of hamming weight H).
type Ternary struct {
	P float64
	H int
}

// Uniform represents the parameters of a uniform distribution
// i.e., with coefficients uniformly distributed in the given ring.
type Uniform struct{}

// Equal returns true if other is a DiscreteGaussian with the same parameters.
func (d DiscreteGaussian) Equal(other DistributionParameters) bool {
	switch other := other.(type) {
	case *DiscreteGaussian:
		return d == *other
	case DiscreteGaussian:
		return d == other
	default:
		return false
	}
}

// Equal returns true if other is a Ternary with the same parameters.
func (d Ternary) Equal(other DistributionParameters) bool {
	switch other := other.(type) {
	case *Ternary:
		return d == *other
	case Ternary:
		return d == other
	default:
		return false
	}
}

// Equal returns true if other is a Uniform distribution.
func (d Uniform) Equal(other DistributionParameters) bool {
	switch other.(type) {
	case *Uniform, Uniform:
		return true
	default:
		return false
	}
}

func (d DiscreteGaussian) mustBeDist() {}

func (d Ternary) mustBeDist() {}

func (d Uniform) mustBeDist() {}

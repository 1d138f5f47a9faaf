package ring

import (
	"github.com/Pro7ech/heaan/utils/sampling"
)

// UniformSampler samples polynomials with coefficients uniform in [0, 2^LogQ).
type UniformSampler struct {
	source *sampling.Source
	r      *Ring
}

// NewUniformSampler creates a new [UniformSampler] over the ring r.
func NewUniformSampler(source *sampling.Source, r *Ring) *UniformSampler {
	return &UniformSampler{source: source, r: r}
}

// Read samples a uniform polynomial on pol.
func (us *UniformSampler) Read(pol Poly) {

	LogQ := us.r.LogQ
	buf := make([]byte, (LogQ+7)>>3)

	for i := range us.r.N {
		if _, err := us.source.Read(buf); err != nil {
			panic(err)
		}
		pol.Coeffs[i].SetBytes(buf)
	}

	us.r.Reduce(pol, pol)
}

// ReadNew samples a new uniform polynomial.
func (us *UniformSampler) ReadNew() (pol Poly) {
	pol = NewPoly(us.r.N)
	us.Read(pol)
	return
}

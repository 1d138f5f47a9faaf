package heaan

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Pro7ech/heaan/ring"
	"github.com/google/go-cmp/cmp"
	"github.com/zeebo/blake3"
)

const (
	// DefaultH is the default Hamming weight of the secret.
	DefaultH = 64

	// DefaultSigma is the default standard deviation of the error.
	DefaultSigma = 3.2

	// GaloisGen is the generator of the rotation group.
	GaloisGen uint64 = 5

	// MaxLogN is the largest supported ring degree (in log2).
	MaxLogN = 16
)

// ParametersLiteral is a literal representation of the parameters. It has public
// fields and is used to express unchecked user-defined parameters literally into
// Go programs. The NewParametersFromLiteral function is used to generate the actual
// checked parameters from the literal representation.
//
// Users must set the ring degree (in log2, LogN) and the bit-length of the
// largest ciphertext modulus (LogQ). Optionally, users may set the bit-length
// of the key-switching modulus (LogP, defaults to LogQ), the Hamming weight of
// the secret (H, defaults to min(64, N)) and the standard deviation of the error
// (Sigma, defaults to 3.2).
type ParametersLiteral struct {
	LogN  int
	LogQ  int
	LogP  int     `json:",omitempty"`
	H     int     `json:",omitempty"`
	Sigma float64 `json:",omitempty"`
}

// Parameters is the immutable context of the scheme: ring degree, moduli,
// distributions, rotation group and root-of-unity table.
type Parameters struct {
	logN     int
	logQ     int
	logP     int
	h        int
	sigma    float64
	rotGroup []int
	roots    []complex128
}

// NewParametersFromLiteral instantiates a set of [Parameters] from a
// [ParametersLiteral] specification. Unset optional fields are replaced
// by their default value.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.LogN < 2 || pl.LogN > MaxLogN {
		return params, fmt.Errorf("invalid LogN: must be in [2, %d] but is %d", MaxLogN, pl.LogN)
	}

	if pl.LogQ < 1 {
		return params, fmt.Errorf("invalid LogQ: must be positive but is %d", pl.LogQ)
	}

	if pl.LogP == 0 {
		pl.LogP = pl.LogQ
	}

	if pl.LogP < 1 {
		return params, fmt.Errorf("invalid LogP: must be positive but is %d", pl.LogP)
	}

	N := 1 << pl.LogN

	if pl.H == 0 {
		pl.H = min(DefaultH, N)
	}

	if pl.H < 1 || pl.H > N {
		return params, fmt.Errorf("invalid H: must be in [1, %d] but is %d", N, pl.H)
	}

	if pl.Sigma == 0 {
		pl.Sigma = DefaultSigma
	}

	if pl.Sigma < 0 {
		return params, fmt.Errorf("invalid Sigma: must be positive but is %f", pl.Sigma)
	}

	params = Parameters{
		logN:  pl.LogN,
		logQ:  pl.LogQ,
		logP:  pl.LogP,
		h:     pl.H,
		sigma: pl.Sigma,
	}

	M := 2 * N
	Nh := N >> 1

	params.rotGroup = make([]int, Nh)
	fivePows := 1
	for i := range Nh {
		params.rotGroup[i] = fivePows
		fivePows = (fivePows * int(GaloisGen)) & (M - 1)
	}

	params.roots = make([]complex128, M+1)
	for i := range M {
		angle := 2 * math.Pi * float64(i) / float64(M)
		params.roots[i] = complex(math.Cos(angle), math.Sin(angle))
	}
	params.roots[M] = params.roots[0]

	return
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		LogN:  p.logN,
		LogQ:  p.logQ,
		LogP:  p.logP,
		H:     p.h,
		Sigma: p.sigma,
	}
}

// N returns the ring degree.
func (p Parameters) N() int {
	return 1 << p.logN
}

// LogN returns the log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.logN
}

// M returns the cyclotomic index 2N.
func (p Parameters) M() int {
	return 2 << p.logN
}

// MaxSlots returns N/2, the maximum number of complex slots.
func (p Parameters) MaxSlots() int {
	return 1 << (p.logN - 1)
}

// LogMaxSlots returns log2(N/2).
func (p Parameters) LogMaxSlots() int {
	return p.logN - 1
}

// LogQ returns the bit-length of the largest ciphertext modulus.
func (p Parameters) LogQ() int {
	return p.logQ
}

// LogP returns the bit-length of the key-switching modulus P.
func (p Parameters) LogP() int {
	return p.logP
}

// LogQP returns the bit-length of the modulus of the evaluation keys.
func (p Parameters) LogQP() int {
	return p.logQ + p.logP
}

// H returns the Hamming weight of the secret.
func (p Parameters) H() int {
	return p.h
}

// Sigma returns the standard deviation of the error.
func (p Parameters) Sigma() float64 {
	return p.sigma
}

// Xs returns the distribution of the secret.
func (p Parameters) Xs() ring.DistributionParameters {
	return &ring.Ternary{H: p.h}
}

// Xe returns the distribution of the error, truncated at six standard deviations.
func (p Parameters) Xe() ring.DistributionParameters {
	return &ring.DiscreteGaussian{Sigma: p.sigma, Bound: math.Max(1, math.Round(6*p.sigma))}
}

// Xr returns the distribution of the ephemeral encryption randomness.
func (p Parameters) Xr() ring.DistributionParameters {
	return &ring.Ternary{P: 0.5}
}

// RotGroup returns the table 5^i mod M for i in [0, N/2).
// The returned slice must not be modified.
func (p Parameters) RotGroup() []int {
	return p.rotGroup
}

// Roots returns the table exp(2*pi*i*k/M) for k in [0, M].
// The returned slice must not be modified.
func (p Parameters) Roots() []complex128 {
	return p.roots
}

// RingAtLogQ returns the ring Z_{2^logq}[X]/(X^N+1).
func (p Parameters) RingAtLogQ(logq int) *ring.Ring {
	r, err := ring.NewRing(p.N(), logq)
	if err != nil {
		// Sanitized at parameter creation, logq is checked by the callers.
		panic(err)
	}
	return r
}

// RingQ returns the ring at the largest ciphertext modulus.
func (p Parameters) RingQ() *ring.Ring {
	return p.RingAtLogQ(p.logQ)
}

// RingQP returns the ring at the modulus of the evaluation keys.
func (p Parameters) RingQP() *ring.Ring {
	return p.RingAtLogQ(p.LogQP())
}

// GaloisElementForRotation returns the Galois element 5^k mod M
// for a rotation of the slots by k positions to the left.
// k can be negative.
func (p Parameters) GaloisElementForRotation(k int) uint64 {
	Nh := p.MaxSlots()
	k %= Nh
	if k < 0 {
		k += Nh
	}
	return uint64(p.rotGroup[k])
}

// GaloisElementForConjugation returns the Galois element M-1
// for the complex conjugation of the slots.
func (p Parameters) GaloisElementForConjugation() uint64 {
	return uint64(p.M() - 1)
}

// Equal returns true if the receiver and other are the same parameters.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var pl ParametersLiteral
	if err = json.Unmarshal(data, &pl); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(pl)
	return
}

// Fingerprint returns the blake3 digest of the JSON encoding of the
// parameters. Objects produced under different parameters have different
// fingerprints.
func (p Parameters) Fingerprint() (digest [32]byte) {
	data, err := p.MarshalJSON()
	if err != nil {
		// ParametersLiteral only has numeric fields.
		panic(err)
	}
	return blake3.Sum256(data)
}

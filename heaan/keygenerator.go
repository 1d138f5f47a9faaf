package heaan

import (
	"sync"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils/sampling"
)

// KeyGenerator generates secret keys, the public encryption key and
// key-switching keys.
// It is safe for concurrent use: accesses to its source of randomness
// are serialized.
type KeyGenerator struct {
	params Parameters
	mu     sync.Mutex
	source *sampling.Source
}

// NewKeyGenerator creates a new [KeyGenerator].
// If source is nil, a source seeded from crypto/rand is used.
func NewKeyGenerator(params Parameters, source *sampling.Source) *KeyGenerator {
	if source == nil {
		source = sampling.NewSource(sampling.NewSeed())
	}
	return &KeyGenerator{params: params, source: source}
}

func (kgen *KeyGenerator) sample(r *ring.Ring, X ring.DistributionParameters) ring.Poly {
	kgen.mu.Lock()
	defer kgen.mu.Unlock()
	sampler, err := ring.NewSampler(kgen.source, r, X)
	if err != nil {
		// Distributions are sanitized at parameter creation.
		panic(err)
	}
	return sampler.ReadNew()
}

// GenSecretKeyNew generates a new [SecretKey] with exactly H non-zero coefficients.
func (kgen *KeyGenerator) GenSecretKeyNew() (sk *SecretKey) {
	return &SecretKey{Value: kgen.sample(kgen.params.RingQ(), kgen.params.Xs())}
}

// GenEncryptionKeyNew generates the public encryption key of sk.
func (kgen *KeyGenerator) GenEncryptionKeyNew(sk *SecretKey) *Key {
	return kgen.genKey(sk, ring.NewPoly(kgen.params.N()))
}

// GenRelinearizationKeyNew generates the key switching s^2 to s.
func (kgen *KeyGenerator) GenRelinearizationKeyNew(sk *SecretKey) *Key {
	rQP := kgen.params.RingQP()
	s2 := rQP.NewPoly()
	rQP.Mul(sk.Value, sk.Value, s2)
	return kgen.genKey(sk, s2)
}

// GenConjugationKeyNew generates the key switching s(X^(2N-1)) to s.
func (kgen *KeyGenerator) GenConjugationKeyNew(sk *SecretKey) *Key {
	return kgen.genGaloisKey(sk, kgen.params.GaloisElementForConjugation())
}

// GenRotationKeyNew generates the key switching s(X^(5^k)) to s,
// enabling the left rotation of the slots by k positions.
func (kgen *KeyGenerator) GenRotationKeyNew(sk *SecretKey, k int) *Key {
	return kgen.genGaloisKey(sk, kgen.params.GaloisElementForRotation(k))
}

func (kgen *KeyGenerator) genGaloisKey(sk *SecretKey, galEl uint64) *Key {
	target := ring.NewPoly(kgen.params.N())
	ring.Automorphism(sk.Value, galEl, target)
	return kgen.genKey(sk, target)
}

// genKey returns (a, -a*s + e + P*target) mod 2^(LogQ+LogP).
func (kgen *KeyGenerator) genKey(sk *SecretKey, target ring.Poly) *Key {

	rQP := kgen.params.RingQP()

	ax := kgen.sample(rQP, &ring.Uniform{})
	e := kgen.sample(rQP, kgen.params.Xe())

	bx := rQP.NewPoly()
	rQP.Mul(ax, sk.Value, bx)
	rQP.Sub(e, bx, bx)

	rQP.MulByPow2(target, kgen.params.LogP(), target)
	rQP.Add(bx, target, bx)

	return &Key{Ax: ax, Bx: bx}
}

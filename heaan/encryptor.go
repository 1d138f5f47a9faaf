package heaan

import (
	"fmt"
	"sync"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils/sampling"
)

// Encryptor encrypts plaintexts under a public encryption key.
// It is safe for concurrent use.
type Encryptor struct {
	params Parameters
	pk     *Key
	mu     sync.Mutex
	source *sampling.Source
}

// NewEncryptor creates a new [Encryptor] from a public encryption key.
// If source is nil, a source seeded from crypto/rand is used.
func NewEncryptor(params Parameters, pk *Key, source *sampling.Source) *Encryptor {
	if source == nil {
		source = sampling.NewSource(sampling.NewSeed())
	}
	return &Encryptor{params: params, pk: pk, source: source}
}

func (enc *Encryptor) sample(r *ring.Ring, X ring.DistributionParameters) ring.Poly {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	sampler, err := ring.NewSampler(enc.source, r, X)
	if err != nil {
		panic(err)
	}
	return sampler.ReadNew()
}

// EncryptNew encrypts pt on a newly allocated [Ciphertext].
func (enc *Encryptor) EncryptNew(pt *Plaintext) (ct *Ciphertext, err error) {
	ct = NewCiphertext(enc.params, pt.Slots, pt.LogP, pt.LogQ)
	return ct, enc.Encrypt(pt, ct)
}

// Encrypt encrypts pt on ct.
// The ciphertext is computed as round((v*pk + (e0, e1 + P*m)) / P) mod 2^LogQ
// with v ternary and e0, e1 Gaussian.
func (enc *Encryptor) Encrypt(pt *Plaintext, ct *Ciphertext) (err error) {

	if pt.LogQ < 1 || pt.LogQ > enc.params.LogQ() {
		return fmt.Errorf("cannot Encrypt: logq=%d not in [1, %d]: %w", pt.LogQ, enc.params.LogQ(), ErrPrecisionExceeded)
	}

	logP := enc.params.LogP()
	rQ := enc.params.RingAtLogQ(pt.LogQ)
	rQP := enc.params.RingAtLogQ(pt.LogQ + logP)

	v := enc.sample(rQP, enc.params.Xr())
	e0 := enc.sample(rQP, enc.params.Xe())
	e1 := enc.sample(rQP, enc.params.Xe())

	ax := rQP.NewPoly()
	rQP.Mul(v, enc.pk.Ax, ax)
	rQP.Add(ax, e0, ax)

	bx := rQP.NewPoly()
	rQP.Mul(v, enc.pk.Bx, bx)
	rQP.Add(bx, e1, bx)

	m := rQP.NewPoly()
	rQP.MulByPow2(pt.Value, logP, m)
	rQP.Add(bx, m, bx)

	rQ.DivRoundByPow2(ax, logP, ct.Ax)
	rQ.DivRoundByPow2(bx, logP, ct.Bx)

	*ct.MetaData = *pt.MetaData

	return
}

// Decryptor decrypts ciphertexts with a secret key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor creates a new [Decryptor].
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {
	return &Decryptor{params: params, sk: sk}
}

// DecryptNew decrypts ct on a newly allocated [Plaintext].
func (dec *Decryptor) DecryptNew(ct *Ciphertext) (pt *Plaintext) {
	pt = NewPlaintext(dec.params, ct.Slots, ct.LogP, ct.LogQ)
	dec.Decrypt(ct, pt)
	return
}

// Decrypt decrypts ct on pt: m = Ax * s + Bx mod 2^LogQ.
func (dec *Decryptor) Decrypt(ct *Ciphertext, pt *Plaintext) {
	rQ := dec.params.RingAtLogQ(ct.LogQ)
	m := rQ.NewPoly()
	rQ.Mul(ct.Ax, dec.sk.Value, m)
	rQ.Add(m, ct.Bx, pt.Value)
	*pt.MetaData = *ct.MetaData
}

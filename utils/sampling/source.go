// Package sampling implements a seedable source of randomness.
package sampling

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
)

// Source is a deterministic source of randomness keyed by a 32 byte seed.
// It exposes the [math/rand/v2.Rand] API on top of a [KeyedPRNG].
type Source struct {
	*rand.Rand
	prng *KeyedPRNG
	seed [32]byte
}

// NewSeed returns a fresh 32 byte seed read from crypto/rand.
func NewSeed() (seed [32]byte) {
	if _, err := crand.Read(seed[:]); err != nil {
		panic(fmt.Errorf("crypto/rand.Read: %w", err))
	}
	return
}

// NewSource instantiates a new [Source] from the given seed.
func NewSource(seed [32]byte) *Source {
	prng, err := NewKeyedPRNG(seed[:])
	if err != nil {
		// 32 bytes is always a valid blake2b key.
		panic(err)
	}
	return &Source{
		Rand: rand.New(prng),
		prng: prng,
		seed: seed,
	}
}

// Seed returns the seed of the receiver.
func (s *Source) Seed() [32]byte {
	return s.seed
}

// Read fills p with bytes from the underlying stream.
func (s *Source) Read(p []byte) (n int, err error) {
	return s.prng.Read(p)
}

// NewSeed derives a new seed from the stream of the receiver.
func (s *Source) NewSeed() (seed [32]byte) {
	if _, err := s.Read(seed[:]); err != nil {
		panic(err)
	}
	return
}

// NewSource derives a new [Source] from the stream of the receiver.
func (s *Source) NewSource() *Source {
	return NewSource(s.NewSeed())
}

// Float64 returns a uniform float64 in [min, max).
func (s *Source) Float64(min, max float64) float64 {
	return min + (max-min)*s.Rand.Float64()
}

// Complex128 returns a complex128 with real and imaginary
// parts uniform in [real(min), real(max)) and [imag(min), imag(max)).
func (s *Source) Complex128(min, max complex128) complex128 {
	return complex(s.Float64(real(min), real(max)), s.Float64(imag(min), imag(max)))
}

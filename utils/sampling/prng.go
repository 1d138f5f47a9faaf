package sampling

import (
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// KeyedPRNG deterministically generates a stream of random bytes from
// a key using the blake2b XOF. Two instances built from the same key
// produce the same stream.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new instance of KeyedPRNG.
// The key must be at most 64 bytes.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, fmt.Errorf("blake2b.NewXOF: %w", err)
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &KeyedPRNG{key: k, xof: xof}, nil
}

// Key returns a copy of the key used to seed the PRNG.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read reads len(sum) bytes from the stream.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Uint64 returns the next 8 bytes of the stream as a uint64.
// It implements [math/rand/v2.Source].
func (prng *KeyedPRNG) Uint64() uint64 {
	var b [8]byte
	if _, err := prng.Read(b[:]); err != nil {
		// The blake2b XOF with unknown output length only fails
		// after 2^38 bytes.
		panic(fmt.Errorf("blake2b.XOF.Read: %w", err))
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Reset resets the PRNG to its initial state.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}

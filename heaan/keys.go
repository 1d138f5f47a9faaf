package heaan

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils"
	"github.com/Pro7ech/heaan/utils/buffer"
)

// SecretKey is a ternary polynomial of fixed Hamming weight.
// Its coefficients are signed.
type SecretKey struct {
	Value ring.Poly
}

// NewSecretKey allocates a new zero [SecretKey].
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{Value: ring.NewPoly(params.N())}
}

// Key is a public RLWE sample (Ax, Bx) with Bx = -Ax * s + e + P * target
// modulo 2^(LogQ+LogP). It is used both as the public encryption key
// (target = 0) and as a key-switching key.
type Key struct {
	Ax ring.Poly
	Bx ring.Poly
}

// Equal returns true if the receiver and other are equal.
func (k *Key) Equal(other *Key) bool {
	return k.Ax.Equal(&other.Ax) && k.Bx.Equal(&other.Bx)
}

// BinarySize returns the serialized size of the object in bytes.
func (k *Key) BinarySize() int {
	return k.Ax.BinarySize() + k.Bx.BinarySize()
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (k *Key) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		var inc int64
		if inc, err = k.Ax.WriteTo(w); err != nil {
			return n + inc, err
		}
		n += inc
		inc, err = k.Bx.WriteTo(w)
		return n + inc, err
	default:
		return k.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (k *Key) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		var inc int64
		if inc, err = k.Ax.ReadFrom(r); err != nil {
			return n + inc, err
		}
		n += inc
		inc, err = k.Bx.ReadFrom(r)
		return n + inc, err
	default:
		return k.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (k *Key) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(k.BinarySize())
	_, err = k.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (k *Key) UnmarshalBinary(data []byte) (err error) {
	_, err = k.ReadFrom(buffer.NewBuffer(data))
	return
}

// KeyPurpose is the closed set of roles an evaluation key can have.
type KeyPurpose int

const (
	// Encryption is the public encryption key.
	Encryption = KeyPurpose(iota)
	// Relinearization is the key switching s^2 to s.
	Relinearization
	// Conjugation is the key switching s(X^(2N-1)) to s.
	Conjugation
	// Rotation is the key switching s(X^(5^r)) to s.
	Rotation
)

func (p KeyPurpose) String() string {
	switch p {
	case Encryption:
		return "Encryption"
	case Relinearization:
		return "Relinearization"
	case Conjugation:
		return "Conjugation"
	case Rotation:
		return "Rotation"
	default:
		return fmt.Sprintf("KeyPurpose(%d)", int(p))
	}
}

// KeyID identifies a key of a [KeyStore].
// Amount is only meaningful for [Rotation] keys.
type KeyID struct {
	Purpose KeyPurpose
	Amount  int
}

// RotationKeyID returns the [KeyID] of the key for a left rotation by k slots.
func RotationKeyID(k int) KeyID {
	return KeyID{Purpose: Rotation, Amount: k}
}

func (id KeyID) String() string {
	if id.Purpose == Rotation {
		return fmt.Sprintf("%s(%d)", id.Purpose, id.Amount)
	}
	return id.Purpose.String()
}

// KeyStore is a map of public keys safe for concurrent use.
// Keys are inserted once and never mutated afterwards.
type KeyStore struct {
	mu   sync.RWMutex
	keys map[KeyID]*Key
}

// NewKeyStore allocates a new empty [KeyStore].
func NewKeyStore() *KeyStore {
	return &KeyStore{keys: map[KeyID]*Key{}}
}

// Set inserts or replaces the key with the given id.
func (ks *KeyStore) Set(id KeyID, key *Key) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.keys[id] = key
}

// Get returns the key with the given id, or an error wrapping
// [ErrMissingKey] if there is none.
func (ks *KeyStore) Get(id KeyID) (*Key, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	if key, ok := ks.keys[id]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingKey, id)
}

// Has returns true if the store contains a key with the given id.
func (ks *KeyStore) Has(id KeyID) bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	_, ok := ks.keys[id]
	return ok
}

// Rotations returns the sorted list of rotation amounts
// for which the store holds a key.
func (ks *KeyStore) Rotations() []int {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	m := map[int]bool{}
	for id := range ks.keys {
		if id.Purpose == Rotation {
			m[id.Amount] = true
		}
	}
	return utils.GetSortedKeys(m)
}

package heaan

import (
	"fmt"
	"sync"

	"github.com/Pro7ech/heaan/utils"
	"github.com/Pro7ech/heaan/utils/sampling"
)

// Scheme bundles the encoder, the key store, the key generator and the
// bootstrapping contexts of a set of [Parameters], and implements the
// homomorphic operators on [Ciphertext].
//
// All methods are safe for concurrent use. Operators never mutate their
// inputs unless the output aliases an input.
type Scheme struct {
	*Encoder
	params Parameters
	keys   *KeyStore
	kgen   *KeyGenerator
	source *sampling.Source

	encMu sync.Mutex
	enc   *Encryptor

	bootMu sync.RWMutex
	boot   map[int]*BootContext
}

// NewScheme creates a new [Scheme]. If sk is not nil, the public encryption
// key and the relinearization key of sk are generated.
// If source is nil, a source seeded from crypto/rand is used.
func NewScheme(params Parameters, sk *SecretKey, source *sampling.Source) (s *Scheme) {

	if source == nil {
		source = sampling.NewSource(sampling.NewSeed())
	}

	s = &Scheme{
		Encoder: NewEncoder(params),
		params:  params,
		keys:    NewKeyStore(),
		kgen:    NewKeyGenerator(params, source.NewSource()),
		source:  source.NewSource(),
		boot:    map[int]*BootContext{},
	}

	if sk != nil {
		s.AddEncKey(sk)
		s.AddMultKey(sk)
	}

	return
}

// Parameters returns the parameters of the receiver.
func (s *Scheme) Parameters() Parameters {
	return s.params
}

// Keys returns the key store of the receiver.
func (s *Scheme) Keys() *KeyStore {
	return s.keys
}

// KeyGenerator returns the key generator of the receiver.
func (s *Scheme) KeyGenerator() *KeyGenerator {
	return s.kgen
}

// AddEncKey generates and stores the public encryption key of sk.
func (s *Scheme) AddEncKey(sk *SecretKey) {
	s.keys.Set(KeyID{Purpose: Encryption}, s.kgen.GenEncryptionKeyNew(sk))
	s.encMu.Lock()
	s.enc = nil
	s.encMu.Unlock()
}

// AddMultKey generates and stores the relinearization key of sk.
func (s *Scheme) AddMultKey(sk *SecretKey) {
	s.keys.Set(KeyID{Purpose: Relinearization}, s.kgen.GenRelinearizationKeyNew(sk))
}

// AddConjKey generates and stores the conjugation key of sk.
func (s *Scheme) AddConjKey(sk *SecretKey) {
	s.keys.Set(KeyID{Purpose: Conjugation}, s.kgen.GenConjugationKeyNew(sk))
}

// AddLeftRotKey generates and stores the key for a left rotation by r slots.
func (s *Scheme) AddLeftRotKey(sk *SecretKey, r int) {
	if r = utils.ModInt(r, s.params.MaxSlots()); r != 0 {
		s.keys.Set(RotationKeyID(r), s.kgen.GenRotationKeyNew(sk, r))
	}
}

// AddRightRotKey generates and stores the key for a right rotation by r slots,
// that is a left rotation by N/2 - r slots.
func (s *Scheme) AddRightRotKey(sk *SecretKey, r int) {
	s.AddLeftRotKey(sk, s.params.MaxSlots()-utils.ModInt(r, s.params.MaxSlots()))
}

// AddLeftRotKeys generates the keys for all left rotations by a power of two.
func (s *Scheme) AddLeftRotKeys(sk *SecretKey) {
	for i := 1; i < s.params.MaxSlots(); i <<= 1 {
		s.AddLeftRotKey(sk, i)
	}
}

// AddRightRotKeys generates the keys for all right rotations by a power of two.
func (s *Scheme) AddRightRotKeys(sk *SecretKey) {
	for i := 1; i < s.params.MaxSlots(); i <<= 1 {
		s.AddRightRotKey(sk, i)
	}
}

// AddSortKeys generates the left and right rotation keys by every power of
// two smaller than size, which are the rotations of a bitonic sorting network
// over size slots.
func (s *Scheme) AddSortKeys(sk *SecretKey, size int) (err error) {
	if !utils.IsPow2(size) || size > s.params.MaxSlots() {
		return fmt.Errorf("cannot AddSortKeys: size=%d must be a power of two in [1, %d]: %w", size, s.params.MaxSlots(), ErrDomainRange)
	}
	for i := 1; i < size; i <<= 1 {
		s.AddLeftRotKey(sk, i)
		s.AddRightRotKey(sk, i)
	}
	return
}

// AddBootKey builds and caches the [BootContext] for 2^logl slots at
// precision logp and generates every key the bootstrapping of such
// ciphertexts requires.
func (s *Scheme) AddBootKey(sk *SecretKey, logl, logp int) (err error) {

	var bc *BootContext
	if bc, err = NewBootContext(s.params, logl, logp); err != nil {
		return fmt.Errorf("cannot AddBootKey: %w", err)
	}

	for _, r := range bc.Rotations(s.params) {
		if !s.keys.Has(RotationKeyID(r)) {
			s.AddLeftRotKey(sk, r)
		}
	}

	s.AddConjKey(sk)

	s.bootMu.Lock()
	s.boot[logl] = bc
	s.bootMu.Unlock()

	return
}

// SetBootContext caches a [BootContext] built elsewhere, e.g. read from disk.
func (s *Scheme) SetBootContext(bc *BootContext) {
	s.bootMu.Lock()
	defer s.bootMu.Unlock()
	s.boot[bc.LogSlots] = bc
}

// BootContext returns the cached [BootContext] for 2^logl slots.
func (s *Scheme) BootContext(logl int) (*BootContext, error) {
	s.bootMu.RLock()
	defer s.bootMu.RUnlock()
	if bc, ok := s.boot[logl]; ok {
		return bc, nil
	}
	return nil, fmt.Errorf("%w: BootContext(logSlots=%d)", ErrMissingKey, logl)
}

func (s *Scheme) encryptor() (enc *Encryptor, err error) {
	s.encMu.Lock()
	defer s.encMu.Unlock()
	if s.enc == nil {
		var pk *Key
		if pk, err = s.keys.Get(KeyID{Purpose: Encryption}); err != nil {
			return
		}
		s.enc = NewEncryptor(s.params, pk, s.source.NewSource())
	}
	return s.enc, nil
}

// EncryptMsg encrypts a [Plaintext] under the public encryption key.
func (s *Scheme) EncryptMsg(pt *Plaintext) (ct *Ciphertext, err error) {
	var enc *Encryptor
	if enc, err = s.encryptor(); err != nil {
		return nil, fmt.Errorf("cannot Encrypt: %w", err)
	}
	return enc.EncryptNew(pt)
}

// Encrypt encodes and encrypts up to slots complex values.
func (s *Scheme) Encrypt(values []complex128, slots, logp, logq int) (ct *Ciphertext, err error) {
	var pt *Plaintext
	if pt, err = s.EncodeNew(values, slots, logp, logq); err != nil {
		return
	}
	return s.EncryptMsg(pt)
}

// EncryptReal encodes and encrypts up to slots real values.
func (s *Scheme) EncryptReal(values []float64, slots, logp, logq int) (ct *Ciphertext, err error) {
	var pt *Plaintext
	if pt, err = s.EncodeRealNew(values, slots, logp, logq); err != nil {
		return
	}
	return s.EncryptMsg(pt)
}

// EncryptSingle encodes and encrypts a single complex value.
func (s *Scheme) EncryptSingle(value complex128, logp, logq int) (ct *Ciphertext, err error) {
	var pt *Plaintext
	if pt, err = s.EncodeSingleNew(value, logp, logq); err != nil {
		return
	}
	return s.EncryptMsg(pt)
}

// EncryptSingleReal encodes and encrypts a single real value.
func (s *Scheme) EncryptSingleReal(value float64, logp, logq int) (ct *Ciphertext, err error) {
	var pt *Plaintext
	if pt, err = s.EncodeSingleRealNew(value, logp, logq); err != nil {
		return
	}
	return s.EncryptMsg(pt)
}

// EncryptZeros returns an encryption of the zero vector.
func (s *Scheme) EncryptZeros(slots, logp, logq int) (ct *Ciphertext, err error) {
	return s.Encrypt(nil, slots, logp, logq)
}

// DecryptMsg decrypts ct with sk.
func (s *Scheme) DecryptMsg(sk *SecretKey, ct *Ciphertext) (pt *Plaintext) {
	return NewDecryptor(s.params, sk).DecryptNew(ct)
}

// Decrypt decrypts and decodes ct with sk.
func (s *Scheme) Decrypt(sk *SecretKey, ct *Ciphertext) (values []complex128, err error) {
	return s.Decode(s.DecryptMsg(sk, ct))
}

// DecryptSingle decrypts and decodes a single slot ct with sk.
func (s *Scheme) DecryptSingle(sk *SecretKey, ct *Ciphertext) (value complex128, err error) {
	return s.DecodeSingle(s.DecryptMsg(sk, ct))
}

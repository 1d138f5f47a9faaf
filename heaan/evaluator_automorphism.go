package heaan

import (
	"fmt"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils"
)

// automorphism sets opOut = key-switch(op0(X^galEl)).
func (s *Scheme) automorphism(op0 *Ciphertext, galEl uint64, key *Key, opOut *Ciphertext) (err error) {

	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return
	}

	ax := rQ.NewPoly()
	bx := rQ.NewPoly()
	rQ.Automorphism(op0.Ax, galEl, ax)
	rQ.Automorphism(op0.Bx, galEl, bx)

	ax, ks := s.keySwitch(ax, key, op0.LogQ)

	opOut.Ax.Copy(&ax)
	rQ.Add(bx, ks, opOut.Bx)

	*opOut.MetaData = *op0.MetaData

	return
}

// LeftRotateFast rotates the slots of op0 by r positions to the left
// with a single key switch. The key for r must have been generated.
func (s *Scheme) LeftRotateFast(op0 *Ciphertext, r int, opOut *Ciphertext) (err error) {

	r = utils.ModInt(r, s.params.MaxSlots())

	if r == 0 {
		opOut.Copy(op0)
		return
	}

	var key *Key
	if key, err = s.keys.Get(RotationKeyID(r)); err != nil {
		return fmt.Errorf("cannot LeftRotateFast: %w", err)
	}

	if err = s.automorphism(op0, s.params.GaloisElementForRotation(r), key, opOut); err != nil {
		return fmt.Errorf("cannot LeftRotateFast: %w", err)
	}

	return
}

// LeftRotateFastNew rotates op0 by r positions to the left on a new [Ciphertext].
func (s *Scheme) LeftRotateFastNew(op0 *Ciphertext, r int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.LeftRotateFast(op0, r, opOut)
}

// LeftRotateByPo2 rotates the slots of op0 by 2^logr positions to the left.
func (s *Scheme) LeftRotateByPo2(op0 *Ciphertext, logr int, opOut *Ciphertext) (err error) {
	return s.LeftRotateFast(op0, 1<<logr, opOut)
}

// RightRotateByPo2 rotates the slots of op0 by 2^logr positions to the right.
func (s *Scheme) RightRotateByPo2(op0 *Ciphertext, logr int, opOut *Ciphertext) (err error) {
	return s.LeftRotateFast(op0, s.params.MaxSlots()-(1<<logr), opOut)
}

// LeftRotate rotates the slots of op0 by r positions to the left.
// The key for r is used if available, otherwise the rotation is decomposed
// into rotations by powers of two.
func (s *Scheme) LeftRotate(op0 *Ciphertext, r int, opOut *Ciphertext) (err error) {

	r = utils.ModInt(r, s.params.MaxSlots())

	if r == 0 || s.keys.Has(RotationKeyID(r)) {
		return s.LeftRotateFast(op0, r, opOut)
	}

	for i := 0; r>>i != 0; i++ {
		if (r>>i)&1 == 1 && !s.keys.Has(RotationKeyID(1<<i)) {
			return fmt.Errorf("cannot LeftRotate: %w: %s", ErrMissingKey, RotationKeyID(1<<i))
		}
	}

	in := op0
	for i := 0; r>>i != 0; i++ {
		if (r>>i)&1 == 1 {
			if err = s.LeftRotateFast(in, 1<<i, opOut); err != nil {
				return fmt.Errorf("cannot LeftRotate: %w", err)
			}
			in = opOut
		}
	}

	return
}

// LeftRotateNew rotates op0 by r positions to the left on a new [Ciphertext].
func (s *Scheme) LeftRotateNew(op0 *Ciphertext, r int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.LeftRotate(op0, r, opOut)
}

// RightRotate rotates the slots of op0 by r positions to the right.
func (s *Scheme) RightRotate(op0 *Ciphertext, r int, opOut *Ciphertext) (err error) {
	Nh := s.params.MaxSlots()
	return s.LeftRotate(op0, Nh-utils.ModInt(r, Nh), opOut)
}

// RightRotateNew rotates op0 by r positions to the right on a new [Ciphertext].
func (s *Scheme) RightRotateNew(op0 *Ciphertext, r int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.RightRotate(op0, r, opOut)
}

// Conjugate sets opOut to the complex conjugate of op0.
func (s *Scheme) Conjugate(op0, opOut *Ciphertext) (err error) {

	var key *Key
	if key, err = s.keys.Get(KeyID{Purpose: Conjugation}); err != nil {
		return fmt.Errorf("cannot Conjugate: %w", err)
	}

	if err = s.automorphism(op0, s.params.GaloisElementForConjugation(), key, opOut); err != nil {
		return fmt.Errorf("cannot Conjugate: %w", err)
	}

	return
}

// ConjugateNew returns the complex conjugate of op0 on a new [Ciphertext].
func (s *Scheme) ConjugateNew(op0 *Ciphertext) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.Conjugate(op0, opOut)
}

package heaan

import (
	"fmt"

	"github.com/Pro7ech/heaan/ring"
)

func (s *Scheme) checkBitsDown(op0 *Ciphertext, bits int) (rOut *ring.Ring, err error) {
	if bits < 0 {
		return nil, fmt.Errorf("bits=%d is negative: %w", bits, ErrPrecisionExceeded)
	}
	if op0.LogQ-bits <= 0 {
		return nil, fmt.Errorf("logq=%d - bits=%d <= 0: %w", op0.LogQ, bits, ErrPrecisionExceeded)
	}
	return s.ringAt(op0.LogQ - bits)
}

// ReScaleBy divides op0 by 2^bits with rounding: both the modulus and the
// scale of the output are reduced by bits. bits cannot exceed op0.LogP.
func (s *Scheme) ReScaleBy(op0 *Ciphertext, bits int, opOut *Ciphertext) (err error) {

	if bits > op0.LogP {
		return fmt.Errorf("cannot ReScaleBy: bits=%d > logp=%d: %w", bits, op0.LogP, ErrPrecisionExceeded)
	}

	var rOut *ring.Ring
	if rOut, err = s.checkBitsDown(op0, bits); err != nil {
		return fmt.Errorf("cannot ReScaleBy: %w", err)
	}

	rOut.DivRoundByPow2(op0.Ax, bits, opOut.Ax)
	rOut.DivRoundByPow2(op0.Bx, bits, opOut.Bx)

	*opOut.MetaData = *op0.MetaData
	opOut.LogQ -= bits
	opOut.LogP -= bits

	return
}

// ReScaleByNew returns the rescaling of op0 by 2^bits on a new [Ciphertext].
func (s *Scheme) ReScaleByNew(op0 *Ciphertext, bits int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.ReScaleBy(op0, bits, opOut)
}

// ReScaleTo rescales op0 down to the modulus 2^logq.
func (s *Scheme) ReScaleTo(op0 *Ciphertext, logq int, opOut *Ciphertext) (err error) {
	return s.ReScaleBy(op0, op0.LogQ-logq, opOut)
}

// ReScaleToNew rescales op0 down to the modulus 2^logq on a new [Ciphertext].
func (s *Scheme) ReScaleToNew(op0 *Ciphertext, logq int) (opOut *Ciphertext, err error) {
	return s.ReScaleByNew(op0, op0.LogQ-logq)
}

// ModDownBy reduces op0 modulo 2^(LogQ-bits). The scale is unchanged.
func (s *Scheme) ModDownBy(op0 *Ciphertext, bits int, opOut *Ciphertext) (err error) {

	var rOut *ring.Ring
	if rOut, err = s.checkBitsDown(op0, bits); err != nil {
		return fmt.Errorf("cannot ModDownBy: %w", err)
	}

	rOut.Reduce(op0.Ax, opOut.Ax)
	rOut.Reduce(op0.Bx, opOut.Bx)

	*opOut.MetaData = *op0.MetaData
	opOut.LogQ -= bits

	return
}

// ModDownByNew reduces op0 modulo 2^(LogQ-bits) on a new [Ciphertext].
func (s *Scheme) ModDownByNew(op0 *Ciphertext, bits int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.ModDownBy(op0, bits, opOut)
}

// ModDownTo reduces op0 modulo 2^logq.
func (s *Scheme) ModDownTo(op0 *Ciphertext, logq int, opOut *Ciphertext) (err error) {
	return s.ModDownBy(op0, op0.LogQ-logq, opOut)
}

// ModDownToNew reduces op0 modulo 2^logq on a new [Ciphertext].
func (s *Scheme) ModDownToNew(op0 *Ciphertext, logq int) (opOut *Ciphertext, err error) {
	return s.ModDownByNew(op0, op0.LogQ-logq)
}

// MultByPo2 multiplies the message of op0 by 2^bits.
// Modulus and scale are unchanged.
func (s *Scheme) MultByPo2(op0 *Ciphertext, bits int, opOut *Ciphertext) (err error) {

	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return fmt.Errorf("cannot MultByPo2: %w", err)
	}

	if bits < 0 {
		return fmt.Errorf("cannot MultByPo2: bits=%d is negative: %w", bits, ErrPrecisionExceeded)
	}

	rQ.MulByPow2(op0.Ax, bits, opOut.Ax)
	rQ.MulByPow2(op0.Bx, bits, opOut.Bx)

	*opOut.MetaData = *op0.MetaData

	return
}

// MultByPo2New multiplies the message of op0 by 2^bits on a new [Ciphertext].
func (s *Scheme) MultByPo2New(op0 *Ciphertext, bits int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.MultByPo2(op0, bits, opOut)
}

// DivByPo2 divides the message of op0 by 2^bits with rounding.
// The modulus is reduced by bits and the scale is unchanged.
func (s *Scheme) DivByPo2(op0 *Ciphertext, bits int, opOut *Ciphertext) (err error) {

	var rOut *ring.Ring
	if rOut, err = s.checkBitsDown(op0, bits); err != nil {
		return fmt.Errorf("cannot DivByPo2: %w", err)
	}

	rOut.DivRoundByPow2(op0.Ax, bits, opOut.Ax)
	rOut.DivRoundByPow2(op0.Bx, bits, opOut.Bx)

	*opOut.MetaData = *op0.MetaData
	opOut.LogQ -= bits

	return
}

// DivByPo2New divides the message of op0 by 2^bits on a new [Ciphertext].
func (s *Scheme) DivByPo2New(op0 *Ciphertext, bits int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.DivByPo2(op0, bits, opOut)
}

// SetScale brings the scale of op0 to 2^logp: by rescaling if the scale is
// larger, and by a multiplication with 2^(logp - LogP) stored in the scale
// otherwise. The message is unchanged.
func (s *Scheme) SetScale(op0 *Ciphertext, logp int, opOut *Ciphertext) (err error) {
	switch {
	case op0.LogP > logp:
		return s.ReScaleBy(op0, op0.LogP-logp, opOut)
	case op0.LogP < logp:
		if err = s.MultByPo2(op0, logp-op0.LogP, opOut); err != nil {
			return
		}
		opOut.LogP = logp
		return
	default:
		opOut.Copy(op0)
		return
	}
}

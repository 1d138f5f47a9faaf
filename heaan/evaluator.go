package heaan

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils/bignum"
)

func (s *Scheme) ringAt(logq int) (*ring.Ring, error) {
	if logq < 1 || logq > s.params.LogQ() {
		return nil, fmt.Errorf("logq=%d not in [1, %d]: %w", logq, s.params.LogQ(), ErrPrecisionExceeded)
	}
	return s.params.RingAtLogQ(logq), nil
}

func checkAdditive(op0, op1 *MetaData) (err error) {
	if op0.LogQ != op1.LogQ {
		return fmt.Errorf("logq=%d != logq=%d: %w", op0.LogQ, op1.LogQ, ErrLevelMismatch)
	}
	if op0.LogP != op1.LogP {
		return fmt.Errorf("logp=%d != logp=%d: %w", op0.LogP, op1.LogP, ErrScaleMismatch)
	}
	return
}

func (s *Scheme) newCiphertextLike(ct *Ciphertext) *Ciphertext {
	return NewCiphertext(s.params, ct.Slots, ct.LogP, ct.LogQ)
}

// Negate sets opOut = -op0.
func (s *Scheme) Negate(op0, opOut *Ciphertext) (err error) {
	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return fmt.Errorf("cannot Negate: %w", err)
	}
	rQ.Neg(op0.Ax, opOut.Ax)
	rQ.Neg(op0.Bx, opOut.Bx)
	*opOut.MetaData = *op0.MetaData
	return
}

// NegateNew returns -op0 on a new [Ciphertext].
func (s *Scheme) NegateNew(op0 *Ciphertext) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.Negate(op0, opOut)
}

// Add sets opOut = op0 + op1.
// The second operand can be a *[Ciphertext] or a *[Plaintext].
// Both operands must share the same LogQ and LogP.
func (s *Scheme) Add(op0 *Ciphertext, op1 interface{}, opOut *Ciphertext) (err error) {
	if err = s.addSub(op0, op1, opOut, false); err != nil {
		return fmt.Errorf("cannot Add: %w", err)
	}
	return
}

// AddNew returns op0 + op1 on a new [Ciphertext].
func (s *Scheme) AddNew(op0 *Ciphertext, op1 interface{}) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.Add(op0, op1, opOut)
}

// Sub sets opOut = op0 - op1.
// The second operand can be a *[Ciphertext] or a *[Plaintext].
// Both operands must share the same LogQ and LogP.
func (s *Scheme) Sub(op0 *Ciphertext, op1 interface{}, opOut *Ciphertext) (err error) {
	if err = s.addSub(op0, op1, opOut, true); err != nil {
		return fmt.Errorf("cannot Sub: %w", err)
	}
	return
}

// SubNew returns op0 - op1 on a new [Ciphertext].
func (s *Scheme) SubNew(op0 *Ciphertext, op1 interface{}) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.Sub(op0, op1, opOut)
}

func (s *Scheme) addSub(op0 *Ciphertext, op1 interface{}, opOut *Ciphertext, sub bool) (err error) {

	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return
	}

	op := rQ.Add
	if sub {
		op = rQ.Sub
	}

	meta := *op0.MetaData

	switch op1 := op1.(type) {
	case *Ciphertext:
		if err = checkAdditive(op0.MetaData, op1.MetaData); err != nil {
			return
		}
		meta.Slots = max(op0.Slots, op1.Slots)
		meta.IsComplex = op0.IsComplex || op1.IsComplex
		op(op0.Ax, op1.Ax, opOut.Ax)
		op(op0.Bx, op1.Bx, opOut.Bx)
	case *Plaintext:
		if err = checkAdditive(op0.MetaData, op1.MetaData); err != nil {
			return
		}
		meta.Slots = max(op0.Slots, op1.Slots)
		meta.IsComplex = op0.IsComplex || op1.IsComplex
		rQ.Reduce(op0.Ax, opOut.Ax)
		op(op0.Bx, op1.Value, opOut.Bx)
	default:
		return fmt.Errorf("invalid op1.(type): must be *heaan.Ciphertext or *heaan.Plaintext but is %T", op1)
	}

	*opOut.MetaData = meta

	return
}

// scaleConstant returns round(Re(c) * 2^logp) and round(Im(c) * 2^logp).
func scaleConstant(constant interface{}, logp int) (re, im *big.Int, err error) {

	switch constant.(type) {
	case complex128, complex64, float64, float32, int, int64, uint64, *big.Int, *big.Float, *bignum.Complex:
	default:
		return nil, nil, fmt.Errorf("invalid constant.(type): %T", constant)
	}

	c := bignum.ToComplex(constant, uint(max(logp, 0)+128))

	return bignum.ScaleUp(c.Real(), logp), bignum.ScaleUp(c.Imag(), logp), nil
}

// AddConst sets opOut = op0 + constant. The constant is scaled by 2^op0.LogP.
// Accepted constant types are complex128, complex64, float64, float32,
// int, int64, uint64, *big.Int, *big.Float and *bignum.Complex.
func (s *Scheme) AddConst(op0 *Ciphertext, constant interface{}, opOut *Ciphertext) (err error) {

	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return fmt.Errorf("cannot AddConst: %w", err)
	}

	var re, im *big.Int
	if re, im, err = scaleConstant(constant, op0.LogP); err != nil {
		return fmt.Errorf("cannot AddConst: %w", err)
	}

	Nh := s.params.MaxSlots()

	rQ.Reduce(op0.Ax, opOut.Ax)
	rQ.Reduce(op0.Bx, opOut.Bx)
	opOut.Bx.Coeffs[0].Add(opOut.Bx.Coeffs[0], re)
	opOut.Bx.Coeffs[Nh].Add(opOut.Bx.Coeffs[Nh], im)
	rQ.Reduce(opOut.Bx, opOut.Bx)

	*opOut.MetaData = *op0.MetaData
	opOut.IsComplex = op0.IsComplex || im.Sign() != 0

	return
}

// AddConstNew returns op0 + constant on a new [Ciphertext].
func (s *Scheme) AddConstNew(op0 *Ciphertext, constant interface{}) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.AddConst(op0, constant, opOut)
}

// MultByConst sets opOut = op0 * round(constant * 2^logp) and
// increases the scale of the output by logp.
// A complex constant a + ib is applied as the polynomial a + b*X^(N/2).
func (s *Scheme) MultByConst(op0 *Ciphertext, constant interface{}, logp int, opOut *Ciphertext) (err error) {

	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return fmt.Errorf("cannot MultByConst: %w", err)
	}

	if logp < 0 {
		return fmt.Errorf("cannot MultByConst: logp=%d is negative: %w", logp, ErrPrecisionExceeded)
	}

	var re, im *big.Int
	if re, im, err = scaleConstant(constant, logp); err != nil {
		return fmt.Errorf("cannot MultByConst: %w", err)
	}

	Nh := s.params.MaxSlots()

	for _, p := range [][2]ring.Poly{{op0.Ax, opOut.Ax}, {op0.Bx, opOut.Bx}} {
		if im.Sign() != 0 {
			tmp := rQ.NewPoly()
			rQ.MulScalar(p[0], im, tmp)
			rQ.MulByMonomial(tmp, Nh, tmp)
			rQ.MulScalar(p[0], re, p[1])
			rQ.Add(p[1], tmp, p[1])
		} else {
			rQ.MulScalar(p[0], re, p[1])
		}
	}

	*opOut.MetaData = *op0.MetaData
	opOut.LogP += logp
	opOut.IsComplex = op0.IsComplex || im.Sign() != 0

	return
}

// MultByConstNew returns op0 * constant on a new [Ciphertext].
func (s *Scheme) MultByConstNew(op0 *Ciphertext, constant interface{}, logp int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.MultByConst(op0, constant, logp, opOut)
}

// MultByPoly sets opOut = op0 * poly, where poly is a signed polynomial
// scaled by 2^logp, and increases the scale of the output by logp.
func (s *Scheme) MultByPoly(op0 *Ciphertext, poly ring.Poly, logp int, opOut *Ciphertext) (err error) {

	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return fmt.Errorf("cannot MultByPoly: %w", err)
	}

	if logp < 0 {
		return fmt.Errorf("cannot MultByPoly: logp=%d is negative: %w", logp, ErrPrecisionExceeded)
	}

	rQ.Mul(op0.Ax, poly, opOut.Ax)
	rQ.Mul(op0.Bx, poly, opOut.Bx)

	*opOut.MetaData = *op0.MetaData
	opOut.LogP += logp

	return
}

// MultByPolyNew returns op0 * poly on a new [Ciphertext].
func (s *Scheme) MultByPolyNew(op0 *Ciphertext, poly ring.Poly, logp int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.MultByPoly(op0, poly, logp, opOut)
}

// MultByMonomial sets opOut = op0 * X^degree.
func (s *Scheme) MultByMonomial(op0 *Ciphertext, degree int, opOut *Ciphertext) (err error) {
	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return fmt.Errorf("cannot MultByMonomial: %w", err)
	}
	rQ.MulByMonomial(op0.Ax, degree, opOut.Ax)
	rQ.MulByMonomial(op0.Bx, degree, opOut.Bx)
	*opOut.MetaData = *op0.MetaData
	return
}

// MultByMonomialNew returns op0 * X^degree on a new [Ciphertext].
func (s *Scheme) MultByMonomialNew(op0 *Ciphertext, degree int) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.MultByMonomial(op0, degree, opOut)
}

// IMult sets opOut = i * op0, computed as op0 * X^(N/2).
func (s *Scheme) IMult(op0, opOut *Ciphertext) (err error) {
	if err = s.MultByMonomial(op0, s.params.MaxSlots(), opOut); err != nil {
		return fmt.Errorf("cannot IMult: %w", err)
	}
	opOut.IsComplex = true
	return
}

// IMultNew returns i * op0 on a new [Ciphertext].
func (s *Scheme) IMultNew(op0 *Ciphertext) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.IMult(op0, opOut)
}

// IDiv sets opOut = op0 / i, computed as op0 * -X^(N/2).
func (s *Scheme) IDiv(op0, opOut *Ciphertext) (err error) {
	if err = s.MultByMonomial(op0, -s.params.MaxSlots(), opOut); err != nil {
		return fmt.Errorf("cannot IDiv: %w", err)
	}
	opOut.IsComplex = true
	return
}

// IDivNew returns op0 / i on a new [Ciphertext].
func (s *Scheme) IDivNew(op0 *Ciphertext) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.IDiv(op0, opOut)
}

// Mult sets opOut = op0 * op1, relinearized with the relinearization key.
// Both operands must share the same LogQ. The scale of the output is the sum
// of the scales of the operands.
func (s *Scheme) Mult(op0, op1, opOut *Ciphertext) (err error) {

	if op0.LogQ != op1.LogQ {
		return fmt.Errorf("cannot Mult: logq=%d != logq=%d: %w", op0.LogQ, op1.LogQ, ErrLevelMismatch)
	}

	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return fmt.Errorf("cannot Mult: %w", err)
	}

	var rlk *Key
	if rlk, err = s.keys.Get(KeyID{Purpose: Relinearization}); err != nil {
		return fmt.Errorf("cannot Mult: %w", err)
	}

	meta := MetaData{
		LogP:      op0.LogP + op1.LogP,
		LogQ:      op0.LogQ,
		Slots:     max(op0.Slots, op1.Slots),
		IsComplex: op0.IsComplex || op1.IsComplex,
	}

	axax := rQ.NewPoly()
	bxbx := rQ.NewPoly()
	axbx := rQ.NewPoly()

	rQ.Mul(op0.Ax, op1.Ax, axax)
	rQ.Mul(op0.Bx, op1.Bx, bxbx)

	// (a0 + b0) * (a1 + b1) - a0a1 - b0b1 = a0b1 + a1b0
	t0 := rQ.NewPoly()
	rQ.Add(op0.Ax, op0.Bx, t0)
	if op0 == op1 {
		rQ.Mul(t0, t0, axbx)
	} else {
		t1 := rQ.NewPoly()
		rQ.Add(op1.Ax, op1.Bx, t1)
		rQ.Mul(t0, t1, axbx)
	}
	rQ.Sub(axbx, axax, axbx)
	rQ.Sub(axbx, bxbx, axbx)

	ax, bx := s.keySwitch(axax, rlk, meta.LogQ)

	rQ.Add(ax, axbx, opOut.Ax)
	rQ.Add(bx, bxbx, opOut.Bx)

	*opOut.MetaData = meta

	return
}

// MultNew returns op0 * op1 on a new [Ciphertext].
func (s *Scheme) MultNew(op0, op1 *Ciphertext) (opOut *Ciphertext, err error) {
	opOut = s.newCiphertextLike(op0)
	return opOut, s.Mult(op0, op1, opOut)
}

// Square sets opOut = op0 * op0.
func (s *Scheme) Square(op0, opOut *Ciphertext) (err error) {
	return s.Mult(op0, op0, opOut)
}

// SquareNew returns op0 * op0 on a new [Ciphertext].
func (s *Scheme) SquareNew(op0 *Ciphertext) (opOut *Ciphertext, err error) {
	return s.MultNew(op0, op0)
}

// keySwitch returns round((d * key) / P) mod 2^logq.
func (s *Scheme) keySwitch(d ring.Poly, key *Key, logq int) (ax, bx ring.Poly) {

	logP := s.params.LogP()
	rQ := s.params.RingAtLogQ(logq)
	rQP := s.params.RingAtLogQ(logq + logP)

	ax = rQP.NewPoly()
	bx = rQP.NewPoly()

	rQP.Mul(d, key.Ax, ax)
	rQP.Mul(d, key.Bx, bx)

	rQ.DivRoundByPow2(ax, logP, ax)
	rQ.DivRoundByPow2(bx, logP, bx)

	return
}

// Normalize sets opOut to op0 with both components centered
// in [-2^(LogQ-1), 2^(LogQ-1)).
func (s *Scheme) Normalize(op0, opOut *Ciphertext) (err error) {
	var rQ *ring.Ring
	if rQ, err = s.ringAt(op0.LogQ); err != nil {
		return fmt.Errorf("cannot Normalize: %w", err)
	}
	rQ.Center(op0.Ax, opOut.Ax)
	rQ.Center(op0.Bx, opOut.Bx)
	*opOut.MetaData = *op0.MetaData
	return
}

package heaan

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils"
	"github.com/Pro7ech/heaan/utils/bignum"
)

// Encoder maps vectors of complex values to plaintexts and back through
// the canonical embedding. A vector of n slots is embedded as a
// polynomial in Y = X^(N/(2n)) and scaled by 2^logp.
// Encoder has no mutable state and is safe for concurrent use.
type Encoder struct {
	params Parameters
}

// NewEncoder creates a new [Encoder].
func NewEncoder(params Parameters) *Encoder {
	return &Encoder{params: params}
}

func (ecd *Encoder) checkSlots(slots, n int) (err error) {
	if !utils.IsPow2(slots) || slots > ecd.params.MaxSlots() {
		return fmt.Errorf("slots=%d must be a power of two in [1, %d]: %w", slots, ecd.params.MaxSlots(), ErrDomainRange)
	}
	if n > slots {
		return fmt.Errorf("len(values)=%d > slots=%d: %w", n, slots, ErrDomainRange)
	}
	return
}

func (ecd *Encoder) checkLevel(logp, logq int) (err error) {
	if logq < 1 || logq > ecd.params.LogQ() {
		return fmt.Errorf("logq=%d not in [1, %d]: %w", logq, ecd.params.LogQ(), ErrPrecisionExceeded)
	}
	if logp < 0 || logp >= logq {
		return fmt.Errorf("logp=%d not in [0, logq=%d): %w", logp, logq, ErrPrecisionExceeded)
	}
	return
}

// EncodeNew encodes up to slots complex values on a new [Plaintext]
// scaled by 2^logp modulo 2^logq. Missing values are set to zero.
func (ecd *Encoder) EncodeNew(values []complex128, slots, logp, logq int) (pt *Plaintext, err error) {

	if err = ecd.checkSlots(slots, len(values)); err != nil {
		return nil, fmt.Errorf("cannot Encode: %w", err)
	}

	if err = ecd.checkLevel(logp, logq); err != nil {
		return nil, fmt.Errorf("cannot Encode: %w", err)
	}

	buf := make([]complex128, slots)
	copy(buf, values)

	pt = NewPlaintext(ecd.params, slots, logp, logq)
	ecd.embed(buf, logp, pt.Value)
	ecd.params.RingAtLogQ(logq).Reduce(pt.Value, pt.Value)

	return
}

// EncodeRealNew encodes up to slots real values on a new [Plaintext].
// The plaintext is flagged as real: decoding drops the imaginary parts.
func (ecd *Encoder) EncodeRealNew(values []float64, slots, logp, logq int) (pt *Plaintext, err error) {

	if err = ecd.checkSlots(slots, len(values)); err != nil {
		return nil, fmt.Errorf("cannot EncodeReal: %w", err)
	}

	buf := make([]complex128, slots)
	for i := range values {
		buf[i] = complex(values[i], 0)
	}

	if pt, err = ecd.EncodeNew(buf, slots, logp, logq); err != nil {
		return nil, err
	}

	pt.IsComplex = false

	return
}

// EncodeSingleNew encodes a constant on a new single slot [Plaintext]:
// the real part on the constant coefficient and the imaginary part on X^(N/2).
func (ecd *Encoder) EncodeSingleNew(value complex128, logp, logq int) (pt *Plaintext, err error) {

	if err = ecd.checkLevel(logp, logq); err != nil {
		return nil, fmt.Errorf("cannot EncodeSingle: %w", err)
	}

	pt = NewPlaintext(ecd.params, 1, logp, logq)
	pt.Value.Coeffs[0].Set(bignum.ScaleUpFloat64(real(value), logp))
	pt.Value.Coeffs[ecd.params.MaxSlots()].Set(bignum.ScaleUpFloat64(imag(value), logp))
	ecd.params.RingAtLogQ(logq).Reduce(pt.Value, pt.Value)

	return
}

// EncodeSingleRealNew encodes a real constant on the constant coefficient of
// a new single slot [Plaintext].
func (ecd *Encoder) EncodeSingleRealNew(value float64, logp, logq int) (pt *Plaintext, err error) {
	if pt, err = ecd.EncodeSingleNew(complex(value, 0), logp, logq); err != nil {
		return nil, err
	}
	pt.IsComplex = false
	return
}

// Decode decodes pt on a new slice of pt.Slots complex values.
func (ecd *Encoder) Decode(pt *Plaintext) (values []complex128, err error) {

	if err = ecd.checkSlots(pt.Slots, 0); err != nil {
		return nil, fmt.Errorf("cannot Decode: %w", err)
	}

	if pt.LogQ < 1 || pt.LogQ > ecd.params.LogQ() {
		return nil, fmt.Errorf("cannot Decode: logq=%d not in [1, %d]: %w", pt.LogQ, ecd.params.LogQ(), ErrPrecisionExceeded)
	}

	values = make([]complex128, pt.Slots)

	rQ := ecd.params.RingAtLogQ(pt.LogQ)
	m := rQ.NewPoly()
	rQ.Center(pt.Value, m)

	Nh := ecd.params.MaxSlots()
	gap := Nh / pt.Slots

	for i := range values {
		re := bignum.ScaleDown(m.Coeffs[i*gap], pt.LogP)
		im := bignum.ScaleDown(m.Coeffs[Nh+i*gap], pt.LogP)
		values[i] = complex(re, im)
	}

	SpecialFFT(values, ecd.params.M(), ecd.params.RotGroup(), ecd.params.Roots())

	if !pt.IsComplex {
		for i := range values {
			values[i] = complex(real(values[i]), 0)
		}
	}

	return
}

// DecodeReal decodes pt on a new slice of pt.Slots real values.
func (ecd *Encoder) DecodeReal(pt *Plaintext) (values []float64, err error) {

	var v []complex128
	if v, err = ecd.Decode(pt); err != nil {
		return
	}

	values = make([]float64, len(v))
	for i := range v {
		values[i] = real(v[i])
	}

	return
}

// DecodeSingle decodes a single slot plaintext.
func (ecd *Encoder) DecodeSingle(pt *Plaintext) (value complex128, err error) {

	if pt.LogQ < 1 || pt.LogQ > ecd.params.LogQ() {
		return 0, fmt.Errorf("cannot DecodeSingle: logq=%d not in [1, %d]: %w", pt.LogQ, ecd.params.LogQ(), ErrPrecisionExceeded)
	}

	rQ := ecd.params.RingAtLogQ(pt.LogQ)
	half := new(big.Int).Rsh(rQ.Modulus(), 1)

	center := func(c *big.Int) *big.Int {
		c = new(big.Int).And(c, new(big.Int).Sub(rQ.Modulus(), big.NewInt(1)))
		if c.Cmp(half) >= 0 {
			c.Sub(c, rQ.Modulus())
		}
		return c
	}

	re := bignum.ScaleDown(center(pt.Value.Coeffs[0]), pt.LogP)

	if !pt.IsComplex {
		return complex(re, 0), nil
	}

	im := bignum.ScaleDown(center(pt.Value.Coeffs[ecd.params.MaxSlots()]), pt.LogP)

	return complex(re, im), nil
}

// embed writes on pol the signed, unreduced, encoding of values
// (of power of two length) scaled by 2^logp.
// values is used as a buffer and modified.
func (ecd *Encoder) embed(values []complex128, logp int, pol ring.Poly) {

	SpecialIFFT(values, ecd.params.M(), ecd.params.RotGroup(), ecd.params.Roots())

	Nh := ecd.params.MaxSlots()
	gap := Nh / len(values)

	pol.Zero()
	for i, c := range values {
		pol.Coeffs[i*gap].Set(bignum.ScaleUpFloat64(real(c), logp))
		pol.Coeffs[Nh+i*gap].Set(bignum.ScaleUpFloat64(imag(c), logp))
	}
}

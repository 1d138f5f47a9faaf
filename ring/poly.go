package ring

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/Pro7ech/heaan/utils/buffer"
)

// Poly is a polynomial of degree N-1 with arbitrary precision coefficients.
// Coefficients are not bound to a modulus: a [Ring] interprets them
// modulo its own 2^LogQ.
type Poly struct {
	Coeffs []*big.Int
}

// NewPoly allocates a new zero [Poly] with N coefficients.
func NewPoly(N int) (p Poly) {
	p.Coeffs = make([]*big.Int, N)
	for i := range p.Coeffs {
		p.Coeffs[i] = new(big.Int)
	}
	return
}

// N returns the number of coefficients of the receiver.
func (p Poly) N() int {
	return len(p.Coeffs)
}

// Zero sets all coefficients of the receiver to zero.
func (p Poly) Zero() {
	for i := range p.Coeffs {
		p.Coeffs[i].SetInt64(0)
	}
}

// Clone returns a deep copy of the receiver.
func (p *Poly) Clone() *Poly {
	pcpy := NewPoly(p.N())
	pcpy.Copy(p)
	return &pcpy
}

// Copy copies the coefficients of other on the receiver,
// up to the minimum size between the two.
func (p *Poly) Copy(other *Poly) {
	for i := range min(p.N(), other.N()) {
		p.Coeffs[i].Set(other.Coeffs[i])
	}
}

// Equal returns true if both polynomials have exactly the same coefficients.
func (p *Poly) Equal(other *Poly) bool {

	if p.N() != other.N() {
		return false
	}

	for i := range p.Coeffs {
		if p.Coeffs[i].Cmp(other.Coeffs[i]) != 0 {
			return false
		}
	}

	return true
}

// BinarySize returns the serialized size of the object in bytes.
// Each coefficient is written as a sign byte, a 4 bytes length and
// its big-endian absolute value.
func (p *Poly) BinarySize() (size int) {
	size = 8
	for i := range p.Coeffs {
		size += 5 + (p.Coeffs[i].BitLen()+7)>>3
	}
	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Writer. Since this requires allocations, it
// is preferable to pass a buffer.Writer directly.
func (p *Poly) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteInt(w, p.N()); err != nil {
			return n + inc, err
		}

		n += inc

		for i := range p.Coeffs {

			c := p.Coeffs[i]

			if inc, err = buffer.WriteBool(w, c.Sign() < 0); err != nil {
				return n + inc, err
			}

			n += inc

			b := c.Bytes()

			if inc, err = buffer.WriteUint32(w, uint32(len(b))); err != nil {
				return n + inc, err
			}

			n += inc

			if inc, err = buffer.Write(w, b); err != nil {
				return n + inc, err
			}

			n += inc
		}

		return n, w.Flush()

	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// Unless r implements the buffer.Reader interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Reader.
func (p *Poly) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		var N int
		if inc, err = buffer.ReadInt(r, &N); err != nil {
			return n + inc, err
		}

		n += inc

		if N < 0 || N > 1<<24 {
			return n, fmt.Errorf("invalid polynomial size: %d", N)
		}

		if p.N() != N {
			*p = NewPoly(N)
		}

		var neg bool
		var size uint32

		for i := range p.Coeffs {

			if inc, err = buffer.ReadBool(r, &neg); err != nil {
				return n + inc, err
			}

			n += inc

			if inc, err = buffer.ReadUint32(r, &size); err != nil {
				return n + inc, err
			}

			n += inc

			b := make([]byte, size)

			if inc, err = buffer.Read(r, b); err != nil {
				return n + inc, err
			}

			n += inc

			p.Coeffs[i].SetBytes(b)

			if neg {
				p.Coeffs[i].Neg(p.Coeffs[i])
			}
		}

		return

	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (p *Poly) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err = p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (p *Poly) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}

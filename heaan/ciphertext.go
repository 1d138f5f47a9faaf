package heaan

import (
	"bufio"
	"io"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils/buffer"
)

// Ciphertext is an encryption (Ax, Bx) of a message m such that
// Ax * s + Bx = m + e mod 2^LogQ.
//
// Coefficients are kept in [0, 2^LogQ) by all operations, except
// after [Scheme.Normalize], which centers them.
type Ciphertext struct {
	*MetaData
	Ax ring.Poly
	Bx ring.Poly
}

// NewCiphertext allocates a new zero [Ciphertext].
func NewCiphertext(params Parameters, slots, logp, logq int) *Ciphertext {
	return &Ciphertext{
		MetaData: &MetaData{LogP: logp, LogQ: logq, Slots: slots, IsComplex: true},
		Ax:       ring.NewPoly(params.N()),
		Bx:       ring.NewPoly(params.N()),
	}
}

// Clone returns a deep copy of the receiver.
func (ct *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{
		MetaData: ct.MetaData.Clone(),
		Ax:       *ct.Ax.Clone(),
		Bx:       *ct.Bx.Clone(),
	}
}

// Copy copies other on the receiver.
func (ct *Ciphertext) Copy(other *Ciphertext) {
	if ct != other {
		*ct.MetaData = *other.MetaData
		ct.Ax.Copy(&other.Ax)
		ct.Bx.Copy(&other.Bx)
	}
}

// Equal returns true if the receiver and other are equal.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	return ct.MetaData.Equal(other.MetaData) && ct.Ax.Equal(&other.Ax) && ct.Bx.Equal(&other.Bx)
}

// BinarySize returns the serialized size of the object in bytes.
func (ct *Ciphertext) BinarySize() int {
	return ct.MetaData.BinarySize() + ct.Ax.BinarySize() + ct.Bx.BinarySize()
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (ct *Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = ct.MetaData.WriteTo(w); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = ct.Ax.WriteTo(w); err != nil {
			return n + inc, err
		}

		n += inc

		inc, err = ct.Bx.WriteTo(w)

		return n + inc, err

	default:
		return ct.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if ct.MetaData == nil {
			ct.MetaData = &MetaData{}
		}

		var inc int64

		if inc, err = ct.MetaData.ReadFrom(r); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = ct.Ax.ReadFrom(r); err != nil {
			return n + inc, err
		}

		n += inc

		inc, err = ct.Bx.ReadFrom(r)

		return n + inc, err

	default:
		return ct.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (ct *Ciphertext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(ct.BinarySize())
	_, err = ct.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (ct *Ciphertext) UnmarshalBinary(data []byte) (err error) {
	_, err = ct.ReadFrom(buffer.NewBuffer(data))
	return
}

package heaan

import (
	"bufio"
	"io"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils/buffer"
)

// Plaintext is an encoded message: a polynomial modulo 2^LogQ
// scaled by 2^LogP.
type Plaintext struct {
	*MetaData
	Value ring.Poly
}

// NewPlaintext allocates a new zero [Plaintext].
func NewPlaintext(params Parameters, slots, logp, logq int) *Plaintext {
	return &Plaintext{
		MetaData: &MetaData{LogP: logp, LogQ: logq, Slots: slots, IsComplex: true},
		Value:    ring.NewPoly(params.N()),
	}
}

// Clone returns a deep copy of the receiver.
func (pt *Plaintext) Clone() *Plaintext {
	return &Plaintext{
		MetaData: pt.MetaData.Clone(),
		Value:    *pt.Value.Clone(),
	}
}

// Equal returns true if the receiver and other are equal.
func (pt *Plaintext) Equal(other *Plaintext) bool {
	return pt.MetaData.Equal(other.MetaData) && pt.Value.Equal(&other.Value)
}

// BinarySize returns the serialized size of the object in bytes.
func (pt *Plaintext) BinarySize() int {
	return pt.MetaData.BinarySize() + pt.Value.BinarySize()
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (pt *Plaintext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = pt.MetaData.WriteTo(w); err != nil {
			return n + inc, err
		}

		n += inc

		inc, err = pt.Value.WriteTo(w)

		return n + inc, err

	default:
		return pt.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (pt *Plaintext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if pt.MetaData == nil {
			pt.MetaData = &MetaData{}
		}

		var inc int64

		if inc, err = pt.MetaData.ReadFrom(r); err != nil {
			return n + inc, err
		}

		n += inc

		inc, err = pt.Value.ReadFrom(r)

		return n + inc, err

	default:
		return pt.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pt *Plaintext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(pt.BinarySize())
	_, err = pt.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pt *Plaintext) UnmarshalBinary(data []byte) (err error) {
	_, err = pt.ReadFrom(buffer.NewBuffer(data))
	return
}

package heaan

import (
	"bufio"
	"fmt"
	"io"
	"math/bits"

	"github.com/Pro7ech/heaan/utils/buffer"
)

// MetaData is a struct storing the encoding state of a [Plaintext] or
// a [Ciphertext].
type MetaData struct {
	// LogP is the log2 of the scaling factor of the encoded message.
	LogP int
	// LogQ is the log2 of the current modulus.
	LogQ int
	// Slots is the number of encoded slots, a power of two.
	Slots int
	// IsComplex is false if the encoded message is known to be real.
	IsComplex bool
}

// LogSlots returns log2(Slots).
func (m MetaData) LogSlots() int {
	return bits.Len64(uint64(m.Slots)) - 1
}

// Clone returns a copy of the receiver.
func (m *MetaData) Clone() *MetaData {
	mcpy := *m
	return &mcpy
}

// Equal returns true if the receiver and other are equal.
func (m *MetaData) Equal(other *MetaData) bool {
	return *m == *other
}

// BinarySize returns the serialized size of the object in bytes.
func (m *MetaData) BinarySize() int {
	return 25
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Writer. Since this requires allocations, it
// is preferable to pass a buffer.Writer directly.
func (m *MetaData) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		for _, v := range []int{m.LogP, m.LogQ, m.Slots} {
			if inc, err = buffer.WriteInt(w, v); err != nil {
				return n + inc, err
			}
			n += inc
		}

		if inc, err = buffer.WriteBool(w, m.IsComplex); err != nil {
			return n + inc, err
		}

		return n + inc, w.Flush()

	default:
		return m.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// Unless r implements the buffer.Reader interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Reader.
func (m *MetaData) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		for _, v := range []*int{&m.LogP, &m.LogQ, &m.Slots} {
			if inc, err = buffer.ReadInt(r, v); err != nil {
				return n + inc, err
			}
			n += inc
		}

		if inc, err = buffer.ReadBool(r, &m.IsComplex); err != nil {
			return n + inc, err
		}

		n += inc

		if m.Slots < 1 || m.Slots&(m.Slots-1) != 0 {
			return n, fmt.Errorf("invalid metadata: slots must be a power of two but is %d", m.Slots)
		}

		return

	default:
		return m.ReadFrom(bufio.NewReader(r))
	}
}

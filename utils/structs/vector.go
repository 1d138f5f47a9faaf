package structs

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Pro7ech/heaan/utils/buffer"
)

// Vector is a struct wrapping a slice of components of type T.
// Depending on the method called, *T must implement [Cloner],
// [Equatable], [BinarySizer], io.WriterTo or io.ReaderFrom.
type Vector[T any] []T

// Size returns the size of the receiver.
func (v Vector[T]) Size() int {
	return len(v)
}

// Clone returns a deep copy of the object.
func (v Vector[T]) Clone() (vcpy Vector[T]) {

	var t T
	if _, isClonable := any(&t).(Cloner[T]); !isClonable {
		panic(fmt.Errorf("component of type %T does not comply to %T", t, new(Cloner[T])))
	}

	vcpy = Vector[T](make([]T, len(v)))
	for i := range v {
		vcpy[i] = *any(&v[i]).(Cloner[T]).Clone()
	}

	return
}

// BinarySize returns the serialized size of the object in bytes.
func (v Vector[T]) BinarySize() (size int) {

	var t T
	if _, isSizable := any(&t).(BinarySizer); !isSizable {
		panic(fmt.Errorf("vector component of type %T does not comply to %T", t, new(BinarySizer)))
	}

	size += 8
	for i := range v {
		size += any(&v[i]).(BinarySizer).BinarySize()
	}

	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Writer.
func (v Vector[T]) WriteTo(w io.Writer) (n int64, err error) {

	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = buffer.WriteInt(w, len(v)); err != nil {
			return inc, fmt.Errorf("buffer.WriteInt: %w", err)
		}

		n += inc

		var t T
		if _, isWritable := any(&t).(io.WriterTo); !isWritable {
			return n, fmt.Errorf("vector component of type %T does not comply to %T", t, new(io.WriterTo))
		}

		for i := range v {
			if inc, err = any(&v[i]).(io.WriterTo).WriteTo(w); err != nil {
				return n + inc, fmt.Errorf("%T.WriteTo: %w", t, err)
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return v.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// Unless r implements the buffer.Reader interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Reader.
func (v *Vector[T]) ReadFrom(r io.Reader) (n int64, err error) {

	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		var size int

		if inc, err = buffer.ReadInt(r, &size); err != nil {
			return inc, fmt.Errorf("buffer.ReadInt: %w", err)
		}

		n += inc

		if cap(*v) < size {
			*v = make([]T, size)
		}

		*v = (*v)[:size]

		var t T
		if _, isReadable := any(&t).(io.ReaderFrom); !isReadable {
			return n, fmt.Errorf("vector component of type %T does not comply to %T", t, new(io.ReaderFrom))
		}

		for i := range *v {
			if inc, err = any(&(*v)[i]).(io.ReaderFrom).ReadFrom(r); err != nil {
				return n + inc, fmt.Errorf("%T.ReadFrom: %w", t, err)
			}
			n += inc
		}

		return n, nil

	default:
		return v.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (v Vector[T]) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(v.BinarySize())
	_, err = v.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (v *Vector[T]) UnmarshalBinary(p []byte) (err error) {
	_, err = v.ReadFrom(buffer.NewBuffer(p))
	return
}

// Equal performs a deep equal.
func (v Vector[T]) Equal(other Vector[T]) (isEqual bool) {

	if len(v) != len(other) {
		return false
	}

	var t T
	if _, isEquatable := any(&t).(Equatable[T]); !isEquatable {
		panic(fmt.Errorf("vector component of type %T does not comply to %T", t, new(Equatable[T])))
	}

	for i := range v {
		if !any(&v[i]).(Equatable[T]).Equal(&other[i]) {
			return false
		}
	}

	return true
}

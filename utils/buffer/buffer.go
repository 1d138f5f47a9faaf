// Package buffer implements the buffered reading and writing of fixed-size
// values used by every serializer of the module.
package buffer

import (
	"fmt"
	"io"
)

// Writer is a buffered writer exposing its free space, such as
// [bufio.Writer] or [Buffer]. Serializers write directly into
// AvailableBuffer and call Flush once done.
type Writer interface {
	io.Writer
	Flush() (err error)
	AvailableBuffer() []byte
	Available() int
}

// Reader is a buffered reader, such as [bufio.Reader] or [Buffer].
// Serializers wrap any other [io.Reader] in a [bufio.Reader].
type Reader interface {
	io.Reader
	Size() int
}

// Buffer is a fixed capacity []byte implementing [Writer] and [Reader].
// Writing past its capacity returns an error.
type Buffer struct {
	buf  []byte
	w, r int
}

// NewBuffer returns a [Buffer] backed by data, with both offsets at zero.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// NewBufferSize returns an empty [Buffer] of the given capacity.
func NewBufferSize(size int) *Buffer {
	return NewBuffer(make([]byte, size))
}

// Bytes returns the backing slice.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Write copies p at the write offset.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if len(p) > b.Available() {
		return 0, fmt.Errorf("cannot Write: len(p)=%d > available=%d", len(p), b.Available())
	}
	n = copy(b.buf[b.w:], p)
	b.w += n
	return
}

// Flush is a no-op.
func (b *Buffer) Flush() (err error) {
	return
}

// AvailableBuffer returns a zero length slice of capacity b.Available()
// starting at the write offset.
func (b *Buffer) AvailableBuffer() []byte {
	return b.buf[b.w:b.w]
}

// Available returns the number of bytes that can still be written.
func (b *Buffer) Available() int {
	return len(b.buf) - b.w
}

// Read copies into p from the read offset, returning [io.EOF] when fewer
// than len(p) bytes remain.
func (b *Buffer) Read(p []byte) (n int, err error) {
	n = copy(p, b.buf[b.r:])
	b.r += n
	if n < len(p) {
		err = io.EOF
	}
	return
}

// Size returns the number of bytes that remain to be read.
func (b *Buffer) Size() int {
	return len(b.buf) - b.r
}

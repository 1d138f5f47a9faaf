package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Read reads len(c) bytes from r into c.
func Read(r Reader, c []byte) (n int64, err error) {
	nint, err := io.ReadFull(r, c)
	return int64(nint), err
}

// ReadUint8 reads a byte from r and stores the result into c.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}

	var bb = [1]byte{}

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = bb[0]

	return int64(nint), nil
}

// ReadBool reads a single byte from r and stores c = (byte != 0).
func ReadBool(r Reader, c *bool) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadBool: c is nil")
	}

	var b uint8
	if n, err = ReadUint8(r, &b); err != nil {
		return
	}

	*c = b != 0

	return
}

// ReadUint32 reads a uint32 from r and stores the result into c.
func ReadUint32(r Reader, c *uint32) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint32: c is nil")
	}

	var bb = [4]byte{}

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint32(bb[:])

	return int64(nint), nil
}

// ReadUint64 reads a uint64 from r and stores the result into c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb = [8]byte{}

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint64(bb[:])

	return int64(nint), nil
}

// ReadInt reads a uint64 from r and stores it into c as an int.
func ReadInt(r Reader, c *int) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadInt: c is nil")
	}

	var u uint64
	if n, err = ReadUint64(r, &u); err != nil {
		return
	}

	*c = int(u)

	return
}

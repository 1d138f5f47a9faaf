package buffer

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {

	t.Run("WriteRead", func(t *testing.T) {
		buf := NewBufferSize(1 + 1 + 4 + 8 + 8)

		_, err := WriteUint8(buf, 7)
		require.NoError(t, err)
		_, err = WriteBool(buf, true)
		require.NoError(t, err)
		_, err = WriteUint32(buf, 0xdeadbeef)
		require.NoError(t, err)
		_, err = WriteUint64(buf, 1<<60+3)
		require.NoError(t, err)
		_, err = WriteInt(buf, -5)
		require.NoError(t, err)
		require.Zero(t, buf.Available())

		r := NewBuffer(buf.Bytes())
		require.Equal(t, len(buf.Bytes()), r.Size())

		var u8 uint8
		var b bool
		var u32 uint32
		var u64 uint64
		var i int

		_, err = ReadUint8(r, &u8)
		require.NoError(t, err)
		_, err = ReadBool(r, &b)
		require.NoError(t, err)
		_, err = ReadUint32(r, &u32)
		require.NoError(t, err)
		_, err = ReadUint64(r, &u64)
		require.NoError(t, err)
		_, err = ReadInt(r, &i)
		require.NoError(t, err)

		require.Equal(t, uint8(7), u8)
		require.True(t, b)
		require.Equal(t, uint32(0xdeadbeef), u32)
		require.Equal(t, uint64(1<<60+3), u64)
		require.Equal(t, -5, i)
		require.Zero(t, r.Size())
	})

	t.Run("Overflow", func(t *testing.T) {
		buf := NewBufferSize(4)
		_, err := buf.Write([]byte{1, 2, 3, 4, 5})
		require.Error(t, err)
		_, err = WriteUint64(buf, 1)
		require.Error(t, err)
	})

	t.Run("EOF", func(t *testing.T) {
		var u64 uint64
		_, err := ReadUint64(NewBuffer([]byte{1, 2, 3}), &u64)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("Bufio", func(t *testing.T) {
		var out bytes.Buffer
		w := bufio.NewWriter(&out)
		_, err := WriteUint32(w, 42)
		require.NoError(t, err)
		require.NoError(t, w.Flush())

		var u32 uint32
		_, err = ReadUint32(bufio.NewReader(&out), &u32)
		require.NoError(t, err)
		require.Equal(t, uint32(42), u32)
	})
}

package buffer

import (
	"encoding"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type binarySerializer interface {
	BinarySize() int
	io.WriterTo
	io.ReaderFrom
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// RequireSerializerCorrect checks that:
//   - input.WriteTo writes exactly input.BinarySize() bytes
//   - MarshalBinary and WriteTo produce the same bytes
//   - ReadFrom and UnmarshalBinary both recover an object that
//     serializes back to the same bytes.
func RequireSerializerCorrect[T binarySerializer](t *testing.T, input T, output T) {

	data, err := input.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, input.BinarySize(), len(data))

	buf := NewBufferSize(input.BinarySize())
	n, err := input.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)
	require.Equal(t, data, buf.Bytes())

	n, err = output.ReadFrom(NewBuffer(data))
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)

	again, err := output.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, data, again)

	require.NoError(t, output.UnmarshalBinary(data))
	again, err = output.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, data, again)
}

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Pro7ech/heaan/heaan"
	"github.com/Pro7ech/heaan/utils/sampling"
	"github.com/stretchr/testify/require"
)

func newTestScheme(t *testing.T, logQ int) (params heaan.Parameters, sk *heaan.SecretKey, scheme *heaan.Scheme) {
	var err error
	params, err = heaan.NewParametersFromLiteral(heaan.ParametersLiteral{LogN: 4, LogQ: logQ})
	require.NoError(t, err)
	source := sampling.NewSource([32]byte{'s', 't', 'o', 'r', 'e'})
	sk = heaan.NewKeyGenerator(params, source.NewSource()).GenSecretKeyNew()
	scheme = heaan.NewScheme(params, sk, source.NewSource())
	return
}

func TestFileStore(t *testing.T) {

	params, sk, scheme := newTestScheme(t, 120)

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "store"), params)
	require.NoError(t, err)

	values := []complex128{1.5 + 0.5i, -2, 0.25i, 1}
	ct, err := scheme.Encrypt(values, 4, 30, params.LogQ())
	require.NoError(t, err)

	t.Run("Ciphertext", func(t *testing.T) {
		require.NoError(t, fs.Write(ct, "ct0"))
		have, err := fs.Read("ct0")
		require.NoError(t, err)
		require.True(t, ct.Equal(have))

		dec, err := scheme.Decrypt(sk, have)
		require.NoError(t, err)
		heaan.VerifyTestVectors(t, values, dec, 20, false)
	})

	t.Run("Overwrite", func(t *testing.T) {
		other, err := scheme.EncryptZeros(4, 30, params.LogQ())
		require.NoError(t, err)
		require.NoError(t, fs.Write(other, "ct0"))
		have, err := fs.Read("ct0")
		require.NoError(t, err)
		require.True(t, other.Equal(have))
	})

	t.Run("Key", func(t *testing.T) {
		key, err := scheme.Keys().Get(heaan.KeyID{Purpose: heaan.Relinearization})
		require.NoError(t, err)
		require.NoError(t, fs.WriteKey(key, "rlk"))
		have, err := fs.ReadKey("rlk")
		require.NoError(t, err)
		require.True(t, key.Equal(have))
	})

	t.Run("BootContext", func(t *testing.T) {
		bc, err := heaan.NewBootContext(params, 2, 30)
		require.NoError(t, err)
		require.NoError(t, fs.WriteBootContext(bc, "boot2"))
		have, err := fs.ReadBootContext("boot2")
		require.NoError(t, err)
		require.True(t, bc.Equal(have))
	})

	t.Run("List/Delete", func(t *testing.T) {
		ids, err := fs.List()
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"ct0", "rlk", "boot2"}, ids)

		require.NoError(t, fs.Delete("rlk"))
		_, err = fs.ReadKey("rlk")
		require.ErrorIs(t, err, os.ErrNotExist)
		require.Error(t, fs.Delete("rlk"))
	})

	t.Run("Tampered", func(t *testing.T) {
		require.NoError(t, fs.Write(ct, "tampered"))
		path := filepath.Join(fs.Dir(), "tampered"+extension)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		data[len(data)-1] ^= 1
		require.NoError(t, os.WriteFile(path, data, 0o600))
		_, err = fs.Read("tampered")
		require.ErrorIs(t, err, ErrIntegrity)

		require.NoError(t, os.WriteFile(path, data[:headerSize-1], 0o600))
		_, err = fs.Read("tampered")
		require.ErrorIs(t, err, ErrIntegrity)
	})

	t.Run("ParametersMismatch", func(t *testing.T) {
		paramsOther, _, _ := newTestScheme(t, 100)
		fsOther, err := NewFileStore(fs.Dir(), paramsOther)
		require.NoError(t, err)
		_, err = fsOther.Read("ct0")
		require.ErrorIs(t, err, ErrParametersMismatch)
	})

	t.Run("InvalidID", func(t *testing.T) {
		for _, id := range []string{"", ".", "..", "a/b", `a\b`} {
			require.ErrorIs(t, fs.Write(ct, id), ErrInvalidID)
			_, err := fs.Read(id)
			require.ErrorIs(t, err, ErrInvalidID)
		}
	})
}

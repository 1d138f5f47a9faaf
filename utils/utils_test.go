package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUtils(t *testing.T) {

	t.Run("IsPow2", func(t *testing.T) {
		require.True(t, IsPow2(1))
		require.True(t, IsPow2(uint64(1<<40)))
		require.False(t, IsPow2(0))
		require.False(t, IsPow2(-4))
		require.False(t, IsPow2(12))
	})

	t.Run("Log2", func(t *testing.T) {
		require.Equal(t, 0, Log2(1))
		require.Equal(t, 5, Log2(32))
		require.Equal(t, 5, Log2(63))
	})

	t.Run("RotateSlice", func(t *testing.T) {
		s := []int{0, 1, 2, 3, 4}
		require.Equal(t, []int{2, 3, 4, 0, 1}, RotateSlice(s, 2))
		require.Equal(t, []int{4, 0, 1, 2, 3}, RotateSlice(s, -1))
		require.Equal(t, s, RotateSlice(s, 5))
	})

	t.Run("GetSortedKeys", func(t *testing.T) {
		require.Equal(t, []int{-1, 3, 7}, GetSortedKeys(map[int]bool{7: true, -1: false, 3: true}))
	})

	t.Run("ModInt", func(t *testing.T) {
		require.Equal(t, 3, ModInt(-5, 8))
		require.Equal(t, 0, ModInt(16, 8))
	})
}

package concurrency

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcurrency(t *testing.T) {

	t.Run("NoError", func(t *testing.T) {

		acc := make([]int, 8)

		rm := NewResourceManager(make([]bool, 4))

		for i := range acc {
			rm.Run(func(r bool) (err error) {
				acc[i]++
				return
			})
		}

		require.NoError(t, rm.Wait())

		for i := range acc {
			require.Equal(t, acc[i], 1)
		}
	})

	t.Run("WithError", func(t *testing.T) {

		rm := NewResourceManager(make([]bool, 4))

		for i := 0; i < 8; i++ {
			rm.Run(func(r bool) (err error) {
				if i == 2 {
					return fmt.Errorf("something bad happened")
				}
				return
			})
		}

		require.Error(t, rm.Wait())
	})

	t.Run("Resources", func(t *testing.T) {

		buffers := [][]int{make([]int, 4), make([]int, 4)}

		rm := NewResourceManager(buffers)

		out := make([]int, 16)

		for i := range out {
			rm.Run(func(buf []int) (err error) {
				for j := range buf {
					buf[j] = i
				}
				out[i] = buf[0] + buf[3]
				return
			})
		}

		require.NoError(t, rm.Wait())

		for i := range out {
			require.Equal(t, 2*i, out[i])
		}
	})
}

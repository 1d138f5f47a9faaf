package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBignum(t *testing.T) {

	prec := uint(256)

	t.Run("Pi", func(t *testing.T) {
		pi, _ := Pi(prec).Float64()
		require.Equal(t, math.Pi, pi)
	})

	t.Run("Cos/Sin", func(t *testing.T) {
		for _, x := range []float64{-2.5, -0.3, 0, 0.7, 3} {
			cos, _ := Cos(NewFloat(x, prec)).Float64()
			sin, _ := Sin(NewFloat(x, prec)).Float64()
			require.InDelta(t, math.Cos(x), cos, 1e-14)
			require.InDelta(t, math.Sin(x), sin, 1e-14)
		}
	})

	t.Run("Exp/Log/Pow", func(t *testing.T) {
		exp, _ := Exp(NewFloat(1.5, prec)).Float64()
		require.InDelta(t, math.Exp(1.5), exp, 1e-12)
		log, _ := Log(NewFloat(3.0, prec)).Float64()
		require.InDelta(t, math.Log(3.0), log, 1e-12)
		pow, _ := Pow(NewFloat(2*math.Pi, prec), NewFloat(5, prec)).Float64()
		require.InDelta(t, math.Pow(2*math.Pi, 5), pow, 1e-8)
	})

	t.Run("Factorial", func(t *testing.T) {
		f, _ := Factorial(7, prec).Float64()
		require.Equal(t, 5040.0, f)
	})

	t.Run("Round", func(t *testing.T) {
		r, _ := Round(NewFloat(2.5, prec)).Float64()
		require.Equal(t, 3.0, r)
		r, _ = Round(NewFloat(-2.5, prec)).Float64()
		require.Equal(t, -3.0, r)
	})

	t.Run("DivRound", func(t *testing.T) {
		i := new(big.Int)
		DivRound(big.NewInt(7), big.NewInt(2), i)
		require.Equal(t, int64(4), i.Int64())
		DivRound(big.NewInt(-7), big.NewInt(2), i)
		require.Equal(t, int64(-4), i.Int64())
		DivRound(big.NewInt(5), big.NewInt(3), i)
		require.Equal(t, int64(2), i.Int64())
	})

	t.Run("ScaleUp/ScaleDown", func(t *testing.T) {
		x := ScaleUpFloat64(-1.25, 40)
		require.Equal(t, new(big.Int).Lsh(big.NewInt(-5), 38).String(), x.String())
		require.Equal(t, -1.25, ScaleDown(x, 40))
	})

	t.Run("Complex", func(t *testing.T) {
		a := ToComplex(1+2i, prec)
		b := ToComplex(3-1i, prec)
		require.Equal(t, (1+2i)*(3-1i), new(Complex).Mul(a, b).Complex128())
		require.Equal(t, 4+1i, new(Complex).Add(a, b).Complex128())
		require.Equal(t, -2+3i, new(Complex).Sub(a, b).Complex128())
		require.True(t, ToComplex(2.0, prec).IsReal())
	})
}

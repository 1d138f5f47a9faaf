package heaan_test

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/Pro7ech/heaan/heaan"
	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils"
	"github.com/Pro7ech/heaan/utils/buffer"
	"github.com/Pro7ech/heaan/utils/sampling"
	"github.com/stretchr/testify/require"
)

// decodeDiagonals decodes the diagonals of a transform and undoes
// the giant step pre-rotation.
func decodeDiagonals(t *testing.T, params heaan.Parameters, bc *heaan.BootContext, pvec []ring.Poly) (diags [][]complex128) {

	l := bc.Slots()
	lk := bc.BabyStep()
	logq := bc.LogP + 30

	ecd := heaan.NewEncoder(params)

	diags = make([][]complex128, l)
	for j := range l {
		pt := heaan.NewPlaintext(params, l, bc.LogP, logq)
		params.RingAtLogQ(logq).Reduce(pvec[j], pt.Value)
		values, err := ecd.Decode(pt)
		require.NoError(t, err)
		diags[j] = utils.RotateSlice(values, lk*(j/lk))
	}

	return
}

// applyDiagonals returns sum_j diags[j] * rot_j(values).
func applyDiagonals(diags [][]complex128, values []complex128) (res []complex128) {
	res = make([]complex128, len(values))
	for j := range diags {
		rot := utils.RotateSlice(values, j)
		for s := range res {
			res[s] += diags[j][s] * rot[s]
		}
	}
	return
}

func zeta(num, den int) complex128 {
	return cmplx.Exp(complex(0, 2*math.Pi*float64(utils.ModInt(num, den))/float64(den)))
}

func TestBootContext(t *testing.T) {

	params, err := heaan.NewParametersFromLiteral(heaan.ParametersLiteral{LogN: 5, LogQ: 100, H: 16})
	require.NoError(t, err)

	source := sampling.NewSource([32]byte{'b', 'o', 'o', 't'})

	logp := 40

	t.Run("Errors", func(t *testing.T) {
		_, err := heaan.NewBootContext(params, params.LogMaxSlots()+1, logp)
		require.ErrorIs(t, err, heaan.ErrDomainRange)
		_, err = heaan.NewBootContext(params, -1, logp)
		require.ErrorIs(t, err, heaan.ErrDomainRange)
		_, err = heaan.NewBootContext(params, 1, 0)
		require.Error(t, err)
	})

	for logl := 0; logl <= params.LogMaxSlots(); logl++ {

		bc, err := heaan.NewBootContext(params, logl, logp)
		require.NoError(t, err)

		l := bc.Slots()
		lk := bc.BabyStep()

		t.Run(fmt.Sprintf("Deterministic/l=%d", l), func(t *testing.T) {
			other, err := heaan.NewBootContext(params, logl, logp)
			require.NoError(t, err)
			require.True(t, bc.Equal(other))
			require.Equal(t, l, len(bc.PVec))
			require.Equal(t, l, len(bc.PVecInv))
			require.Equal(t, l, lk*bc.GiantStep())
		})

		t.Run(fmt.Sprintf("Diagonals/l=%d", l), func(t *testing.T) {

			diags := decodeDiagonals(t, params, bc, bc.PVec)
			diagsInv := decodeDiagonals(t, params, bc, bc.PVecInv)

			for j := range l {
				for s := range l {
					c := (s + j) % l
					pow5 := powMod(5, c, 4*l)
					require.InDelta(t, 0, cmplx.Abs(diags[j][s]-zeta(-pow5*s, 4*l)), 1e-9)
					pow5 = powMod(5, s, 4*l)
					require.InDelta(t, 0, cmplx.Abs(diagsInv[j][s]-zeta(pow5*c, 4*l)), 1e-9)
				}
			}
		})

		t.Run(fmt.Sprintf("Transforms/l=%d", l), func(t *testing.T) {

			diags := decodeDiagonals(t, params, bc, bc.PVec)
			diagsInv := decodeDiagonals(t, params, bc, bc.PVecInv)

			coeffs := make([]complex128, l)
			for i := range coeffs {
				coeffs[i] = complex(source.Float64(-1, 1), 0)
			}

			// slots-to-coefficients evaluates the coefficients
			slots := applyDiagonals(diagsInv, coeffs)
			want := make([]complex128, l)
			copy(want, coeffs)
			heaan.SpecialFFT(want, params.M(), params.RotGroup(), params.Roots())
			for i := range want {
				require.InDelta(t, 0, cmplx.Abs(want[i]-slots[i]), 1e-9)
			}

			// coefficients-to-slots recovers l times the real coefficients
			back := applyDiagonals(diags, slots)
			for i := range back {
				require.InDelta(t, float64(l)*real(coeffs[i]), real(back[i]), 1e-8)
			}
		})

		t.Run(fmt.Sprintf("Rotations/l=%d", l), func(t *testing.T) {
			rots := bc.Rotations(params)
			for j := 1; j < lk; j++ {
				require.Contains(t, rots, j)
			}
			for i := 1; i < bc.GiantStep(); i++ {
				require.Contains(t, rots, i*lk)
			}
			for k := l; k < params.MaxSlots(); k <<= 1 {
				require.Contains(t, rots, k)
			}
		})

		t.Run(fmt.Sprintf("Serialization/l=%d", l), func(t *testing.T) {
			buffer.RequireSerializerCorrect(t, bc, &heaan.BootContext{})
		})
	}
}

// powMod returns base^e mod m.
func powMod(base, e, m int) int {
	r := 1
	for range e {
		r = (r * base) % m
	}
	return r
}

package heaan_test

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/Pro7ech/heaan/heaan"
	"github.com/Pro7ech/heaan/utils/sampling"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
)

func TestSpecialFFT(t *testing.T) {

	params, err := heaan.NewParametersFromLiteral(heaan.ParametersLiteral{LogN: 6, LogQ: 64})
	require.NoError(t, err)

	source := sampling.NewSource([32]byte{'f', 'f', 't'})

	M := params.M()
	rotGroup := params.RotGroup()
	roots := params.Roots()

	for logn := 1; logn <= params.LogMaxSlots(); logn++ {

		n := 1 << logn

		coeffs := make([]complex128, n)
		for i := range coeffs {
			coeffs[i] = source.Complex128(-1-1i, 1+1i)
		}

		// sum_c z_c zeta_4n^(5^s c) = DFT(z_c zeta_4n^c)[(5^s - 1)/4]
		t.Run(fmt.Sprintf("DFT/n=%d", n), func(t *testing.T) {

			twisted := make([]complex128, n)
			for c := range coeffs {
				twisted[c] = coeffs[c] * cmplx.Exp(complex(0, 2*math.Pi*float64(c)/float64(4*n)))
			}

			want := fourier.NewCmplxFFT(n).Sequence(nil, twisted)

			have := make([]complex128, n)
			copy(have, coeffs)
			heaan.SpecialFFT(have, M, rotGroup, roots)

			pow5 := 1
			for s := range n {
				require.InDelta(t, 0, cmplx.Abs(want[(pow5-1)/4]-have[s]), 1e-12)
				pow5 = (pow5 * 5) % (4 * n)
			}
		})

		t.Run(fmt.Sprintf("RoundTrip/n=%d", n), func(t *testing.T) {
			values := make([]complex128, n)
			copy(values, coeffs)
			heaan.SpecialIFFT(values, M, rotGroup, roots)
			heaan.SpecialFFT(values, M, rotGroup, roots)
			for i := range values {
				require.InDelta(t, 0, cmplx.Abs(values[i]-coeffs[i]), 1e-12)
			}
		})
	}
}

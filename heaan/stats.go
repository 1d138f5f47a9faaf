package heaan

import (
	"fmt"
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

// PrecisionStats is a struct storing statistic about the precision of
// decrypted values compared to reference values, in log2.
type PrecisionStats struct {
	MaxPrec Stats
	MinPrec Stats
	AvgPrec Stats
	MedPrec Stats
	StdPrec Stats

	MaxErr Stats
	MinErr Stats
	AvgErr Stats
	MedErr Stats
	StdErr Stats
}

// Stats is a struct storing the real, imaginary and L2 norm (modulus)
// about the precision of a complex value.
type Stats struct {
	Real, Imag, L2 float64
}

func (prec PrecisionStats) String() string {
	return fmt.Sprintf(`
┌─────────┬───────┬───────┬───────┐
│    Log2 │ REAL  │ IMAG  │ L2    │
├─────────┼───────┼───────┼───────┤
│MIN Prec │ %5.2f │ %5.2f │ %5.2f │
│MAX Prec │ %5.2f │ %5.2f │ %5.2f │
│AVG Prec │ %5.2f │ %5.2f │ %5.2f │
│MED Prec │ %5.2f │ %5.2f │ %5.2f │
│STD Prec │ %5.2f │ %5.2f │ %5.2f │
├─────────┼───────┼───────┼───────┤
│MIN Err  │ %5.2f │ %5.2f │ %5.2f │
│MAX Err  │ %5.2f │ %5.2f │ %5.2f │
│AVG Err  │ %5.2f │ %5.2f │ %5.2f │
│MED Err  │ %5.2f │ %5.2f │ %5.2f │
│STD Err  │ %5.2f │ %5.2f │ %5.2f │
└─────────┴───────┴───────┴───────┘
`,
		prec.MinPrec.Real, prec.MinPrec.Imag, prec.MinPrec.L2,
		prec.MaxPrec.Real, prec.MaxPrec.Imag, prec.MaxPrec.L2,
		prec.AvgPrec.Real, prec.AvgPrec.Imag, prec.AvgPrec.L2,
		prec.MedPrec.Real, prec.MedPrec.Imag, prec.MedPrec.L2,
		prec.StdPrec.Real, prec.StdPrec.Imag, prec.StdPrec.L2,
		prec.MinErr.Real, prec.MinErr.Imag, prec.MinErr.L2,
		prec.MaxErr.Real, prec.MaxErr.Imag, prec.MaxErr.L2,
		prec.AvgErr.Real, prec.AvgErr.Imag, prec.AvgErr.L2,
		prec.MedErr.Real, prec.MedErr.Imag, prec.MedErr.L2,
		prec.StdErr.Real, prec.StdErr.Imag, prec.StdErr.L2,
	)
}

// GetPrecisionStats generates a [PrecisionStats] from the reference values
// and the decrypted values. Errors are floored at 2^-logScale.
func GetPrecisionStats(want, have []complex128, logScale float64) (prec PrecisionStats) {

	n := min(len(want), len(have))

	diffReal := make(stats.Float64Data, n)
	diffImag := make(stats.Float64Data, n)
	diffL2 := make(stats.Float64Data, n)

	for i := range n {
		diffReal[i] = math.Abs(real(have[i]) - real(want[i]))
		diffImag[i] = math.Abs(imag(have[i]) - imag(want[i]))
		diffL2[i] = math.Hypot(diffReal[i], diffImag[i])
	}

	summary := func(f func(stats.Float64Data) (float64, error)) (s Stats) {
		s.Real, _ = f(diffReal)
		s.Imag, _ = f(diffImag)
		s.L2, _ = f(diffL2)
		return
	}

	toPrec := func(s Stats) Stats {
		return Stats{
			Real: deltaToPrecision(s.Real, logScale),
			Imag: deltaToPrecision(s.Imag, logScale),
			L2:   deltaToPrecision(s.L2, logScale),
		}
	}

	toErr := func(s Stats) Stats {
		return Stats{
			Real: logScale - s.Real,
			Imag: logScale - s.Imag,
			L2:   logScale - s.L2,
		}
	}

	prec.MinPrec = toPrec(summary(stats.Max))
	prec.MaxPrec = toPrec(summary(stats.Min))
	prec.AvgPrec = toPrec(summary(stats.Mean))
	prec.MedPrec = toPrec(summary(stats.Median))
	prec.StdPrec = toPrec(summary(stats.StandardDeviation))

	prec.MinErr = toErr(prec.MaxPrec)
	prec.MaxErr = toErr(prec.MinPrec)
	prec.AvgErr = toErr(prec.AvgPrec)
	prec.MedErr = toErr(prec.MedPrec)
	prec.StdErr = toErr(prec.StdPrec)

	return
}

func deltaToPrecision(delta, logScale float64) float64 {
	if delta <= 0 || math.IsNaN(delta) {
		return logScale
	}
	return math.Min(-math.Log2(delta), logScale)
}

// VerifyTestVectors checks that every slot of have is within 2^-log2MinPrec
// of want, on both the real and the imaginary parts.
func VerifyTestVectors(t *testing.T, want, have []complex128, log2MinPrec float64, printPrecisionStats bool) {

	require.Equal(t, len(want), len(have))

	precStats := GetPrecisionStats(want, have, 64)

	if printPrecisionStats {
		t.Log(precStats.String())
	}

	require.GreaterOrEqual(t, precStats.MinPrec.Real, log2MinPrec)
	require.GreaterOrEqual(t, precStats.MinPrec.Imag, log2MinPrec)
}

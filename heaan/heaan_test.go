package heaan_test

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/cmplx"
	"runtime"
	"testing"

	"github.com/Pro7ech/heaan/heaan"
	"github.com/Pro7ech/heaan/utils"
	"github.com/Pro7ech/heaan/utils/buffer"
	"github.com/Pro7ech/heaan/utils/sampling"
	"github.com/stretchr/testify/require"
)

var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string. Overrides -short and -long.")
var printPrecisionStats = flag.Bool("print-precision", false, "print precision stats")

const testLogP = 30

func GetTestName(params heaan.Parameters, opname string) string {
	return fmt.Sprintf("%s/logN=%d/logQ=%d/logP=%d/H=%d",
		opname,
		params.LogN(),
		params.LogQ(),
		params.LogP(),
		params.H())
}

type testContext struct {
	params heaan.Parameters
	source *sampling.Source
	kgen   *heaan.KeyGenerator
	sk     *heaan.SecretKey
	scheme *heaan.Scheme
}

var (
	// testInsecureLogN5 are insecure parameters used for the sole purpose of fast testing.
	testInsecureLogN5 = heaan.ParametersLiteral{
		LogN: 5,
		LogQ: 300,
		H:    16,
	}

	// testInsecureLogN6 are insecure parameters used for the sole purpose of fast testing.
	testInsecureLogN6 = heaan.ParametersLiteral{
		LogN: 6,
		LogQ: 400,
		LogP: 420,
	}

	testParametersLiteral = []heaan.ParametersLiteral{testInsecureLogN5, testInsecureLogN6}
)

func TestHEAAN(t *testing.T) {

	var err error

	var testParams []heaan.ParametersLiteral
	switch {
	case *flagParamString != "": // the custom test suite reads the parameters from the -params flag
		testParams = append(testParams, heaan.ParametersLiteral{})
		if err = json.Unmarshal([]byte(*flagParamString), &testParams[0]); err != nil {
			t.Fatal(err)
		}
	case testing.Short():
		testParams = testParametersLiteral[:1]
	default:
		testParams = testParametersLiteral
	}

	for _, paramsLiteral := range testParams {

		var params heaan.Parameters
		if params, err = heaan.NewParametersFromLiteral(paramsLiteral); err != nil {
			t.Fatal(err)
		}

		tc := genTestParams(params)

		for _, testSet := range []func(tc *testContext, t *testing.T){
			testParameters,
			testEncoder,
			testEncryptDecrypt,
			testEvaluatorAdd,
			testEvaluatorMult,
			testEvaluatorScaling,
			testEvaluatorRotate,
			testSerialization,
		} {
			testSet(tc, t)
			runtime.GC()
		}
	}
}

func genTestParams(params heaan.Parameters) (tc *testContext) {
	tc = &testContext{params: params}
	tc.source = sampling.NewSource([32]byte{'h', 'e', 'a', 'a', 'n'})
	tc.kgen = heaan.NewKeyGenerator(params, tc.source.NewSource())
	tc.sk = tc.kgen.GenSecretKeyNew()
	tc.scheme = heaan.NewScheme(params, tc.sk, tc.source.NewSource())
	return
}

func (tc *testContext) newTestVectors(t *testing.T, slots int) (values []complex128, ct *heaan.Ciphertext) {
	values = make([]complex128, slots)
	for i := range values {
		values[i] = tc.source.Complex128(-1-1i, 1+1i)
	}
	var err error
	ct, err = tc.scheme.Encrypt(values, slots, testLogP, tc.params.LogQ())
	require.NoError(t, err)
	return
}

func (tc *testContext) decrypt(t *testing.T, ct *heaan.Ciphertext) []complex128 {
	have, err := tc.scheme.Decrypt(tc.sk, ct)
	require.NoError(t, err)
	return have
}

func testParameters(tc *testContext, t *testing.T) {

	t.Run(GetTestName(tc.params, "Parameters/JSON"), func(t *testing.T) {
		data, err := json.Marshal(tc.params)
		require.NoError(t, err)
		var params heaan.Parameters
		require.NoError(t, json.Unmarshal(data, &params))
		require.True(t, tc.params.Equal(&params))
		require.Equal(t, tc.params.Fingerprint(), params.Fingerprint())
	})

	t.Run(GetTestName(tc.params, "Parameters/Defaults"), func(t *testing.T) {
		params, err := heaan.NewParametersFromLiteral(heaan.ParametersLiteral{LogN: 4, LogQ: 100})
		require.NoError(t, err)
		require.Equal(t, 100, params.LogP())
		require.Equal(t, 16, params.H())
		require.Equal(t, heaan.DefaultSigma, params.Sigma())
		require.False(t, tc.params.Equal(&params))
		require.NotEqual(t, tc.params.Fingerprint(), params.Fingerprint())

		_, err = heaan.NewParametersFromLiteral(heaan.ParametersLiteral{LogN: 1, LogQ: 100})
		require.Error(t, err)
		_, err = heaan.NewParametersFromLiteral(heaan.ParametersLiteral{LogN: 4, LogQ: 0})
		require.Error(t, err)
		_, err = heaan.NewParametersFromLiteral(heaan.ParametersLiteral{LogN: 4, LogQ: 100, H: 17})
		require.Error(t, err)
	})

	t.Run(GetTestName(tc.params, "Parameters/Tables"), func(t *testing.T) {
		rotGroup := tc.params.RotGroup()
		require.Equal(t, tc.params.MaxSlots(), len(rotGroup))
		require.Equal(t, 1, rotGroup[0])
		require.Equal(t, 5, rotGroup[1])
		require.Equal(t, tc.params.M()+1, len(tc.params.Roots()))
		require.InDelta(t, 0, cmplx.Abs(tc.params.Roots()[tc.params.M()/4]-1i), 1e-15)
		require.Equal(t, uint64(tc.params.M()-1), tc.params.GaloisElementForConjugation())
		require.Equal(t, tc.params.GaloisElementForRotation(-1), tc.params.GaloisElementForRotation(tc.params.MaxSlots()-1))
	})
}

func testEncoder(tc *testContext, t *testing.T) {

	ecd := heaan.NewEncoder(tc.params)

	for logSlots := range tc.params.LogMaxSlots() + 1 {

		slots := 1 << logSlots

		t.Run(GetTestName(tc.params, fmt.Sprintf("Encoder/Complex/Slots=%d", slots)), func(t *testing.T) {
			values := make([]complex128, slots)
			for i := range values {
				values[i] = tc.source.Complex128(-1-1i, 1+1i)
			}
			pt, err := ecd.EncodeNew(values, slots, testLogP, tc.params.LogQ())
			require.NoError(t, err)
			require.True(t, pt.IsComplex)
			have, err := ecd.Decode(pt)
			require.NoError(t, err)
			heaan.VerifyTestVectors(t, values, have, float64(testLogP-tc.params.LogN()-2), *printPrecisionStats)
		})

		t.Run(GetTestName(tc.params, fmt.Sprintf("Encoder/Real/Slots=%d", slots)), func(t *testing.T) {
			values := make([]float64, slots)
			for i := range values {
				values[i] = tc.source.Float64(-1, 1)
			}
			pt, err := ecd.EncodeRealNew(values, slots, testLogP, tc.params.LogQ())
			require.NoError(t, err)
			require.False(t, pt.IsComplex)
			have, err := ecd.DecodeReal(pt)
			require.NoError(t, err)
			for i := range values {
				require.InDelta(t, values[i], have[i], 1e-6)
			}
		})
	}

	t.Run(GetTestName(tc.params, "Encoder/Single"), func(t *testing.T) {
		pt, err := ecd.EncodeSingleNew(0.25-0.75i, testLogP, tc.params.LogQ())
		require.NoError(t, err)
		have, err := ecd.DecodeSingle(pt)
		require.NoError(t, err)
		require.Equal(t, 0.25-0.75i, have)

		pt, err = ecd.EncodeSingleRealNew(-3.5, testLogP, tc.params.LogQ())
		require.NoError(t, err)
		require.Zero(t, pt.Value.Coeffs[tc.params.MaxSlots()].Sign())
		have, err = ecd.DecodeSingle(pt)
		require.NoError(t, err)
		require.Equal(t, complex(-3.5, 0), have)
	})

	t.Run(GetTestName(tc.params, "Encoder/Errors"), func(t *testing.T) {
		_, err := ecd.EncodeNew(nil, 3, testLogP, tc.params.LogQ())
		require.ErrorIs(t, err, heaan.ErrDomainRange)
		_, err = ecd.EncodeNew(nil, 2*tc.params.MaxSlots(), testLogP, tc.params.LogQ())
		require.ErrorIs(t, err, heaan.ErrDomainRange)
		_, err = ecd.EncodeNew(make([]complex128, 3), 2, testLogP, tc.params.LogQ())
		require.ErrorIs(t, err, heaan.ErrDomainRange)
		_, err = ecd.EncodeNew(nil, 2, testLogP, tc.params.LogQ()+1)
		require.ErrorIs(t, err, heaan.ErrPrecisionExceeded)
		_, err = ecd.EncodeNew(nil, 2, testLogP, testLogP)
		require.ErrorIs(t, err, heaan.ErrPrecisionExceeded)

		// Real mode has the same slot bound.
		_, err = ecd.EncodeRealNew(make([]float64, tc.params.N()), tc.params.N(), testLogP, tc.params.LogQ())
		require.ErrorIs(t, err, heaan.ErrDomainRange)
		_, err = ecd.EncodeRealNew(make([]float64, tc.params.MaxSlots()), tc.params.MaxSlots(), testLogP, tc.params.LogQ())
		require.NoError(t, err)
	})
}

func testEncryptDecrypt(tc *testContext, t *testing.T) {

	for logSlots := range tc.params.LogMaxSlots() + 1 {

		slots := 1 << logSlots

		t.Run(GetTestName(tc.params, fmt.Sprintf("Encrypt/Slots=%d", slots)), func(t *testing.T) {
			values, ct := tc.newTestVectors(t, slots)
			require.Equal(t, testLogP, ct.LogP)
			require.Equal(t, tc.params.LogQ(), ct.LogQ)
			require.Equal(t, slots, ct.Slots)
			heaan.VerifyTestVectors(t, values, tc.decrypt(t, ct), 20, *printPrecisionStats)
		})
	}

	t.Run(GetTestName(tc.params, "Encrypt/Real"), func(t *testing.T) {
		values := []float64{0.5, -0.25, 0.125, 1}
		ct, err := tc.scheme.EncryptReal(values, 4, testLogP, tc.params.LogQ())
		require.NoError(t, err)
		require.False(t, ct.IsComplex)
		have := tc.decrypt(t, ct)
		for i := range values {
			require.InDelta(t, values[i], real(have[i]), 1e-6)
			require.Zero(t, imag(have[i]))
		}
	})

	t.Run(GetTestName(tc.params, "Encrypt/Single"), func(t *testing.T) {
		ct, err := tc.scheme.EncryptSingle(0.5+0.5i, testLogP, tc.params.LogQ())
		require.NoError(t, err)
		have, err := tc.scheme.DecryptSingle(tc.sk, ct)
		require.NoError(t, err)
		require.InDelta(t, 0, cmplx.Abs(have-(0.5+0.5i)), 1e-6)
	})

	t.Run(GetTestName(tc.params, "Encrypt/Zeros"), func(t *testing.T) {
		ct, err := tc.scheme.EncryptZeros(4, testLogP, tc.params.LogQ())
		require.NoError(t, err)
		heaan.VerifyTestVectors(t, make([]complex128, 4), tc.decrypt(t, ct), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Encrypt/MissingKey"), func(t *testing.T) {
		scheme := heaan.NewScheme(tc.params, nil, tc.source.NewSource())
		_, err := scheme.Encrypt(nil, 2, testLogP, tc.params.LogQ())
		require.ErrorIs(t, err, heaan.ErrMissingKey)
	})
}

func testEvaluatorAdd(tc *testContext, t *testing.T) {

	slots := tc.params.MaxSlots()

	t.Run(GetTestName(tc.params, "Evaluator/Add/CtCt"), func(t *testing.T) {
		values0, ct0 := tc.newTestVectors(t, slots)
		values1, ct1 := tc.newTestVectors(t, slots)
		ctOut, err := tc.scheme.AddNew(ct0, ct1)
		require.NoError(t, err)
		for i := range values0 {
			values0[i] += values1[i]
		}
		heaan.VerifyTestVectors(t, values0, tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Add/CtPt"), func(t *testing.T) {
		values0, ct0 := tc.newTestVectors(t, slots)
		values1 := make([]complex128, slots)
		for i := range values1 {
			values1[i] = tc.source.Complex128(-1-1i, 1+1i)
		}
		pt, err := tc.scheme.EncodeNew(values1, slots, testLogP, tc.params.LogQ())
		require.NoError(t, err)
		require.NoError(t, tc.scheme.Add(ct0, pt, ct0))
		for i := range values0 {
			values0[i] += values1[i]
		}
		heaan.VerifyTestVectors(t, values0, tc.decrypt(t, ct0), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Sub"), func(t *testing.T) {
		values0, ct0 := tc.newTestVectors(t, slots)
		values1, ct1 := tc.newTestVectors(t, slots)
		ctOut, err := tc.scheme.SubNew(ct0, ct1)
		require.NoError(t, err)
		for i := range values0 {
			values0[i] -= values1[i]
		}
		heaan.VerifyTestVectors(t, values0, tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Negate"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)
		require.NoError(t, tc.scheme.Negate(ct, ct))
		for i := range values {
			values[i] = -values[i]
		}
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ct), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/AddConst"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)
		constant := 0.5 - 1.25i
		ctOut, err := tc.scheme.AddConstNew(ct, constant)
		require.NoError(t, err)
		for i := range values {
			values[i] += constant
		}
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Add/LevelMismatch"), func(t *testing.T) {
		_, ct0 := tc.newTestVectors(t, slots)
		_, ct1 := tc.newTestVectors(t, slots)
		require.NoError(t, tc.scheme.ModDownBy(ct1, 10, ct1))
		_, err := tc.scheme.AddNew(ct0, ct1)
		require.ErrorIs(t, err, heaan.ErrLevelMismatch)
		_, err = tc.scheme.MultNew(ct0, ct1)
		require.ErrorIs(t, err, heaan.ErrLevelMismatch)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Add/ScaleMismatch"), func(t *testing.T) {
		_, ct0 := tc.newTestVectors(t, slots)
		ct1, err := tc.scheme.Encrypt(nil, slots, testLogP+1, tc.params.LogQ())
		require.NoError(t, err)
		_, err = tc.scheme.SubNew(ct0, ct1)
		require.ErrorIs(t, err, heaan.ErrScaleMismatch)
	})
}

func testEvaluatorMult(tc *testContext, t *testing.T) {

	slots := tc.params.MaxSlots()

	t.Run(GetTestName(tc.params, "Evaluator/Mult"), func(t *testing.T) {
		values0, ct0 := tc.newTestVectors(t, slots)
		values1, ct1 := tc.newTestVectors(t, slots)
		ctOut, err := tc.scheme.MultNew(ct0, ct1)
		require.NoError(t, err)
		require.Equal(t, 2*testLogP, ctOut.LogP)
		require.NoError(t, tc.scheme.ReScaleBy(ctOut, testLogP, ctOut))
		require.Equal(t, testLogP, ctOut.LogP)
		require.Equal(t, tc.params.LogQ()-testLogP, ctOut.LogQ)
		for i := range values0 {
			values0[i] *= values1[i]
		}
		heaan.VerifyTestVectors(t, values0, tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Square"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)
		require.NoError(t, tc.scheme.Square(ct, ct))
		require.NoError(t, tc.scheme.ReScaleBy(ct, testLogP, ct))
		for i := range values {
			values[i] *= values[i]
		}
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ct), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/MultByConst"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)
		constant := -0.75 + 0.5i
		ctOut, err := tc.scheme.MultByConstNew(ct, constant, testLogP)
		require.NoError(t, err)
		require.NoError(t, tc.scheme.ReScaleBy(ctOut, testLogP, ctOut))
		for i := range values {
			values[i] *= constant
		}
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/MultByPoly"), func(t *testing.T) {
		values0, ct := tc.newTestVectors(t, slots)
		values1 := make([]complex128, slots)
		for i := range values1 {
			values1[i] = tc.source.Complex128(-1-1i, 1+1i)
		}
		pt, err := tc.scheme.EncodeNew(values1, slots, testLogP, tc.params.LogQ())
		require.NoError(t, err)
		ctOut, err := tc.scheme.MultByPolyNew(ct, pt.Value, testLogP)
		require.NoError(t, err)
		require.NoError(t, tc.scheme.ReScaleBy(ctOut, testLogP, ctOut))
		for i := range values0 {
			values0[i] *= values1[i]
		}
		heaan.VerifyTestVectors(t, values0, tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/IMult/IDiv"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)

		ctI, err := tc.scheme.IMultNew(ct)
		require.NoError(t, err)
		want := make([]complex128, slots)
		for i := range values {
			want[i] = values[i] * 1i
		}
		heaan.VerifyTestVectors(t, want, tc.decrypt(t, ctI), 20, *printPrecisionStats)

		ctMono, err := tc.scheme.MultByMonomialNew(ct, tc.params.MaxSlots())
		require.NoError(t, err)
		require.True(t, ctI.Equal(ctMono))

		require.NoError(t, tc.scheme.IDiv(ctI, ctI))
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ctI), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Mult/MissingKey"), func(t *testing.T) {
		scheme := heaan.NewScheme(tc.params, nil, nil)
		_, ct := tc.newTestVectors(t, slots)
		_, err := scheme.MultNew(ct, ct)
		require.ErrorIs(t, err, heaan.ErrMissingKey)
	})
}

func testEvaluatorScaling(tc *testContext, t *testing.T) {

	slots := tc.params.MaxSlots()

	t.Run(GetTestName(tc.params, "Evaluator/ReScaleBy/Zero"), func(t *testing.T) {
		_, ct := tc.newTestVectors(t, slots)
		ctOut, err := tc.scheme.ReScaleByNew(ct, 0)
		require.NoError(t, err)
		require.True(t, ct.Equal(ctOut))
	})

	t.Run(GetTestName(tc.params, "Evaluator/ReScaleBy/Errors"), func(t *testing.T) {
		_, ct := tc.newTestVectors(t, slots)
		_, err := tc.scheme.ReScaleByNew(ct, -1)
		require.ErrorIs(t, err, heaan.ErrPrecisionExceeded)
		_, err = tc.scheme.ReScaleByNew(ct, ct.LogQ)
		require.ErrorIs(t, err, heaan.ErrPrecisionExceeded)

		// The scale cannot go below 2^0.
		_, err = tc.scheme.ReScaleByNew(ct, ct.LogP+10)
		require.ErrorIs(t, err, heaan.ErrPrecisionExceeded)
		_, err = tc.scheme.ReScaleToNew(ct, ct.LogQ-ct.LogP-1)
		require.ErrorIs(t, err, heaan.ErrPrecisionExceeded)
		ctOut, err := tc.scheme.ReScaleByNew(ct, ct.LogP)
		require.NoError(t, err)
		require.Equal(t, 0, ctOut.LogP)
		_, err = tc.scheme.ModDownToNew(ct, 0)
		require.ErrorIs(t, err, heaan.ErrPrecisionExceeded)
		_, err = tc.scheme.ModDownToNew(ct, ct.LogQ+1)
		require.ErrorIs(t, err, heaan.ErrPrecisionExceeded)
	})

	t.Run(GetTestName(tc.params, "Evaluator/ModDown"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)
		logq := testLogP + 20
		ctOut, err := tc.scheme.ModDownToNew(ct, logq)
		require.NoError(t, err)
		require.Equal(t, logq, ctOut.LogQ)
		require.Equal(t, testLogP, ctOut.LogP)
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/ReScaleTo"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)
		require.NoError(t, tc.scheme.MultByConst(ct, 1, 20, ct))
		require.NoError(t, tc.scheme.ReScaleTo(ct, tc.params.LogQ()-20, ct))
		require.Equal(t, testLogP, ct.LogP)
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ct), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/MultByPo2/DivByPo2"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)

		ctMul, err := tc.scheme.MultByPo2New(ct, 3)
		require.NoError(t, err)
		require.Equal(t, ct.LogQ, ctMul.LogQ)
		want := make([]complex128, slots)
		for i := range values {
			want[i] = values[i] * 8
		}
		heaan.VerifyTestVectors(t, want, tc.decrypt(t, ctMul), 17, *printPrecisionStats)

		ctDiv, err := tc.scheme.DivByPo2New(ct, 3)
		require.NoError(t, err)
		require.Equal(t, ct.LogQ-3, ctDiv.LogQ)
		require.Equal(t, ct.LogP, ctDiv.LogP)
		for i := range values {
			want[i] = values[i] / 8
		}
		heaan.VerifyTestVectors(t, want, tc.decrypt(t, ctDiv), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/SetScale"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)
		require.NoError(t, tc.scheme.SetScale(ct, testLogP+10, ct))
		require.Equal(t, testLogP+10, ct.LogP)
		require.NoError(t, tc.scheme.SetScale(ct, testLogP-5, ct))
		require.Equal(t, testLogP-5, ct.LogP)
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ct), 17, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Normalize"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, slots)
		require.NoError(t, tc.scheme.Normalize(ct, ct))
		for i := range ct.Ax.Coeffs {
			require.LessOrEqual(t, ct.Ax.Coeffs[i].BitLen(), ct.LogQ)
			require.LessOrEqual(t, ct.Bx.Coeffs[i].BitLen(), ct.LogQ)
		}
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ct), 20, *printPrecisionStats)
	})
}

func testEvaluatorRotate(tc *testContext, t *testing.T) {

	t.Run(GetTestName(tc.params, "Scheme/AddSortKeys"), func(t *testing.T) {

		tcSort := genTestParams(tc.params)
		Nh := tcSort.params.MaxSlots()

		require.ErrorIs(t, tcSort.scheme.AddSortKeys(tcSort.sk, 3), heaan.ErrDomainRange)
		require.ErrorIs(t, tcSort.scheme.AddSortKeys(tcSort.sk, 2*Nh), heaan.ErrDomainRange)
		require.Empty(t, tcSort.scheme.Keys().Rotations())

		require.NoError(t, tcSort.scheme.AddSortKeys(tcSort.sk, 8))
		require.Equal(t, []int{1, 2, 4, Nh - 4, Nh - 2, Nh - 1}, tcSort.scheme.Keys().Rotations())

		values, ct := tcSort.newTestVectors(t, Nh)

		ctOut, err := tcSort.scheme.LeftRotateFastNew(ct, 4)
		require.NoError(t, err)
		heaan.VerifyTestVectors(t, utils.RotateSlice(values, 4), tcSort.decrypt(t, ctOut), 20, *printPrecisionStats)

		ctOut, err = tcSort.scheme.RightRotateNew(ct, 2)
		require.NoError(t, err)
		heaan.VerifyTestVectors(t, utils.RotateSlice(values, -2), tcSort.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	tc.scheme.AddLeftRotKeys(tc.sk)
	tc.scheme.AddRightRotKeys(tc.sk)
	tc.scheme.AddConjKey(tc.sk)

	Nh := tc.params.MaxSlots()

	for _, slots := range []int{Nh, Nh >> 2} {

		t.Run(GetTestName(tc.params, fmt.Sprintf("Evaluator/LeftRotate/Slots=%d", slots)), func(t *testing.T) {
			values, ct := tc.newTestVectors(t, slots)
			for _, r := range []int{1, 3, slots - 1} {
				ctOut, err := tc.scheme.LeftRotateNew(ct, r)
				require.NoError(t, err)
				heaan.VerifyTestVectors(t, utils.RotateSlice(values, r), tc.decrypt(t, ctOut), 20, *printPrecisionStats)
			}
		})

		t.Run(GetTestName(tc.params, fmt.Sprintf("Evaluator/RightRotate/Slots=%d", slots)), func(t *testing.T) {
			values, ct := tc.newTestVectors(t, slots)
			for _, r := range []int{1, 3} {
				ctOut, err := tc.scheme.RightRotateNew(ct, r)
				require.NoError(t, err)
				heaan.VerifyTestVectors(t, utils.RotateSlice(values, -r), tc.decrypt(t, ctOut), 20, *printPrecisionStats)
			}
		})
	}

	t.Run(GetTestName(tc.params, "Evaluator/RotateByPo2"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, Nh)
		ctOut := heaan.NewCiphertext(tc.params, Nh, testLogP, ct.LogQ)
		require.NoError(t, tc.scheme.LeftRotateByPo2(ct, 1, ctOut))
		heaan.VerifyTestVectors(t, utils.RotateSlice(values, 2), tc.decrypt(t, ctOut), 20, *printPrecisionStats)
		require.NoError(t, tc.scheme.RightRotateByPo2(ct, 1, ctOut))
		heaan.VerifyTestVectors(t, utils.RotateSlice(values, -2), tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})

	t.Run(GetTestName(tc.params, "Evaluator/LeftRotateFast"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, Nh)
		r := 3
		_, err := tc.scheme.LeftRotateFastNew(ct, r)
		require.ErrorIs(t, err, heaan.ErrMissingKey)
		tc.scheme.AddLeftRotKey(tc.sk, r)
		ctOut, err := tc.scheme.LeftRotateFastNew(ct, r)
		require.NoError(t, err)
		heaan.VerifyTestVectors(t, utils.RotateSlice(values, r), tc.decrypt(t, ctOut), 20, *printPrecisionStats)
		require.Contains(t, tc.scheme.Keys().Rotations(), r)
	})

	t.Run(GetTestName(tc.params, "Evaluator/LeftRotate/MissingKey"), func(t *testing.T) {
		scheme := heaan.NewScheme(tc.params, tc.sk, tc.source.NewSource())
		_, ct := tc.newTestVectors(t, Nh)
		_, err := scheme.LeftRotateNew(ct, 1)
		require.ErrorIs(t, err, heaan.ErrMissingKey)
		_, err = scheme.ConjugateNew(ct)
		require.ErrorIs(t, err, heaan.ErrMissingKey)
	})

	t.Run(GetTestName(tc.params, "Evaluator/Conjugate"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, Nh)
		ctOut, err := tc.scheme.ConjugateNew(ct)
		require.NoError(t, err)
		for i := range values {
			values[i] = cmplx.Conj(values[i])
		}
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ctOut), 20, *printPrecisionStats)
	})
}

func testSerialization(tc *testContext, t *testing.T) {

	t.Run(GetTestName(tc.params, "Serialization/Ciphertext"), func(t *testing.T) {
		_, ct := tc.newTestVectors(t, 4)
		buffer.RequireSerializerCorrect(t, ct, &heaan.Ciphertext{})
		require.NoError(t, tc.scheme.Normalize(ct, ct))
		buffer.RequireSerializerCorrect(t, ct, &heaan.Ciphertext{})
	})

	t.Run(GetTestName(tc.params, "Serialization/Plaintext"), func(t *testing.T) {
		pt, err := tc.scheme.EncodeNew([]complex128{1, 2, 3}, 4, testLogP, tc.params.LogQ())
		require.NoError(t, err)
		buffer.RequireSerializerCorrect(t, pt, &heaan.Plaintext{})
	})

	t.Run(GetTestName(tc.params, "Serialization/Key"), func(t *testing.T) {
		key, err := tc.scheme.Keys().Get(heaan.KeyID{Purpose: heaan.Encryption})
		require.NoError(t, err)
		buffer.RequireSerializerCorrect(t, key, &heaan.Key{})
	})

	t.Run(GetTestName(tc.params, "Serialization/RoundTrip"), func(t *testing.T) {
		values, ct := tc.newTestVectors(t, 8)
		data, err := ct.MarshalBinary()
		require.NoError(t, err)
		ctNew := new(heaan.Ciphertext)
		require.NoError(t, ctNew.UnmarshalBinary(data))
		require.True(t, ct.Equal(ctNew))
		heaan.VerifyTestVectors(t, values, tc.decrypt(t, ctNew), 20, *printPrecisionStats)
	})
}

func TestScenario(t *testing.T) {

	params, err := heaan.NewParametersFromLiteral(heaan.ParametersLiteral{LogN: 4, LogQ: 300})
	require.NoError(t, err)

	tc := genTestParams(params)

	ct0, err := tc.scheme.Encrypt([]complex128{1.5 + 0.5i, -2.0}, 2, 30, 300)
	require.NoError(t, err)

	pt, err := tc.scheme.EncodeNew([]complex128{0.5, 1.0}, 2, 30, 300)
	require.NoError(t, err)

	require.NoError(t, tc.scheme.Add(ct0, pt, ct0))
	require.NoError(t, tc.scheme.ReScaleBy(ct0, 0, ct0))
	require.Equal(t, 300, ct0.LogQ)
	require.Equal(t, 30, ct0.LogP)

	heaan.VerifyTestVectors(t, []complex128{2.0 + 0.5i, -1.0}, tc.decrypt(t, ct0), 25, *printPrecisionStats)
}

func TestKeyStore(t *testing.T) {

	ks := heaan.NewKeyStore()

	_, err := ks.Get(heaan.RotationKeyID(3))
	require.ErrorIs(t, err, heaan.ErrMissingKey)
	require.False(t, ks.Has(heaan.KeyID{Purpose: heaan.Conjugation}))

	ks.Set(heaan.RotationKeyID(8), &heaan.Key{})
	ks.Set(heaan.RotationKeyID(3), &heaan.Key{})
	ks.Set(heaan.KeyID{Purpose: heaan.Conjugation}, &heaan.Key{})

	require.True(t, ks.Has(heaan.RotationKeyID(3)))
	require.Equal(t, []int{3, 8}, ks.Rotations())
	require.Equal(t, "Rotation(3)", heaan.RotationKeyID(3).String())
	require.Equal(t, "Conjugation", heaan.KeyID{Purpose: heaan.Conjugation}.String())
}

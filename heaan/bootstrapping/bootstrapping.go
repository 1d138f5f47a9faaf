// Package bootstrapping implements the bootstrapping of heaan ciphertexts:
// the homomorphic evaluation of the decryption circuit that raises the
// modulus of an exhausted ciphertext.
package bootstrapping

import (
	"fmt"

	"github.com/Pro7ech/heaan/heaan"
)

// Evaluator is a struct to store a [heaan.Scheme] holding the keys and
// the [heaan.BootContext] required by the bootstrapping, together with
// the bootstrapping [Parameters].
type Evaluator struct {
	*heaan.Scheme
	Parameters
}

// NewEvaluator creates a new [Evaluator]. The keys and the [heaan.BootContext]
// must have been added to scheme, for example with [Parameters.GenEvaluationKeys].
func NewEvaluator(scheme *heaan.Scheme, btpParams Parameters) (eval *Evaluator, err error) {

	if btpParams.LogQ() > scheme.Parameters().LogQ() {
		return nil, fmt.Errorf("cannot NewEvaluator: LogQ=%d > scheme LogQ=%d: %w", btpParams.LogQ(), scheme.Parameters().LogQ(), heaan.ErrPrecisionExceeded)
	}

	if _, err = scheme.BootContext(btpParams.LogSlots()); err != nil {
		return nil, fmt.Errorf("cannot NewEvaluator: %w", err)
	}

	return &Evaluator{Scheme: scheme, Parameters: btpParams}, nil
}

// BootstrapNew bootstraps ctIn on a new [heaan.Ciphertext]. See [Evaluator.Bootstrap].
func (eval *Evaluator) BootstrapNew(ctIn *heaan.Ciphertext, logq int) (ctOut *heaan.Ciphertext, err error) {
	ctOut = heaan.NewCiphertext(eval.Scheme.Parameters(), ctIn.Slots, ctIn.LogP, eval.LogQ())
	return ctOut, eval.Bootstrap(ctIn, logq, ctOut)
}

// Bootstrap re-encrypts ctIn, taken at modulus 2^logq, to a ciphertext of
// the same scale at a larger modulus.
//
// The circuit consists in 5 steps.
// 1) ModUp: brings ctIn down to 2^logq, centers it and raises its modulus to 2^LogQ
// 2) SubSum: sums the conjugates of a sparse ciphertext
// 3) CoeffsToSlots: homomorphic encoding
// 4) EvalExp: homomorphic modular reduction through exp(2*pi*i*x)
// 5) SlotsToCoeffs: homomorphic decoding
//
// The precision of the output is bounded by the ratio 2^logq / 2^ctIn.LogP
// and by LogT, LogI and LogP.
func (eval *Evaluator) Bootstrap(ctIn *heaan.Ciphertext, logq int, ctOut *heaan.Ciphertext) (err error) {

	params := eval.Scheme.Parameters()

	if ctIn.LogSlots() != eval.LogSlots() {
		return fmt.Errorf("cannot Bootstrap: ctIn.Slots=%d != %d: %w", ctIn.Slots, 1<<eval.LogSlots(), heaan.ErrDomainRange)
	}

	if logq > ctIn.LogQ || logq <= ctIn.LogP {
		return fmt.Errorf("cannot Bootstrap: logq=%d not in (%d, %d]: %w", logq, ctIn.LogP, ctIn.LogQ, heaan.ErrPrecisionExceeded)
	}

	if eval.LogP()+ctIn.LogP-logq < 1 {
		return fmt.Errorf("cannot Bootstrap: LogP=%d too small for the message ratio logq - logp = %d: %w", eval.LogP(), logq-ctIn.LogP, heaan.ErrPrecisionExceeded)
	}

	if consumed := eval.Consumption(params, logq, ctIn.LogP); eval.LogQ()-consumed <= logq {
		return fmt.Errorf("cannot Bootstrap: LogQ=%d - consumed=%d <= logq=%d: %w", eval.LogQ(), consumed, logq, heaan.ErrPrecisionExceeded)
	}

	var bc *heaan.BootContext
	if bc, err = eval.BootContext(eval.LogSlots()); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	logp := ctIn.LogP
	isComplex := ctIn.IsComplex

	var ct *heaan.Ciphertext
	if ct, err = eval.ModUp(ctIn, logq); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	if err = eval.SubSum(ct); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	if err = eval.CoeffsToSlots(ct, bc, ct); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	if ct, err = eval.EvalExp(ct); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	if err = eval.SlotsToCoeffs(ct, bc, ct); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	// Slots now hold m / 2^logq
	ct.LogP -= logq - logp

	if err = eval.SetScale(ct, logp, ct); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	ct.IsComplex = isComplex

	ctOut.Copy(ct)

	return
}

// ModUp reduces ctIn modulo 2^logq, centers its coefficients and
// reinterprets them modulo 2^LogQ. The scale of the output is set to
// 2^logq so that its slots decrypt to m/2^logq + I for a small integer
// polynomial I.
func (eval *Evaluator) ModUp(ctIn *heaan.Ciphertext, logq int) (ctOut *heaan.Ciphertext, err error) {

	var ct *heaan.Ciphertext
	if ct, err = eval.ModDownToNew(ctIn, logq); err != nil {
		return nil, fmt.Errorf("cannot ModUp: %w", err)
	}

	if err = eval.Normalize(ct, ct); err != nil {
		return nil, fmt.Errorf("cannot ModUp: %w", err)
	}

	params := eval.Scheme.Parameters()
	rQ := params.RingAtLogQ(eval.LogQ())

	ctOut = heaan.NewCiphertext(params, ct.Slots, logq, eval.LogQ())
	rQ.Reduce(ct.Ax, ctOut.Ax)
	rQ.Reduce(ct.Bx, ctOut.Bx)
	ctOut.IsComplex = true

	return
}

// SubSum sets ct to the sum of its images under the rotations by
// 2^t for t in [LogSlots, LogN-1), which maps a dense polynomial to
// N/(2*Slots) times its sparse part. The scale is increased accordingly
// and the message is unchanged.
func (eval *Evaluator) SubSum(ct *heaan.Ciphertext) (err error) {

	params := eval.Scheme.Parameters()

	for t := ct.LogSlots(); t < params.LogMaxSlots(); t++ {

		var rot *heaan.Ciphertext
		if rot, err = eval.LeftRotateFastNew(ct, 1<<t); err != nil {
			return fmt.Errorf("cannot SubSum: %w", err)
		}

		if err = eval.Add(ct, rot, ct); err != nil {
			return fmt.Errorf("cannot SubSum: %w", err)
		}

		ct.LogP++
	}

	return
}

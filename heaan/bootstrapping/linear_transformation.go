package bootstrapping

import (
	"fmt"
	"runtime"

	"github.com/Pro7ech/heaan/heaan"
	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils/concurrency"
	"github.com/Pro7ech/heaan/utils/structs"
)

// CoeffsToSlots evaluates the homomorphic encoding on ctIn: the slots of
// ctOut hold the complex coefficients c[j*gap] + i*c[N/2 + j*gap] of the
// plaintext of ctIn, divided by the scale of ctIn.
func (eval *Evaluator) CoeffsToSlots(ctIn *heaan.Ciphertext, bc *heaan.BootContext, ctOut *heaan.Ciphertext) (err error) {

	if err = eval.linearTransformation(ctIn, bc, bc.PVec, ctOut); err != nil {
		return fmt.Errorf("cannot CoeffsToSlots: %w", err)
	}

	// The encoding matrix E satisfies E^H * E = l * I.
	ctOut.LogP += bc.LogSlots

	return
}

// SlotsToCoeffs evaluates the homomorphic decoding on ctIn: the plaintext of
// ctOut has the values of the slots of ctIn as complex coefficients.
func (eval *Evaluator) SlotsToCoeffs(ctIn *heaan.Ciphertext, bc *heaan.BootContext, ctOut *heaan.Ciphertext) (err error) {
	if err = eval.linearTransformation(ctIn, bc, bc.PVecInv, ctOut); err != nil {
		return fmt.Errorf("cannot SlotsToCoeffs: %w", err)
	}
	return
}

// linearTransformation evaluates sum_i rot_{lk*i}(sum_j pvec[j+lk*i] * rot_j(ctIn))
// with the baby-step giant-step algorithm and rescales the result by bc.LogP.
func (eval *Evaluator) linearTransformation(ctIn *heaan.Ciphertext, bc *heaan.BootContext, pvec structs.Vector[ring.Poly], ctOut *heaan.Ciphertext) (err error) {

	if ctIn.LogSlots() != bc.LogSlots {
		return fmt.Errorf("ctIn.Slots=%d != %d: %w", ctIn.Slots, bc.Slots(), heaan.ErrDomainRange)
	}

	lk := bc.BabyStep()
	lm := bc.GiantStep()

	params := eval.Scheme.Parameters()

	newCiphertext := func() *heaan.Ciphertext {
		return heaan.NewCiphertext(params, ctIn.Slots, ctIn.LogP, ctIn.LogQ)
	}

	// Baby steps
	baby := make([]*heaan.Ciphertext, lk)
	baby[0] = ctIn.Clone()

	workers := min(runtime.NumCPU(), max(lk, lm))

	buffers := make([]*heaan.Ciphertext, workers)
	for i := range buffers {
		buffers[i] = newCiphertext()
	}

	rm := concurrency.NewResourceManager(buffers)

	for j := 1; j < lk; j++ {
		baby[j] = newCiphertext()
		rm.Run(func(_ *heaan.Ciphertext) (err error) {
			return eval.LeftRotateFast(ctIn, j, baby[j])
		})
	}

	if err = rm.Wait(); err != nil {
		return
	}

	// Giant steps
	giant := make([]*heaan.Ciphertext, lm)

	for i := range lm {

		giant[i] = newCiphertext()

		rm.Run(func(tmp *heaan.Ciphertext) (err error) {

			acc := giant[i]

			for j := range lk {

				if err = eval.MultByPoly(baby[j], pvec[j+lk*i], bc.LogP, tmp); err != nil {
					return
				}

				if j == 0 {
					acc.Copy(tmp)
				} else if err = eval.Add(acc, tmp, acc); err != nil {
					return
				}
			}

			if i != 0 {
				return eval.LeftRotateFast(acc, lk*i, acc)
			}

			return
		})
	}

	if err = rm.Wait(); err != nil {
		return
	}

	for i := 1; i < lm; i++ {
		if err = eval.Add(giant[0], giant[i], giant[0]); err != nil {
			return
		}
	}

	return eval.ReScaleBy(giant[0], bc.LogP, ctOut)
}

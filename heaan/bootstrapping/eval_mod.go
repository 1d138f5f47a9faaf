package bootstrapping

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/heaan/heaan"
	"github.com/Pro7ech/heaan/utils/bignum"
	"github.com/Pro7ech/heaan/utils/concurrency"
)

const prec = 256

// taylorExp2Pi returns the coefficients a[k] = (2pi)^k / k! of the degree
// 7 Taylor expansion of exp(2*pi*x), for k in [0, 7].
func taylorExp2Pi() (a []*big.Float) {
	twoPi := bignum.Pi(prec)
	twoPi.Mul(twoPi, bignum.NewFloat(2, prec))
	a = make([]*big.Float, 8)
	for k := range a {
		a[k] = bignum.Pow(twoPi, bignum.NewFloat(k, prec))
		a[k].Quo(a[k], bignum.Factorial(k, prec))
	}
	return
}

// Exp2Pi evaluates exp(2*pi*x) on the slots of ctIn with the degree 7
// Taylor expansion, as
//
//	(a1 * (x + a0/a1)) + x^2 * (a3 * (x + a2/a3)) + x^4 * ((a5 * (x + a4/a5)) + x^2 * (a7 * (x + a6/a7)))
//
// The scale of ctIn must be 2^logp. The output has scale 2^logp and
// its modulus is reduced by 3*logp.
func (eval *Evaluator) Exp2Pi(ctIn *heaan.Ciphertext, logp int) (ctOut *heaan.Ciphertext, err error) {

	if ctIn.LogP != logp {
		return nil, fmt.Errorf("cannot Exp2Pi: ctIn.LogP=%d != logp=%d: %w", ctIn.LogP, logp, heaan.ErrScaleMismatch)
	}

	a := taylorExp2Pi()

	// x^2, x^4
	var x2, x4 *heaan.Ciphertext
	if x2, err = eval.SquareNew(ctIn); err != nil {
		return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
	}

	if err = eval.ReScaleBy(x2, logp, x2); err != nil {
		return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
	}

	if x4, err = eval.SquareNew(x2); err != nil {
		return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
	}

	if err = eval.ReScaleBy(x4, logp, x4); err != nil {
		return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
	}

	// a[k+1] * (x + a[k]/a[k+1]) for k = 0, 2, 4, 6
	pairs := make([]*heaan.Ciphertext, 4)
	for i := range pairs {

		k := 2 * i
		offset := new(big.Float).Quo(a[k], a[k+1])

		if pairs[i], err = eval.AddConstNew(ctIn, offset); err != nil {
			return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
		}

		if err = eval.MultByConst(pairs[i], a[k+1], logp, pairs[i]); err != nil {
			return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
		}

		if err = eval.ReScaleBy(pairs[i], logp, pairs[i]); err != nil {
			return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
		}
	}

	// p01 + x^2 * p23
	var low *heaan.Ciphertext
	if low, err = eval.mulAddPairs(pairs[0], pairs[1], x2, logp); err != nil {
		return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
	}

	// p45 + x^2 * p67
	var high *heaan.Ciphertext
	if high, err = eval.mulAddPairs(pairs[2], pairs[3], x2, logp); err != nil {
		return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
	}

	// low + x^4 * high
	if ctOut, err = eval.mulAddPairs(low, high, x4, logp); err != nil {
		return nil, fmt.Errorf("cannot Exp2Pi: %w", err)
	}

	return
}

// mulAddPairs returns c0 + c1 * x, rescaled by logp.
// c0 is brought down to the modulus of the product.
func (eval *Evaluator) mulAddPairs(c0, c1, x *heaan.Ciphertext, logp int) (res *heaan.Ciphertext, err error) {

	if res, err = eval.MultNew(c1, x); err != nil {
		return
	}

	if err = eval.ReScaleBy(res, logp, res); err != nil {
		return
	}

	var tmp *heaan.Ciphertext
	if tmp, err = eval.ModDownToNew(c0, res.LogQ); err != nil {
		return
	}

	return res, eval.Add(res, tmp, res)
}

// EvalExp evaluates the homomorphic modular reduction on the output of
// [Evaluator.CoeffsToSlots]: for slots u + i*v with u and v close to
// integers, it returns a ciphertext whose slots are
// (sin(2*pi*u) + i*sin(2*pi*v)) / (2*pi), with scale 2^LogP.
//
// The real and imaginary parts are processed concurrently: each is mapped
// to i*x/2^(LogT+LogI), exponentiated with [Evaluator.Exp2Pi], squared
// LogT+LogI times, and its imaginary part is extracted with a conjugation.
func (eval *Evaluator) EvalExp(ctIn *heaan.Ciphertext) (ctOut *heaan.Ciphertext, err error) {

	logp := eval.LogP()

	var conj *heaan.Ciphertext
	if conj, err = eval.ConjugateNew(ctIn); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	// 2i * Re(ct)
	var re *heaan.Ciphertext
	if re, err = eval.AddNew(ctIn, conj); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	if err = eval.IMult(re, re); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	// 2i * Im(ct)
	var im *heaan.Ciphertext
	if im, err = eval.SubNew(ctIn, conj); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	branches := []*heaan.Ciphertext{re, im}

	rm := concurrency.NewResourceManager([]int{0, 1})

	for i := range branches {
		rm.Run(func(_ int) (err error) {
			branches[i], err = eval.evalExpBranch(branches[i], logp)
			return
		})
	}

	if err = rm.Wait(); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	re, im = branches[0], branches[1]

	// im - i*re = 2 * (sin(2*pi*u) + i*sin(2*pi*v))
	if err = eval.IMult(re, re); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	if err = eval.Sub(im, re, im); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	oneOverFourPi := bignum.Pi(prec)
	oneOverFourPi.Mul(oneOverFourPi, bignum.NewFloat(4, prec))
	oneOverFourPi.Quo(bignum.NewFloat(1, prec), oneOverFourPi)

	if err = eval.MultByConst(im, oneOverFourPi, logp, im); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	if err = eval.ReScaleBy(im, logp, im); err != nil {
		return nil, fmt.Errorf("cannot EvalExp: %w", err)
	}

	return im, nil
}

// evalExpBranch maps the slots 2i*x of ct to exp(2*pi*i*x) - exp(-2*pi*i*x).
func (eval *Evaluator) evalExpBranch(ct *heaan.Ciphertext, logp int) (res *heaan.Ciphertext, err error) {

	r := eval.Squarings()

	// 2i*x -> i*x/2^r
	ct.LogP += 1 + r

	if err = eval.SetScale(ct, logp, ct); err != nil {
		return
	}

	if res, err = eval.Exp2Pi(ct, logp); err != nil {
		return
	}

	for range r {
		if err = eval.Square(res, res); err != nil {
			return
		}
		if err = eval.ReScaleBy(res, logp, res); err != nil {
			return
		}
	}

	var conj *heaan.Ciphertext
	if conj, err = eval.ConjugateNew(res); err != nil {
		return
	}

	return res, eval.Sub(res, conj, res)
}

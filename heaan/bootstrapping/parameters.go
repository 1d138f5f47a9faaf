package bootstrapping

import (
	"encoding/json"
	"fmt"

	"github.com/Pro7ech/heaan/heaan"
	"github.com/google/go-cmp/cmp"
)

// DefaultLogI is the default value of [ParametersLiteral.LogI].
const DefaultLogI = 4

// ParametersLiteral is an unchecked struct that is given to the method [NewParametersFromLiteral]
// to validate them and create a [Parameters] struct, which is used to instantiate an [Evaluator].
type ParametersLiteral struct {
	// LogSlots is the base two logarithm of the number of slots of
	// the ciphertexts to bootstrap.
	LogSlots int

	// LogP is the base two logarithm of the scale of the diagonals of the
	// homomorphic encoding and decoding, and of the working scale of the
	// modular reduction.
	LogP int

	// LogQ is the base two logarithm of the modulus the ciphertext is
	// raised to. It must not exceed the modulus of the scheme.
	LogQ int

	// LogT is the number of squarings after the Taylor evaluation of
	// exp(2*pi*i*x) that are not covered by LogI.
	LogT int

	// LogI is the base two logarithm of the bound on the integer part
	// |I| introduced by the modulus raise. It is set to [DefaultLogI] if zero.
	LogI int `json:",omitempty"`
}

// Parameters is a struct storing the validated parameters of the bootstrapping.
type Parameters struct {
	logSlots int
	logP     int
	logQ     int
	logT     int
	logI     int
}

// NewParametersFromLiteral validates a [ParametersLiteral] against the
// parameters of the scheme and returns the corresponding [Parameters].
func NewParametersFromLiteral(params heaan.Parameters, lit ParametersLiteral) (p Parameters, err error) {

	if lit.LogSlots < 0 || lit.LogSlots > params.LogMaxSlots() {
		return p, fmt.Errorf("invalid LogSlots: must be in [0, %d] but is %d", params.LogMaxSlots(), lit.LogSlots)
	}

	if lit.LogP < 1 {
		return p, fmt.Errorf("invalid LogP: must be positive but is %d", lit.LogP)
	}

	if lit.LogQ < 1 || lit.LogQ > params.LogQ() {
		return p, fmt.Errorf("invalid LogQ: must be in [1, %d] but is %d", params.LogQ(), lit.LogQ)
	}

	if lit.LogT < 0 {
		return p, fmt.Errorf("invalid LogT: must be non-negative but is %d", lit.LogT)
	}

	if lit.LogI == 0 {
		lit.LogI = DefaultLogI
	}

	if lit.LogI < 0 {
		return p, fmt.Errorf("invalid LogI: must be non-negative but is %d", lit.LogI)
	}

	return Parameters{
		logSlots: lit.LogSlots,
		logP:     lit.LogP,
		logQ:     lit.LogQ,
		logT:     lit.LogT,
		logI:     lit.LogI,
	}, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		LogSlots: p.logSlots,
		LogP:     p.logP,
		LogQ:     p.logQ,
		LogT:     p.logT,
		LogI:     p.logI,
	}
}

// LogSlots returns the base two logarithm of the number of slots.
func (p Parameters) LogSlots() int {
	return p.logSlots
}

// LogP returns the base two logarithm of the working scale.
func (p Parameters) LogP() int {
	return p.logP
}

// LogQ returns the base two logarithm of the raised modulus.
func (p Parameters) LogQ() int {
	return p.logQ
}

// LogT returns the number of additional squarings.
func (p Parameters) LogT() int {
	return p.logT
}

// LogI returns the base two logarithm of the bound on the integer part.
func (p Parameters) LogI() int {
	return p.logI
}

// Squarings returns LogT + LogI, the number of squarings after the
// Taylor evaluation.
func (p Parameters) Squarings() int {
	return p.logT + p.logI
}

// Consumption returns the number of modulus bits consumed by the
// bootstrapping of a ciphertext given at modulus 2^logq and scale 2^logp.
func (p Parameters) Consumption(params heaan.Parameters, logq, logp int) (bits int) {

	// CoeffsToSlots
	bits += p.logP

	// Scale matching before the Taylor evaluation
	bits += max(0, logq+params.LogMaxSlots()+1+p.Squarings()-p.logP)

	// Exp2Pi, squarings, multiplication by 1/(4pi)
	bits += 3*p.logP + p.Squarings()*p.logP + p.logP

	// SlotsToCoeffs
	bits += p.logP

	// Scale matching to the input scale
	bits += max(0, p.logP-logq)

	return
}

// Equal returns true if the receiver and other are equal.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// GenEvaluationKeys generates the rotation keys, the conjugation key and
// the [heaan.BootContext] needed to bootstrap ciphertexts of 2^LogSlots slots,
// and stores them in scheme.
func (p Parameters) GenEvaluationKeys(scheme *heaan.Scheme, sk *heaan.SecretKey) (err error) {
	return scheme.AddBootKey(sk, p.logSlots, p.logP)
}

// MarshalJSON returns a JSON representation of the receiver.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation on the receiver.
// The parameters are not validated against a scheme.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var lit ParametersLiteral
	if err = json.Unmarshal(data, &lit); err != nil {
		return
	}
	if lit.LogI == 0 {
		lit.LogI = DefaultLogI
	}
	*p = Parameters{
		logSlots: lit.LogSlots,
		logP:     lit.LogP,
		logQ:     lit.LogQ,
		logT:     lit.LogT,
		logI:     lit.LogI,
	}
	return
}

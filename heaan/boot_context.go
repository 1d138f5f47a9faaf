package heaan

import (
	"bufio"
	"fmt"
	"io"
	"runtime"

	"github.com/Pro7ech/heaan/ring"
	"github.com/Pro7ech/heaan/utils/buffer"
	"github.com/Pro7ech/heaan/utils/concurrency"
	"github.com/Pro7ech/heaan/utils/structs"
	"github.com/google/go-cmp/cmp"
)

// BootContext stores the plaintext diagonals of the homomorphic
// coefficients-to-slots and slots-to-coefficients transforms for
// 2^LogSlots slots, in the baby-step giant-step order.
//
// For l = 2^LogSlots and j = j0 + BabyStep * i, PVec[j] is the j-th
// diagonal of the forward transform rotated to the right by BabyStep * i
// positions, encoded at scale 2^LogP with signed coefficients.
// PVecInv is the same for the inverse transform.
type BootContext struct {
	LogSlots    int
	LogP        int
	LogBabyStep int
	PVec        structs.Vector[ring.Poly]
	PVecInv     structs.Vector[ring.Poly]
}

// NewBootContext computes the [BootContext] for 2^logl slots at precision logp.
// The result is a deterministic function of its inputs.
func NewBootContext(params Parameters, logl, logp int) (bc *BootContext, err error) {

	if logl < 0 || logl > params.LogMaxSlots() {
		return nil, fmt.Errorf("cannot NewBootContext: logSlots=%d not in [0, %d]: %w", logl, params.LogMaxSlots(), ErrDomainRange)
	}

	if logp < 1 {
		return nil, fmt.Errorf("cannot NewBootContext: logp=%d is not positive: %w", logp, ErrPrecisionExceeded)
	}

	l := 1 << logl

	bc = &BootContext{
		LogSlots:    logl,
		LogP:        logp,
		LogBabyStep: (logl + 1) >> 1,
		PVec:        make(structs.Vector[ring.Poly], l),
		PVecInv:     make(structs.Vector[ring.Poly], l),
	}

	ecd := NewEncoder(params)

	buffers := make([][]complex128, min(runtime.NumCPU(), l))
	for i := range buffers {
		buffers[i] = make([]complex128, l)
	}

	rm := concurrency.NewResourceManager(buffers)

	for j := range l {
		rm.Run(func(buf []complex128) (err error) {
			bc.PVec[j], bc.PVecInv[j] = bc.diagonals(ecd, j, buf)
			return
		})
	}

	if err = rm.Wait(); err != nil {
		return nil, fmt.Errorf("cannot NewBootContext: %w", err)
	}

	return
}

// diagonals returns the j-th forward and inverse diagonals.
func (bc *BootContext) diagonals(ecd *Encoder, j int, buf []complex128) (pvec, pvecInv ring.Poly) {

	params := ecd.params

	M := params.M()
	rotGroup := params.RotGroup()
	roots := params.Roots()

	l := bc.Slots()
	lk := bc.BabyStep()
	gap := params.N() / (2 * l)

	pvec = ring.NewPoly(params.N())
	pvecInv = ring.NewPoly(params.N())

	for s := range l {
		i := (s + j) % l
		buf[s] = roots[((M-rotGroup[i])*s*gap)%M]
	}
	ecd.embed(buf, bc.LogP, pvec)

	for s := range l {
		i := (s + j) % l
		buf[s] = roots[(rotGroup[s]*i*gap)%M]
	}
	ecd.embed(buf, bc.LogP, pvecInv)

	if giant := j / lk; giant != 0 {
		galEl := uint64(rotGroup[l-lk*giant])
		ring.Automorphism(pvec, galEl, pvec)
		ring.Automorphism(pvecInv, galEl, pvecInv)
	}

	return
}

// Slots returns the number of slots l.
func (bc *BootContext) Slots() int {
	return 1 << bc.LogSlots
}

// BabyStep returns the number of baby steps 2^ceil(LogSlots/2).
func (bc *BootContext) BabyStep() int {
	return 1 << bc.LogBabyStep
}

// GiantStep returns the number of giant steps l / BabyStep.
func (bc *BootContext) GiantStep() int {
	return bc.Slots() / bc.BabyStep()
}

// Rotations returns the sorted list of left rotations required to
// bootstrap a ciphertext of 2^LogSlots slots: the baby steps, the
// giant steps and the rotations of the sparse trace.
func (bc *BootContext) Rotations(params Parameters) (rots []int) {

	for j := 1; j < bc.BabyStep(); j++ {
		rots = append(rots, j)
	}

	for i := 1; i < bc.GiantStep(); i++ {
		rots = append(rots, i*bc.BabyStep())
	}

	for t := bc.LogSlots; t < params.LogMaxSlots(); t++ {
		rots = append(rots, 1<<t)
	}

	return
}

// Equal returns true if the receiver and other are equal.
func (bc *BootContext) Equal(other *BootContext) bool {
	return bc.LogSlots == other.LogSlots &&
		bc.LogP == other.LogP &&
		bc.LogBabyStep == other.LogBabyStep &&
		cmp.Equal(bc.PVec, other.PVec) &&
		cmp.Equal(bc.PVecInv, other.PVecInv)
}

// BinarySize returns the serialized size of the object in bytes.
func (bc *BootContext) BinarySize() int {
	return 24 + bc.PVec.BinarySize() + bc.PVecInv.BinarySize()
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (bc *BootContext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		for _, v := range []int{bc.LogSlots, bc.LogP, bc.LogBabyStep} {
			if inc, err = buffer.WriteInt(w, v); err != nil {
				return n + inc, err
			}
			n += inc
		}

		if inc, err = bc.PVec.WriteTo(w); err != nil {
			return n + inc, err
		}

		n += inc

		inc, err = bc.PVecInv.WriteTo(w)

		return n + inc, err

	default:
		return bc.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (bc *BootContext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		for _, v := range []*int{&bc.LogSlots, &bc.LogP, &bc.LogBabyStep} {
			if inc, err = buffer.ReadInt(r, v); err != nil {
				return n + inc, err
			}
			n += inc
		}

		if inc, err = bc.PVec.ReadFrom(r); err != nil {
			return n + inc, err
		}

		n += inc

		inc, err = bc.PVecInv.ReadFrom(r)

		return n + inc, err

	default:
		return bc.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (bc *BootContext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(bc.BinarySize())
	_, err = bc.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (bc *BootContext) UnmarshalBinary(data []byte) (err error) {
	_, err = bc.ReadFrom(buffer.NewBuffer(data))
	return
}

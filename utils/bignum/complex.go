package bignum

import (
	"fmt"
	"math/big"
)

// Complex is a type for arbitrary precision complex number
type Complex [2]big.Float

// ToComplex takes a
// - complex64, complex128
// - float32, float64,
// - int, int64, uint64,
// - *big.Int, *big.Float,
// - *bignum.Complex
// and returns a *bignum.Complex set to the given precision.
func ToComplex(value interface{}, prec uint) (cmplx *Complex) {

	cmplx = new(Complex)
	cmplx[0].SetPrec(prec)
	cmplx[1].SetPrec(prec)

	switch value := value.(type) {
	case complex64:
		cmplx[0].SetFloat64(float64(real(value)))
		cmplx[1].SetFloat64(float64(imag(value)))
	case complex128:
		cmplx[0].SetFloat64(real(value))
		cmplx[1].SetFloat64(imag(value))
	case float32:
		cmplx[0].SetFloat64(float64(value))
	case float64:
		cmplx[0].SetFloat64(value)
	case int:
		cmplx[0].SetInt64(int64(value))
	case int64:
		cmplx[0].SetInt64(value)
	case uint64:
		cmplx[0].SetUint64(value)
	case *big.Int:
		cmplx[0].SetInt(value)
	case *big.Float:
		cmplx[0].Set(value)
	case *Complex:
		cmplx[0].Set(&value[0])
		cmplx[1].Set(&value[1])
	default:
		panic(fmt.Errorf("invalid value.(type): must be int, int64, uint64, float32, float64, complex64, complex128, *big.Int, *big.Float or *bignum.Complex but is %T", value))
	}

	return
}

// IsReal returns true if the imaginary part is zero.
func (c *Complex) IsReal() bool {
	return c[1].Sign() == 0
}

// Set sets the receiver to a.
func (c *Complex) Set(a *Complex) *Complex {
	c[0].Set(&a[0])
	c[1].Set(&a[1])
	return c
}

// Clone returns a new copy of the receiver.
func (c *Complex) Clone() (clone *Complex) {
	clone = &Complex{}
	clone[0].Set(&c[0])
	clone[1].Set(&c[1])
	return
}

// Real returns the real part as a big.Float
func (c *Complex) Real() *big.Float {
	return &c[0]
}

// Imag returns the imaginary part as a big.Float
func (c *Complex) Imag() *big.Float {
	return &c[1]
}

// Complex128 returns the arbitrary precision complex number as a complex128
func (c *Complex) Complex128() complex128 {
	real, _ := c[0].Float64()
	imag, _ := c[1].Float64()
	return complex(real, imag)
}

// Add sets c = a + b.
func (c *Complex) Add(a, b *Complex) *Complex {
	c[0].Add(&a[0], &b[0])
	c[1].Add(&a[1], &b[1])
	return c
}

// Sub sets c = a - b.
func (c *Complex) Sub(a, b *Complex) *Complex {
	c[0].Sub(&a[0], &b[0])
	c[1].Sub(&a[1], &b[1])
	return c
}

// Neg sets c = -a.
func (c *Complex) Neg(a *Complex) *Complex {
	c[0].Neg(&a[0])
	c[1].Neg(&a[1])
	return c
}

// Mul sets c = a * b.
func (c *Complex) Mul(a, b *Complex) *Complex {
	prec := max(a.Prec(), b.Prec())
	re := new(big.Float).SetPrec(prec).Mul(&a[0], &b[0])
	tmp := new(big.Float).SetPrec(prec).Mul(&a[1], &b[1])
	re.Sub(re, tmp)
	im := new(big.Float).SetPrec(prec).Mul(&a[0], &b[1])
	tmp.Mul(&a[1], &b[0])
	im.Add(im, tmp)
	c[0].Set(re)
	c[1].Set(im)
	return c
}

// Prec returns the smallest precision of the real and imaginary parts.
func (c *Complex) Prec() uint {
	return min(c[0].Prec(), c[1].Prec())
}

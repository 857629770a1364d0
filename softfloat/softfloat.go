// Package softfloat implements the IEEE-754-2008 arithmetic the RV32F/D
// extensions require: add/sub/mul/div/sqrt/fma, min/max, comparisons,
// conversions, classification and sign-injection, each taking an explicit
// rounding mode and returning a sticky exception-flag set rather than
// raising an error.
//
// There is no ready-made Go softfloat library in the dependency corpus
// this module was grounded on, so the arithmetic core is built on
// math/big.Float: a correctly-rounded, arbitrary-precision,
// arbitrary-rounding-mode primitive the standard library already
// provides. Every operand is first reconstructed as an exact big.Float
// (finite IEEE floats are exact dyadic rationals), the operation is
// performed at extended precision, and the result is rounded down to the
// target format's precision using the rounding mode the RISC-V fcsr
// requests, with explicit overflow/underflow/subnormal handling layered
// on top since big.Float itself has no notion of a bounded exponent
// range.
package softfloat

import "math/big"

// F32 and F64 are raw IEEE-754 bit patterns, not Go's native float32/64:
// every operation here is explicit about rounding mode and flags, which
// Go's built-in float arithmetic does not expose.
type F32 uint32
type F64 uint64

// RoundingMode mirrors the RISC-V frm encoding.
type RoundingMode uint8

const (
	RNE RoundingMode = iota // round to nearest, ties to even
	RTZ                     // round toward zero
	RDN                     // round toward -Inf
	RUP                     // round toward +Inf
	RMM                     // round to nearest, ties away from zero
)

// Flags is the sticky 5-bit fflags exception set.
type Flags uint8

const (
	FlagNX Flags = 1 << iota // inexact
	FlagUF                   // underflow
	FlagOF                   // overflow
	FlagDZ                   // divide by zero
	FlagNV                   // invalid operation
)

const (
	QNaN32 F32 = 0x7fc00000
	QNaN64 F64 = 0x7ff8000000000000
)

type formatParams struct {
	mantBits uint
	expBits  uint
	bias     int
}

var (
	f32p = formatParams{mantBits: 23, expBits: 8, bias: 127}
	f64p = formatParams{mantBits: 52, expBits: 11, bias: 1023}
)

func (p formatParams) maxExpField() uint64 { return (uint64(1) << p.expBits) - 1 }
func (p formatParams) maxE() int           { return int(p.maxExpField()) - 1 - p.bias }
func (p formatParams) minNormalE() int     { return 1 - p.bias }

type class int

const (
	classNegInf class = iota
	classNegNormal
	classNegSubnormal
	classNegZero
	classPosZero
	classPosSubnormal
	classPosNormal
	classPosInf
	classSNaN
	classQNaN
)

type unpacked struct {
	sign  bool
	class class
	// value is set only when class is one of the finite nonzero cases.
	value *big.Float
}

func unpack(bits uint64, p formatParams) unpacked {
	sign := bits>>(p.mantBits+p.expBits)&1 != 0
	expField := (bits >> p.mantBits) & (p.maxExpField())
	mantField := bits & ((uint64(1) << p.mantBits) - 1)

	switch {
	case expField == p.maxExpField():
		if mantField == 0 {
			if sign {
				return unpacked{sign: true, class: classNegInf}
			}
			return unpacked{sign: false, class: classPosInf}
		}
		isSignaling := mantField>>(p.mantBits-1)&1 == 0
		if isSignaling {
			return unpacked{sign: sign, class: classSNaN}
		}
		return unpacked{sign: sign, class: classQNaN}
	case expField == 0 && mantField == 0:
		if sign {
			return unpacked{sign: true, class: classNegZero}
		}
		return unpacked{sign: false, class: classPosZero}
	case expField == 0:
		v := bigFromMantExp(mantField, 1-p.bias-int(p.mantBits))
		cls := classPosSubnormal
		if sign {
			cls = classNegSubnormal
			v.Neg(v)
		}
		return unpacked{sign: sign, class: cls, value: v}
	default:
		mant := mantField | (uint64(1) << p.mantBits)
		e := int(expField) - p.bias
		v := bigFromMantExp(mant, e-int(p.mantBits))
		cls := classPosNormal
		if sign {
			cls = classNegNormal
			v.Neg(v)
		}
		return unpacked{sign: sign, class: cls, value: v}
	}
}

// bigFromMantExp builds the exact value mant * 2^exp at extended
// precision.
func bigFromMantExp(mant uint64, exp int) *big.Float {
	v := new(big.Float).SetPrec(extendedPrec).SetUint64(mant)
	return v.SetMantExp(v, exp)
}

// extendedPrec is the working precision used for intermediate results
// (sums, products, fma accumulation) before a single final rounding to
// the target format; it is generous enough that the extra rounding this
// introduces versus a true infinite-precision computation never affects
// the final rounded result for the add/sub/mul/fma family, which compute
// an exact dyadic value at this width (the widest case, a binary64 fused
// product plus addend, spans under 3,200 bits).
const extendedPrec = 3200

func isNaNClass(c class) bool { return c == classSNaN || c == classQNaN }
func isInfClass(c class) bool { return c == classNegInf || c == classPosInf }
func isZeroClass(c class) bool { return c == classNegZero || c == classPosZero }

func bigMode(rm RoundingMode) big.RoundingMode {
	switch rm {
	case RTZ:
		return big.ToZero
	case RDN:
		return big.ToNegativeInf
	case RUP:
		return big.ToPositiveInf
	case RMM:
		return big.ToNearestAway
	default:
		return big.ToNearestEven
	}
}

// roundToFormat rounds an exact, finite, nonzero value (already computed
// at extendedPrec) to the target format under rm, handling overflow to
// infinity and underflow to subnormal/zero.
func roundToFormat(v *big.Float, p formatParams, rm RoundingMode) (bits uint64, fl Flags) {
	sign := v.Signbit()
	mode := bigMode(rm)

	rounded := new(big.Float).SetPrec(p.mantBits + 1)
	rounded.SetMode(mode)
	rounded.Set(v)
	inexact := rounded.Acc() != big.Exact

	mant, e := mantExpBits(rounded, p)

	if e > p.maxE() {
		fl |= FlagOF | FlagNX
		return overflowBits(sign, p, rm), fl
	}

	if e < p.minNormalE() {
		shift := p.minNormalE() - e
		subPrec := int(p.mantBits) + 1 - shift
		if subPrec < 0 {
			subPrec = 0
		}
		if subPrec == 0 {
			// |v| is below the smallest subnormal: count it in units of that
			// subnormal and round to 0 or 1 under rm; always tiny and inexact.
			units := new(big.Float).SetMantExp(v, int(p.mantBits)-p.minNormalE())
			n, _ := roundToNearestInt(units, sign, rm)
			fl |= FlagUF | FlagNX
			if n.Sign() != 0 {
				return signBit(sign, p) | 1, fl
			}
			return signBit(sign, p), fl
		}
		subRounded := new(big.Float).SetPrec(uint(subPrec)).SetMode(mode).Set(v)
		subInexact := subRounded.Acc() != big.Exact
		if subRounded.Sign() == 0 {
			if subInexact || v.Sign() != 0 {
				fl |= FlagUF | FlagNX
			}
			return signBit(sign, p), fl
		}
		smant, se := mantExpBits(subRounded, p)
		if se >= p.minNormalE() {
			// rounding pushed the subnormal up into the normal range
			if subInexact {
				fl |= FlagNX
			}
			return packBits(sign, se, smant, p), fl
		}
		if subInexact {
			fl |= FlagUF | FlagNX
		}
		return packSubnormalBits(sign, smant, se, p), fl
	}

	if inexact {
		fl |= FlagNX
	}
	return packBits(sign, e, mant, p), fl
}

// mantExpBits extracts the normalized (1.mantissa) integer mantissa and
// unbiased exponent from a rounded big.Float already at the target
// precision.
func mantExpBits(f *big.Float, p formatParams) (mant uint64, e int) {
	if f.Sign() == 0 {
		return 0, 0
	}
	mantF := new(big.Float).SetPrec(f.Prec())
	exp := f.MantExp(mantF) // f = mantF * 2^exp, 0.5 <= |mantF| < 1
	mantF.Abs(mantF)

	// mantF * 2^(mantBits+1) is an integer in [2^mantBits, 2^(mantBits+1)).
	scaled := new(big.Float).SetPrec(f.Prec() + 8).SetMantExp(mantF, int(p.mantBits+1))
	iv, _ := scaled.Int(nil)
	mant = iv.Uint64()
	e = exp - 1
	return mant, e
}

func packBits(sign bool, e int, mant uint64, p formatParams) uint64 {
	field := mant &^ (uint64(1) << p.mantBits) // drop the implicit leading bit
	expField := uint64(e + p.bias)
	return signBit(sign, p) | (expField << p.mantBits) | field
}

func packSubnormalBits(sign bool, mant uint64, e int, p formatParams) uint64 {
	// mant is normalized (has an implicit leading 1 at e == minNormalE-1
	// boundary); shift it down into a denormalized field with expField 0.
	shift := p.minNormalE() - e
	field := mant >> uint(shift)
	if field >= uint64(1)<<p.mantBits {
		return packBits(sign, p.minNormalE(), field, p)
	}
	return signBit(sign, p) | field
}

func signBit(sign bool, p formatParams) uint64 {
	if sign {
		return uint64(1) << (p.mantBits + p.expBits)
	}
	return 0
}

func overflowBits(sign bool, p formatParams, rm RoundingMode) uint64 {
	roundsToInf := rm == RNE || rm == RMM || (rm == RUP && !sign) || (rm == RDN && sign)
	if roundsToInf {
		return signBit(sign, p) | (p.maxExpField() << p.mantBits)
	}
	maxFinite := ((p.maxExpField() - 1) << p.mantBits) | ((uint64(1) << p.mantBits) - 1)
	return signBit(sign, p) | maxFinite
}

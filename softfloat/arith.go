package softfloat

import "math/big"

// AddS computes a+b for single-precision operands.
func AddS(a, b F32, rm RoundingMode) (F32, Flags) {
	r, fl := addSub(uint64(a), uint64(b), false, f32p, rm)
	return F32(r), fl
}

// SubS computes a-b for single-precision operands.
func SubS(a, b F32, rm RoundingMode) (F32, Flags) {
	r, fl := addSub(uint64(a), uint64(b), true, f32p, rm)
	return F32(r), fl
}

// MulS computes a*b for single-precision operands.
func MulS(a, b F32, rm RoundingMode) (F32, Flags) {
	r, fl := mul(uint64(a), uint64(b), f32p, rm)
	return F32(r), fl
}

// DivS computes a/b for single-precision operands.
func DivS(a, b F32, rm RoundingMode) (F32, Flags) {
	r, fl := div(uint64(a), uint64(b), f32p, rm)
	return F32(r), fl
}

// SqrtS computes sqrt(a) for a single-precision operand.
func SqrtS(a F32, rm RoundingMode) (F32, Flags) {
	r, fl := sqrt(uint64(a), f32p, rm)
	return F32(r), fl
}

// FmaS computes (a*b)+c with a single rounding for single-precision
// operands.
func FmaS(a, b, c F32, rm RoundingMode) (F32, Flags) {
	r, fl := fma(uint64(a), uint64(b), uint64(c), f32p, rm)
	return F32(r), fl
}

// AddD/SubD/MulD/DivD/SqrtD/FmaD are the double-precision counterparts.

func AddD(a, b F64, rm RoundingMode) (F64, Flags) {
	r, fl := addSub(uint64(a), uint64(b), false, f64p, rm)
	return F64(r), fl
}

func SubD(a, b F64, rm RoundingMode) (F64, Flags) {
	r, fl := addSub(uint64(a), uint64(b), true, f64p, rm)
	return F64(r), fl
}

func MulD(a, b F64, rm RoundingMode) (F64, Flags) {
	r, fl := mul(uint64(a), uint64(b), f64p, rm)
	return F64(r), fl
}

func DivD(a, b F64, rm RoundingMode) (F64, Flags) {
	r, fl := div(uint64(a), uint64(b), f64p, rm)
	return F64(r), fl
}

func SqrtD(a F64, rm RoundingMode) (F64, Flags) {
	r, fl := sqrt(uint64(a), f64p, rm)
	return F64(r), fl
}

func FmaD(a, b, c F64, rm RoundingMode) (F64, Flags) {
	r, fl := fma(uint64(a), uint64(b), uint64(c), f64p, rm)
	return F64(r), fl
}

func quietNaN(p formatParams) uint64 {
	if p.mantBits == f32p.mantBits {
		return uint64(QNaN32)
	}
	return uint64(QNaN64)
}

func propagateNaN(ua, ub unpacked) (Flags, bool) {
	if isNaNClass(ua.class) || isNaNClass(ub.class) {
		var fl Flags
		if ua.class == classSNaN || ub.class == classSNaN {
			fl = FlagNV
		}
		return fl, true
	}
	return 0, false
}

func addSub(araw, braw uint64, sub bool, p formatParams, rm RoundingMode) (uint64, Flags) {
	ua, ub := unpack(araw, p), unpack(braw, p)
	if fl, isNaN := propagateNaN(ua, ub); isNaN {
		return quietNaN(p), fl
	}

	bSign := ub.sign
	if sub {
		bSign = !bSign
	}

	if isInfClass(ua.class) && isInfClass(ub.class) {
		if ua.sign == bSign {
			return signBit(ua.sign, p) | (p.maxExpField() << p.mantBits), 0
		}
		return quietNaN(p), FlagNV
	}
	if isInfClass(ua.class) {
		return signBit(ua.sign, p) | (p.maxExpField() << p.mantBits), 0
	}
	if isInfClass(ub.class) {
		return signBit(bSign, p) | (p.maxExpField() << p.mantBits), 0
	}

	if isZeroClass(ua.class) && isZeroClass(ub.class) {
		if ua.sign == bSign {
			return signBit(ua.sign, p), 0
		}
		return signBit(rm == RDN, p), 0
	}
	if isZeroClass(ua.class) {
		return packOperand(bSign, ub, p), 0
	}
	if isZeroClass(ub.class) {
		return packOperand(ua.sign, ua, p), 0
	}

	va := valueOf(ua)
	vb := valueOf(ub)
	if bSign != ub.sign {
		vb = new(big.Float).Neg(vb)
	}

	sum := new(big.Float).SetPrec(extendedPrec).Add(va, vb)
	if sum.Sign() == 0 {
		return signBit(rm == RDN, p), 0
	}
	bits, fl := roundToFormat(sum, p, rm)
	return bits, fl
}

func mul(araw, braw uint64, p formatParams, rm RoundingMode) (uint64, Flags) {
	ua, ub := unpack(araw, p), unpack(braw, p)
	if fl, isNaN := propagateNaN(ua, ub); isNaN {
		return quietNaN(p), fl
	}
	sign := ua.sign != ub.sign

	if (isInfClass(ua.class) && isZeroClass(ub.class)) || (isZeroClass(ua.class) && isInfClass(ub.class)) {
		return quietNaN(p), FlagNV
	}
	if isInfClass(ua.class) || isInfClass(ub.class) {
		return signBit(sign, p) | (p.maxExpField() << p.mantBits), 0
	}
	if isZeroClass(ua.class) || isZeroClass(ub.class) {
		return signBit(sign, p), 0
	}

	prod := new(big.Float).SetPrec(extendedPrec).Mul(valueOf(ua), valueOf(ub))
	prod.Abs(prod)
	if sign {
		prod.Neg(prod)
	}
	bits, fl := roundToFormat(prod, p, rm)
	return bits, fl
}

func div(araw, braw uint64, p formatParams, rm RoundingMode) (uint64, Flags) {
	ua, ub := unpack(araw, p), unpack(braw, p)
	if fl, isNaN := propagateNaN(ua, ub); isNaN {
		return quietNaN(p), fl
	}
	sign := ua.sign != ub.sign

	if isInfClass(ua.class) && isInfClass(ub.class) {
		return quietNaN(p), FlagNV
	}
	if isZeroClass(ua.class) && isZeroClass(ub.class) {
		return quietNaN(p), FlagNV
	}
	if isInfClass(ua.class) {
		return signBit(sign, p) | (p.maxExpField() << p.mantBits), 0
	}
	if isInfClass(ub.class) {
		return signBit(sign, p), 0
	}
	if isZeroClass(ub.class) {
		return signBit(sign, p) | (p.maxExpField() << p.mantBits), FlagDZ
	}
	if isZeroClass(ua.class) {
		return signBit(sign, p), 0
	}

	q := new(big.Float).SetPrec(extendedPrec).Quo(valueOf(ua), valueOf(ub))
	q.Abs(q)
	if sign {
		q.Neg(q)
	}
	bits, fl := roundToFormat(q, p, rm)
	return bits, fl
}

func sqrt(araw uint64, p formatParams, rm RoundingMode) (uint64, Flags) {
	ua := unpack(araw, p)
	if isNaNClass(ua.class) {
		var fl Flags
		if ua.class == classSNaN {
			fl = FlagNV
		}
		return quietNaN(p), fl
	}
	if isZeroClass(ua.class) {
		return signBit(ua.sign, p), 0
	}
	if ua.sign && !isZeroClass(ua.class) {
		return quietNaN(p), FlagNV
	}
	if ua.class == classPosInf {
		return p.maxExpField() << p.mantBits, 0
	}

	s := new(big.Float).SetPrec(extendedPrec).Sqrt(valueOf(ua))
	bits, fl := roundToFormat(s, p, rm)
	return bits, fl
}

func fma(araw, braw, craw uint64, p formatParams, rm RoundingMode) (uint64, Flags) {
	ua, ub, uc := unpack(araw, p), unpack(braw, p), unpack(craw, p)

	if isNaNClass(ua.class) || isNaNClass(ub.class) || isNaNClass(uc.class) {
		var fl Flags
		if ua.class == classSNaN || ub.class == classSNaN || uc.class == classSNaN {
			fl = FlagNV
		}
		// inf*0 is invalid even in the presence of a NaN addend.
		if (isInfClass(ua.class) && isZeroClass(ub.class)) || (isZeroClass(ua.class) && isInfClass(ub.class)) {
			fl |= FlagNV
		}
		return quietNaN(p), fl
	}

	prodSign := ua.sign != ub.sign
	prodIsInf := isInfClass(ua.class) || isInfClass(ub.class)
	prodIsZero := isZeroClass(ua.class) || isZeroClass(ub.class)

	if prodIsInf && prodIsZero {
		return quietNaN(p), FlagNV
	}
	if prodIsInf && isInfClass(uc.class) && prodSign != uc.sign {
		return quietNaN(p), FlagNV
	}
	if prodIsInf {
		return signBit(prodSign, p) | (p.maxExpField() << p.mantBits), 0
	}
	if isInfClass(uc.class) {
		return signBit(uc.sign, p) | (p.maxExpField() << p.mantBits), 0
	}

	var prod *big.Float
	if prodIsZero {
		prod = new(big.Float).SetPrec(extendedPrec)
		if prodSign {
			prod.Neg(prod)
		}
	} else {
		prod = new(big.Float).SetPrec(extendedPrec).Mul(valueOf(ua), valueOf(ub))
		prod.Abs(prod)
		if prodSign {
			prod.Neg(prod)
		}
	}

	if isZeroClass(uc.class) {
		if prod.Sign() == 0 {
			if prodSign == uc.sign {
				return signBit(prodSign, p), 0
			}
			return signBit(rm == RDN, p), 0
		}
		bits, fl := roundToFormat(prod, p, rm)
		return bits, fl
	}

	vc := valueOf(uc)
	sum := new(big.Float).SetPrec(extendedPrec).Add(prod, vc)
	if sum.Sign() == 0 {
		return signBit(rm == RDN, p), 0
	}
	bits, fl := roundToFormat(sum, p, rm)
	return bits, fl
}

func valueOf(u unpacked) *big.Float {
	return u.value
}

func packOperand(sign bool, u unpacked, p formatParams) uint64 {
	v := new(big.Float).SetPrec(extendedPrec).Copy(u.value)
	v.Abs(v)
	if sign {
		v.Neg(v)
	}
	bits, _ := roundToFormat(v, p, RNE)
	return bits
}


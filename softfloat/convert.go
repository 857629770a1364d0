package softfloat

import "math/big"

// CvtDToS narrows a double to a single, rounding once under rm.
func CvtDToS(a F64, rm RoundingMode) (F32, Flags) {
	u := unpack(uint64(a), f64p)
	if isNaNClass(u.class) {
		var fl Flags
		if u.class == classSNaN {
			fl = FlagNV
		}
		return F32(quietNaN(f32p)), fl
	}
	if isInfClass(u.class) {
		return F32(signBit(u.sign, f32p) | (f32p.maxExpField() << f32p.mantBits)), 0
	}
	if isZeroClass(u.class) {
		return F32(signBit(u.sign, f32p)), 0
	}
	bits, fl := roundToFormat(u.value, f32p, rm)
	return F32(bits), fl
}

// CvtSToD widens a single to a double; this is always exact, so it never
// raises a flag other than propagating a signaling NaN's NV.
func CvtSToD(a F32) (F64, Flags) {
	u := unpack(uint64(a), f32p)
	if isNaNClass(u.class) {
		var fl Flags
		if u.class == classSNaN {
			fl = FlagNV
		}
		return F64(quietNaN(f64p)), fl
	}
	if isInfClass(u.class) {
		return F64(signBit(u.sign, f64p) | (f64p.maxExpField() << f64p.mantBits)), 0
	}
	if isZeroClass(u.class) {
		return F64(signBit(u.sign, f64p)), 0
	}
	bits, fl := roundToFormat(u.value, f64p, RNE) // widening is exact; rm is irrelevant
	return F64(bits), fl
}

// CvtSToW/CvtSToWU/CvtDToW/CvtDToWU convert to a signed/unsigned 32-bit
// integer, saturating and raising NV when the value is out of range, NaN,
// or infinite (per the RISC-V fcvt semantics, which never trap).
func CvtSToW(a F32, rm RoundingMode) (int32, Flags)   { return floatToInt(uint64(a), f32p, rm, true) }
func CvtSToWU(a F32, rm RoundingMode) (uint32, Flags) { r, fl := floatToInt(uint64(a), f32p, rm, false); return uint32(r), fl }
func CvtDToW(a F64, rm RoundingMode) (int32, Flags)   { return floatToInt(uint64(a), f64p, rm, true) }
func CvtDToWU(a F64, rm RoundingMode) (uint32, Flags) { r, fl := floatToInt(uint64(a), f64p, rm, false); return uint32(r), fl }

// roundToNearestInt rounds the exact value v (whose sign matches sign) to
// the nearest integer under rm, returning the signed result and whether
// the rounding was inexact. Unlike float-to-float rounding, this rounds
// at a fixed digit boundary (the units place), not to N significant
// bits, so it cannot be expressed via big.Float's precision-based
// rounding and is done by hand: truncate toward zero, then adjust by one
// based on the fractional remainder and rounding mode.
func roundToNearestInt(v *big.Float, sign bool, rm RoundingMode) (*big.Int, bool) {
	absVal := new(big.Float).SetPrec(v.Prec()).Abs(v)
	truncInt, _ := absVal.Int(nil)
	frac := new(big.Float).SetPrec(v.Prec()).SetInt(truncInt)
	frac.Sub(absVal, frac)
	inexact := frac.Sign() != 0

	if inexact {
		half := new(big.Float).SetPrec(v.Prec()).SetFloat64(0.5)
		cmpHalf := frac.Cmp(half)
		roundUp := false
		switch rm {
		case RTZ:
			roundUp = false
		case RDN:
			roundUp = sign
		case RUP:
			roundUp = !sign
		case RMM:
			roundUp = cmpHalf >= 0
		default: // RNE
			roundUp = cmpHalf > 0 || (cmpHalf == 0 && truncInt.Bit(0) == 1)
		}
		if roundUp {
			truncInt.Add(truncInt, big.NewInt(1))
		}
	}

	if sign && truncInt.Sign() != 0 {
		truncInt.Neg(truncInt)
	}
	return truncInt, inexact
}

func floatToInt(araw uint64, p formatParams, rm RoundingMode, signed bool) (int32, Flags) {
	u := unpack(araw, p)

	if isNaNClass(u.class) {
		if signed {
			return 0x7fffffff, FlagNV
		}
		return -1, FlagNV
	}
	if isZeroClass(u.class) {
		return 0, 0
	}
	if isInfClass(u.class) {
		if u.sign {
			if signed {
				return -0x80000000, FlagNV
			}
			return 0, FlagNV
		}
		if signed {
			return 0x7fffffff, FlagNV
		}
		return -1, FlagNV
	}

	iv, inexact := roundToNearestInt(u.value, u.sign, rm)

	if signed {
		if !iv.IsInt64() {
			if u.sign {
				return -0x80000000, FlagNV
			}
			return 0x7fffffff, FlagNV
		}
		v := iv.Int64()
		if v < -0x80000000 || v > 0x7fffffff {
			if u.sign {
				return -0x80000000, FlagNV
			}
			return 0x7fffffff, FlagNV
		}
		var fl Flags
		if inexact {
			fl = FlagNX
		}
		return int32(v), fl
	}

	if u.sign {
		// A negative value that rounds to zero gives 0 and is only
		// inexact; any other negative value is out of range.
		if iv.Sign() == 0 {
			return 0, FlagNX
		}
		return 0, FlagNV
	}
	if !iv.IsUint64() {
		return -1, FlagNV
	}
	v := iv.Uint64()
	if v > 0xffffffff {
		return -1, FlagNV
	}
	var fl Flags
	if inexact {
		fl = FlagNX
	}
	return int32(uint32(v)), fl
}

// CvtWToS/CvtWUToS/CvtWToD/CvtWUToD convert an integer to float. The W->D
// and WU->D directions are always exact.
func CvtWToS(a int32, rm RoundingMode) (F32, Flags) {
	v := new(big.Float).SetPrec(extendedPrec).SetInt64(int64(a))
	bits, fl := intToFloat(v, f32p, rm)
	return F32(bits), fl
}

func CvtWUToS(a uint32, rm RoundingMode) (F32, Flags) {
	v := new(big.Float).SetPrec(extendedPrec).SetUint64(uint64(a))
	bits, fl := intToFloat(v, f32p, rm)
	return F32(bits), fl
}

func CvtWToD(a int32) (F64, Flags) {
	v := new(big.Float).SetPrec(extendedPrec).SetInt64(int64(a))
	bits, fl := intToFloat(v, f64p, RNE)
	return F64(bits), fl
}

func CvtWUToD(a uint32) (F64, Flags) {
	v := new(big.Float).SetPrec(extendedPrec).SetUint64(uint64(a))
	bits, fl := intToFloat(v, f64p, RNE)
	return F64(bits), fl
}

func intToFloat(v *big.Float, p formatParams, rm RoundingMode) (uint64, Flags) {
	if v.Sign() == 0 {
		return 0, 0
	}
	sign := v.Sign() < 0
	if sign {
		v = new(big.Float).Neg(v)
	}
	bits, fl := roundToFormat(v, p, rm)
	if sign {
		bits |= signBit(true, p)
	}
	return bits, fl
}

package softfloat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCvtDToSAndBackRoundTripsExactValues(t *testing.T) {
	wide, _ := CvtSToD(s(2.5))
	require.Equal(t, 2.5, toF64(wide))

	narrow, fl := CvtDToS(wide, RNE)
	require.Equal(t, float32(2.5), toF32(narrow))
	require.Equal(t, Flags(0), fl)
}

func TestCvtDToSNarrowingOfOutOfRangeDoubleOverflows(t *testing.T) {
	huge := d(1e300)
	r, fl := CvtDToS(huge, RNE)
	require.True(t, math.IsInf(float64(toF32(r)), 1))
	require.NotEqual(t, Flags(0), fl&FlagOF)
}

func TestCvtSToDPropagatesSignalingNaNAsInvalid(t *testing.T) {
	sNaN := F32(0x7fa00000) // exponent all-ones, MSB of mantissa clear: signaling
	_, fl := CvtSToD(sNaN)
	require.Equal(t, FlagNV, fl)
}

func TestCvtSToWRoundsToNearestEven(t *testing.T) {
	v, fl := CvtSToW(s(-3.7), RNE)
	require.Equal(t, int32(-4), v)
	require.Equal(t, FlagNX, fl)
}

func TestCvtSToWExactValueSetsNoFlags(t *testing.T) {
	v, fl := CvtSToW(s(4), RNE)
	require.Equal(t, int32(4), v)
	require.Equal(t, Flags(0), fl)
}

func TestCvtSToWSaturatesOnOverflow(t *testing.T) {
	v, fl := CvtSToW(s(1e20), RNE)
	require.Equal(t, int32(0x7fffffff), v)
	require.Equal(t, FlagNV, fl)
}

func TestCvtSToWOfNegativeInfinitySaturatesToIntMin(t *testing.T) {
	v, fl := CvtSToW(s(float32(math.Inf(-1))), RNE)
	require.Equal(t, int32(-0x80000000), v)
	require.Equal(t, FlagNV, fl)
}

func TestCvtSToWOfNaNSaturatesToIntMax(t *testing.T) {
	v, fl := CvtSToW(s(float32(math.NaN())), RNE)
	require.Equal(t, int32(0x7fffffff), v)
	require.Equal(t, FlagNV, fl)
}

func TestCvtSToWUOfNegativeValueRoundingToZeroIsOnlyInexact(t *testing.T) {
	v, fl := CvtSToWU(s(-0.4), RNE)
	require.Equal(t, uint32(0), v)
	require.Equal(t, FlagNX, fl)
}

func TestCvtSToWURoundsFractional(t *testing.T) {
	v, fl := CvtSToWU(s(3.5), RNE) // ties to even: 3.5 -> 4
	require.Equal(t, uint32(4), v)
	require.Equal(t, FlagNX, fl)
}

func TestCvtDToWRoundingModes(t *testing.T) {
	vRtz, _ := CvtDToW(d(-3.7), RTZ)
	require.Equal(t, int32(-3), vRtz)

	vRdn, _ := CvtDToW(d(-3.2), RDN)
	require.Equal(t, int32(-4), vRdn)

	vRup, _ := CvtDToW(d(3.2), RUP)
	require.Equal(t, int32(4), vRup)
}

func TestCvtWToSExact(t *testing.T) {
	r, fl := CvtWToS(-4, RNE)
	require.Equal(t, float32(-4), toF32(r))
	require.Equal(t, Flags(0), fl)
}

func TestCvtWUToSOfMaxUint32IsInexactAtSinglePrecision(t *testing.T) {
	r, fl := CvtWUToS(0xffffffff, RNE)
	require.Equal(t, float32(4294967295), toF32(r))
	require.NotEqual(t, Flags(0), fl&FlagNX, "2^32-1 needs 32 significant bits, more than float32 has")
}

func TestCvtWToDIsAlwaysExact(t *testing.T) {
	r, fl := CvtWToD(-1234567)
	require.Equal(t, float64(-1234567), toF64(r))
	require.Equal(t, Flags(0), fl)
}

func TestCvtWUToDOfZero(t *testing.T) {
	r, fl := CvtWUToD(0)
	require.Equal(t, float64(0), toF64(r))
	require.Equal(t, Flags(0), fl)
}

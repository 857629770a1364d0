package riscv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadXZeroIsAlwaysZero(t *testing.T) {
	cpu := NewCpuState(0x1000)
	cpu.X[0] = 0xdeadbeef // poke directly, bypassing WriteX's guard
	require.Equal(t, uint32(0), cpu.ReadX(0))
}

func TestWriteXZeroIsDiscarded(t *testing.T) {
	cpu := NewCpuState(0)
	cpu.WriteX(0, 0x12345678)
	require.Equal(t, uint32(0), cpu.X[0])
}

func TestWriteXReadX(t *testing.T) {
	cpu := NewCpuState(0)
	cpu.WriteX(5, 42)
	require.Equal(t, uint32(42), cpu.ReadX(5))
}

func TestNaNBoxingRoundTrip(t *testing.T) {
	cpu := NewCpuState(0)
	cpu.WriteSingle(1, 0x3f800000) // 1.0f
	require.Equal(t, uint32(0x3f800000), cpu.ReadSingle(1))
	require.Equal(t, uint64(0xffffffff3f800000), cpu.ReadDouble(1))
}

func TestNaNBoxingCorruptedBoxReadsAsCanonicalQNaN(t *testing.T) {
	cpu := NewCpuState(0)
	cpu.WriteDouble(1, 0x1111111100000000) // upper half not all-ones: not a valid box
	require.Equal(t, uint32(QNaNSingle), cpu.ReadSingle(1))
}

func TestFcsrFrmFflagsPacking(t *testing.T) {
	cpu := NewCpuState(0)
	cpu.SetFrm(5)
	cpu.SetFflags(0x1f)
	require.Equal(t, uint8(5), cpu.Frm())
	require.Equal(t, uint8(0x1f), cpu.Fflags())

	cpu.SetFrm(2)
	require.Equal(t, uint8(0x1f), cpu.Fflags(), "setting frm must not disturb fflags")
}

func TestOrFflagsIsStickyAndAdditive(t *testing.T) {
	cpu := NewCpuState(0)
	cpu.OrFflags(0x01)
	cpu.OrFflags(0x02)
	require.Equal(t, uint8(0x03), cpu.Fflags())
}

func TestReservationLifecycle(t *testing.T) {
	cpu := NewCpuState(0)
	require.False(t, cpu.ReservationValid)

	cpu.SetReservation(0x2000)
	require.True(t, cpu.ReservationValid)
	require.Equal(t, uint32(0x2000), cpu.ReservationAddr)

	cpu.InvalidateReservation(0x3000) // different address: no effect
	require.True(t, cpu.ReservationValid)

	cpu.InvalidateReservation(0x2000) // matching address: clears it
	require.False(t, cpu.ReservationValid)
}

func TestExtensionsInstAlign(t *testing.T) {
	require.Equal(t, uint32(4), Extensions(0).InstAlign())
	require.Equal(t, uint32(2), ExtC.InstAlign())
	require.True(t, ExtC.HasC())
	require.False(t, ExtC.HasFD())
	require.True(t, (ExtC | ExtFD).HasFD())
}

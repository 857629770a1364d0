package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlatStoreLoadRoundTrip(t *testing.T) {
	m := NewFlat(16)
	require.True(t, m.Store(4, 4, 0xdeadbeef))
	v, ok := m.Load(4, 4)
	require.True(t, ok)
	require.Equal(t, uint32(0xdeadbeef), v)
}

func TestFlatIsLittleEndian(t *testing.T) {
	m := NewFlat(16)
	m.Store(0, 4, 0x01020304)
	require.Equal(t, byte(0x04), m.Data[0])
	require.Equal(t, byte(0x03), m.Data[1])
	require.Equal(t, byte(0x02), m.Data[2])
	require.Equal(t, byte(0x01), m.Data[3])
}

func TestFlatLoadOutOfBoundsFails(t *testing.T) {
	m := NewFlat(4)
	_, ok := m.Load(2, 4)
	require.False(t, ok)
}

func TestFlatStoreOutOfBoundsFailsWithoutPartialWrite(t *testing.T) {
	m := NewFlat(4)
	m.Store(0, 4, 0x11111111)
	ok := m.Store(2, 4, 0x22222222)
	require.False(t, ok)
	v, _ := m.Load(0, 4)
	require.Equal(t, uint32(0x11111111), v, "a rejected store leaves prior contents untouched")
}

func TestFlatFetchReadsHalfword(t *testing.T) {
	m := NewFlat(4)
	m.Store(0, 2, 0xbeef)
	v, ok := m.Fetch(0)
	require.True(t, ok)
	require.Equal(t, uint16(0xbeef), v)
}

func TestFlatFetchAtLastValidHalfwordSucceeds(t *testing.T) {
	m := NewFlat(4)
	_, ok := m.Fetch(2)
	require.True(t, ok)
}

func TestFlatFetchPastEndFails(t *testing.T) {
	m := NewFlat(4)
	_, ok := m.Fetch(3)
	require.False(t, ok)
}

func TestFlatZeroSizedMemoryRejectsEverything(t *testing.T) {
	m := NewFlat(0)
	_, ok := m.Fetch(0)
	require.False(t, ok)
	_, ok = m.Load(0, 1)
	require.False(t, ok)
	require.False(t, m.Store(0, 1, 0))
}

func TestFlatNarrowWidths(t *testing.T) {
	m := NewFlat(4)
	m.Store(0, 1, 0xff)
	v, _ := m.Load(0, 1)
	require.Equal(t, uint32(0xff), v)

	m.Store(0, 2, 0xabcd)
	v2, _ := m.Load(0, 2)
	require.Equal(t, uint32(0xabcd), v2)
}

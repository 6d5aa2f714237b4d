package keeper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaturatingAdd(t *testing.T) {
	require.Equal(t, uint8(math.MaxUint8), saturatingAdd(uint8(250), uint8(10)))
	require.Equal(t, uint16(7), saturatingAdd(uint16(3), uint16(4)))
	require.Equal(t, uint32(math.MaxUint32), saturatingAdd(uint32(math.MaxUint32), uint32(1)))
	require.Equal(t, uint64(math.MaxUint64), saturatingAdd(uint64(math.MaxUint64-1), uint64(2)))
	require.Equal(t, uint64(math.MaxUint64), saturatingAdd(uint64(math.MaxUint64), uint64(0)))
}

func TestAddUint64Checked(t *testing.T) {
	v, err := addUint64Checked(1, 2, "x")
	require.NoError(t, err)
	require.Equal(t, uint64(3), v)

	_, err = addUint64Checked(math.MaxUint64, 1, "tournament_count")
	require.ErrorContains(t, err, "tournament_count overflows uint64")
}

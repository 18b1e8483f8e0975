package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	for _, size := range []int{0, 1, 16, 32} {
		s, err := MakeRandHexString(size)
		require.NoError(t, err)
		assert.Len(t, s, size*2)

		_, err = hex.DecodeString(s)
		assert.NoError(t, err, "must be valid hex")
	}
}

func TestMakeRandHexString_Differs(t *testing.T) {
	a, err := MakeRandHexString(32)
	require.NoError(t, err)
	b, err := MakeRandHexString(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("hunter2")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 7), buf)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnlockCode(t *testing.T) {
	code, err := GenerateUnlockCode(10)
	require.NoError(t, err)
	assert.Len(t, code, 10)
	assert.True(t, IsUnlockCode(code), "code %q has unexpected characters", code)
}

func TestGenerateUnlockCode_RaisesShortLengths(t *testing.T) {
	code, err := GenerateUnlockCode(4)
	require.NoError(t, err)
	assert.Len(t, code, MinUnlockCodeLength)
}

func TestGenerateUnlockCode_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := GenerateUnlockCode(MinUnlockCodeLength)
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %q", code)
		seen[code] = struct{}{}
	}
}

func TestIsUnlockCode(t *testing.T) {
	assert.True(t, IsUnlockCode("ABCD1234"))
	assert.False(t, IsUnlockCode("abcd1234"))
	assert.False(t, IsUnlockCode("ABC-1234"))
	assert.False(t, IsUnlockCode("ABC123"))
}

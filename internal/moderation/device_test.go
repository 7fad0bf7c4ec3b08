package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeviceHasherRequiresSecret(t *testing.T) {
	_, err := NewDeviceHasher("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestDeviceHashDeterministic(t *testing.T) {
	hasher, err := NewDeviceHasher("test-secret")
	require.NoError(t, err)

	first := hasher.Hash("203.0.113.7|Mozilla/5.0")
	second := hasher.Hash("203.0.113.7|Mozilla/5.0")
	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded sha256
}

func TestDeviceHashDistinctInputs(t *testing.T) {
	hasher, err := NewDeviceHasher("test-secret")
	require.NoError(t, err)

	assert.NotEqual(t, hasher.Hash("device-a"), hasher.Hash("device-b"))
}

func TestDeviceHashDependsOnSecret(t *testing.T) {
	first, err := NewDeviceHasher("secret-one")
	require.NoError(t, err)
	second, err := NewDeviceHasher("secret-two")
	require.NoError(t, err)

	assert.NotEqual(t, first.Hash("same-device"), second.Hash("same-device"))
}

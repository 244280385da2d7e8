package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPin(t *testing.T) {
	hash, err := HashPin("4821")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPin(hash, "4821"))
	assert.False(t, VerifyPin(hash, "4822"))
	assert.False(t, VerifyPin(hash, ""))
}

func TestVerifyPin_GarbageHash(t *testing.T) {
	assert.False(t, VerifyPin("not-a-bcrypt-hash", "4821"))
}

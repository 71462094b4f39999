package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Str0ng!Passw0rd12")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Passw0rd12", hash)

	assert.True(t, hasher.Verify("Str0ng!Passw0rd12", hash))
	assert.False(t, hasher.Verify("Str0ng!Passw0rd13", hash))
	assert.False(t, hasher.Verify("Str0ng!Passw0rd12", "not-a-hash"))
}

func TestPasswordHasherSalts(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Str0ng!Passw0rd12")
	require.NoError(t, err)
	second, err := hasher.Hash("Str0ng!Passw0rd12")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewPasswordHasherCost(t *testing.T) {
	assert.Equal(t, 10, NewPasswordHasher(10).cost)
	assert.Equal(t, DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("pw123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "pw123", hash)
	assert.True(t, hasher.Check("pw123", hash))
	assert.False(t, hasher.Check("pw124", hash))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewBcryptHasher()

	first, err := hasher.Hash("pw123")
	require.NoError(t, err)
	second, err := hasher.Hash("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("pw123", first))
	assert.True(t, hasher.Check("pw123", second))
}

func TestBcryptHasher_CheckRejectsGarbageHash(t *testing.T) {
	hasher := NewBcryptHasher()

	assert.False(t, hasher.Check("pw123", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Check("pw123", ""))
}

func TestNewBcryptHasherWithCost(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("pw123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestNewBcryptHasherWithCost_ClampsInvalidCost(t *testing.T) {
	hasher := NewBcryptHasherWithCost(-1)

	hash, err := hasher.Hash("pw123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

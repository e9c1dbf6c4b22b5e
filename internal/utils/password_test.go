package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("burger-secret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "burger-secret", hash)

	assert.True(t, VerifyPassword(hash, "burger-secret"))
	assert.False(t, VerifyPassword(hash, "wrong-secret"))
	assert.False(t, VerifyPassword("not-a-hash", "burger-secret"))
}

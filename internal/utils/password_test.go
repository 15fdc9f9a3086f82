package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, VerifyPassword(hash, "s3cret!"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestVerifyPasswordEmptyHash(t *testing.T) {
	// Customer rows created by staff carry no credentials; login against
	// them must always fail instead of panicking on an empty hash.
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("", ""))
}

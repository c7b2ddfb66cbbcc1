package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptEncoder(t *testing.T) {
	t.Parallel()

	encoder := NewBcryptEncoder(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	hash, err := encoder.Encode("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, verifier.Compare(hash, "correct horse battery"))
	assert.Error(t, verifier.Compare(hash, "wrong password"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestNewBcryptEncoderClampsCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptEncoder(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptEncoder(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptEncoder(12).cost)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	controller := NewJWTToken(&Config{SigningKey: "test-signing-key"})

	token, err := controller.CreateToken(TokenObject{UserID: 7, Role: "customer"})
	require.NoError(t, err)

	user, err := controller.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.UserID)
	assert.Equal(t, "customer", user.Role)
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	minted := NewJWTToken(&Config{SigningKey: "key-one"})
	verifier := NewJWTToken(&Config{SigningKey: "key-two"})

	token, err := minted.CreateToken(TokenObject{UserID: 7, Role: "customer"})
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

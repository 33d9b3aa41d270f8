package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	storeID := 3
	token, err := GenerateJWT(&Claims{
		UserID:   42,
		Username: "clerk",
		Email:    "clerk@store.test",
		Role:     "stock_handler",
		StoreID:  &storeID,
	}, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "clerk", claims.Username)
	require.NotNil(t, claims.StoreID)
	assert.Equal(t, 3, *claims.StoreID)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(&Claims{UserID: 1}, "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := GenerateJWT(&Claims{UserID: 1}, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "test-secret")
	assert.Error(t, err)
}

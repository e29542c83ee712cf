package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePlayerName(t *testing.T) {
	assert.NoError(t, ValidatePlayerName("ada_99"))
	assert.Error(t, ValidatePlayerName("ab"))
	assert.Error(t, ValidatePlayerName("has space"))
	assert.Error(t, ValidatePlayerName(string(make([]byte, 51))))
}

func TestPIN(t *testing.T) {
	require.Error(t, ValidatePIN("123"))
	require.NoError(t, ValidatePIN("1234"))

	hash, err := HashPIN("1234")
	require.NoError(t, err)
	assert.NoError(t, CheckPIN("1234", hash))
	assert.ErrorIs(t, CheckPIN("4321", hash), ErrWrongPIN)
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	signed, err := tokens.Issue("ada")
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Player)
	assert.Equal(t, "ada", claims.Subject)
}

func TestTokensRejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, err := tokens.Issue("ada")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokens("other", time.Hour).Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokens("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, PlayerClaims{Player: "ada"})
		s, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

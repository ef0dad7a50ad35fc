package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")

	token, expires, err := auth.GenerateToken(time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.AdminSubject, claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestExpiredAndForeignTokensRejected(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")

	expired, _, err := auth.GenerateToken(-time.Minute)
	require.NoError(t, err)
	_, err = auth.ValidateToken(expired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": "admin", "iss": "agromart"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.ValidateToken(unsigned)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = auth.ValidateToken("garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestCheckAdminPassword(t *testing.T) {
	config.Set("ADMIN_PASSWORD_HASH", "")
	config.Set("ADMIN_PASSWORD", "")
	assert.False(t, auth.CheckAdminPassword("anything"))

	config.Set("ADMIN_PASSWORD", "s3cret")
	assert.True(t, auth.CheckAdminPassword("s3cret"))
	assert.False(t, auth.CheckAdminPassword("s3cre"))
	assert.False(t, auth.CheckAdminPassword(""))

	hash, err := auth.HashPassword("hashed-pass")
	require.NoError(t, err)
	config.Set("ADMIN_PASSWORD_HASH", hash)
	defer config.Set("ADMIN_PASSWORD_HASH", "")

	assert.True(t, auth.CheckAdminPassword("hashed-pass"))
	assert.False(t, auth.CheckAdminPassword("s3cret"))
}

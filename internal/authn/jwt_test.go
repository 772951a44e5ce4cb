package authn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rollcall/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "rollcall-test", time.Hour)

func Test_GenerateAccessToken(t *testing.T) {
	token, claims, err := jwtService.GenerateAccessToken("EMP001", []string{"EMPLOYEE"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, claims.ID)

	parsed, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", parsed.EmployeeID)
	assert.Equal(t, []string{"EMPLOYEE"}, parsed.Roles)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	expired := NewJWTService("test-signing-key", "rollcall-test", -time.Hour)
	token, _, err := expired.GenerateAccessToken("EMP001", nil)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "token has expired", dErrors.DescriptionOf(err))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("another-signing-key", "rollcall-test", time.Hour)
	token, _, err := other.GenerateAccessToken("EMP001", nil)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_MiddlewareAdapter(t *testing.T) {
	token, claims, err := jwtService.GenerateAccessToken("EMP002", []string{"ADMIN"})
	require.NoError(t, err)

	adapted, err := NewMiddlewareAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "EMP002", adapted.EmployeeID)
	assert.Equal(t, []string{"ADMIN"}, adapted.Roles)
	assert.Equal(t, claims.ID, adapted.JTI)
}

package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret-123", "roleauth", "roleauth", time.Hour)

	token, err := svc.Generate(42, "alice", []string{"User", "Admin"})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"User", "Admin"}, claims.Roles)
	assert.NotEmpty(t, claims.ID)

	userID, err := claims.UserID()
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuing := New("secret-a", "roleauth", "roleauth", time.Hour)
	verifying := New("secret-b", "roleauth", "roleauth", time.Hour)

	token, err := issuing.Generate(1, "alice", []string{"User"})
	assert.NoError(t, err)

	_, err = verifying.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc := New("test-secret-123", "roleauth", "roleauth", -time.Minute)

	token, err := svc.Generate(1, "alice", []string{"User"})
	assert.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongIssuer(t *testing.T) {
	issuing := New("test-secret-123", "someone-else", "roleauth", time.Hour)
	verifying := New("test-secret-123", "roleauth", "roleauth", time.Hour)

	token, err := issuing.Generate(1, "alice", nil)
	assert.NoError(t, err)

	_, err = verifying.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerate_UniqueJTI(t *testing.T) {
	svc := New("test-secret-123", "roleauth", "roleauth", time.Hour)

	first, err := svc.Generate(1, "alice", nil)
	assert.NoError(t, err)
	second, err := svc.Generate(1, "alice", nil)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	c1, err := svc.Validate(first)
	assert.NoError(t, err)
	c2, err := svc.Validate(second)
	assert.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestNewRefreshToken(t *testing.T) {
	first, err := NewRefreshToken()
	assert.NoError(t, err)
	second, err := NewRefreshToken()
	assert.NoError(t, err)

	// 32 random bytes, hex encoded
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("tok", "pepper"), HashToken("tok", "pepper"))
	assert.NotEqual(t, HashToken("tok", "pepper"), HashToken("tok", "other"))
	assert.NotEqual(t, HashToken("tok", "pepper"), HashToken("other", "pepper"))
	assert.Len(t, HashToken("tok", "pepper"), 64)
}

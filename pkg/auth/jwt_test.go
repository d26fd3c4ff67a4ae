package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_Generate(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour)

	token, err := manager.Generate("render-client-1", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestJWTManager_Verify_ValidToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour)

	token, err := manager.Generate("render-client-1", "admin")
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "render-client-1", claims.ClientID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "render-client-1", claims.Subject)
}

func TestJWTManager_Verify_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Millisecond)

	token, err := manager.Generate("render-client-1", "admin")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_Verify_InvalidToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour)

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := manager.Verify(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestJWTManager_Verify_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour)
	other := NewJWTManager("different-secret", time.Hour)

	token, err := manager.Generate("render-client-1", "admin")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_Refresh(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour)

	token, err := manager.Generate("render-client-1", "operator")
	require.NoError(t, err)

	refreshed, err := manager.Refresh(token)
	require.NoError(t, err)

	claims, err := manager.Verify(refreshed)
	require.NoError(t, err)
	assert.Equal(t, "render-client-1", claims.ClientID)
	assert.Equal(t, "operator", claims.Role)
}

func TestJWTManager_Refresh_InvalidToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour)

	_, err := manager.Refresh("garbage")
	assert.Error(t, err)
}

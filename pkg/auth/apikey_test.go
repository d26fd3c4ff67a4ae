package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyManager_Generate(t *testing.T) {
	manager := NewAPIKeyManager()

	apiKey, err := manager.Generate("render-client-1", "ci pipeline", nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(apiKey.Key, "mk_"), "key %q missing prefix", apiKey.Key)
	assert.Equal(t, "render-client-1", apiKey.ClientID)
	assert.Equal(t, "ci pipeline", apiKey.Label)
	assert.False(t, apiKey.Revoked)
	assert.Nil(t, apiKey.ExpiresAt)
}

func TestAPIKeyManager_Verify_ValidKey(t *testing.T) {
	manager := NewAPIKeyManager()

	apiKey, err := manager.Generate("render-client-1", "ci pipeline", nil)
	require.NoError(t, err)

	verified, err := manager.Verify(apiKey.Key)
	require.NoError(t, err)
	assert.Equal(t, "render-client-1", verified.ClientID)
}

func TestAPIKeyManager_Verify_UnknownKey(t *testing.T) {
	manager := NewAPIKeyManager()

	_, err := manager.Verify("mk_never_issued")
	assert.Error(t, err)
}

func TestAPIKeyManager_Verify_RevokedKey(t *testing.T) {
	manager := NewAPIKeyManager()

	apiKey, err := manager.Generate("render-client-1", "ci pipeline", nil)
	require.NoError(t, err)

	require.NoError(t, manager.Revoke(apiKey.Key))

	_, err = manager.Verify(apiKey.Key)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}

func TestAPIKeyManager_Verify_ExpiredKey(t *testing.T) {
	manager := NewAPIKeyManager()

	past := time.Now().Add(-time.Minute)
	apiKey, err := manager.Generate("render-client-1", "ci pipeline", &past)
	require.NoError(t, err)

	_, err = manager.Verify(apiKey.Key)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestAPIKeyManager_Revoke_NotFound(t *testing.T) {
	manager := NewAPIKeyManager()

	assert.Error(t, manager.Revoke("mk_never_issued"))
}

func TestAPIKeyManager_Add(t *testing.T) {
	manager := NewAPIKeyManager()

	require.NoError(t, manager.Add("operator-chosen-secret", "batch-client"))

	verified, err := manager.Verify("operator-chosen-secret")
	require.NoError(t, err)
	assert.Equal(t, "batch-client", verified.ClientID)
	assert.Equal(t, "preconfigured", verified.Label)
}

func TestAPIKeyManager_Add_Rejects(t *testing.T) {
	manager := NewAPIKeyManager()

	assert.Error(t, manager.Add("", "batch-client"), "empty key")

	require.NoError(t, manager.Add("dup-key", "a"))
	assert.Error(t, manager.Add("dup-key", "b"), "duplicate key")
}

func TestRedact(t *testing.T) {
	redacted := Redact("mk_abcdefghij")

	assert.Equal(t, "mk_abcd****", redacted)
	assert.NotContains(t, redacted, "efghij")

	assert.Equal(t, "mk_****", Redact("mk_ab"))
}

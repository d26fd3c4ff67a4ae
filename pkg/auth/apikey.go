package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"
)

// keyPrefix marks keys issued by this service so truncated or foreign
// secrets fail fast
const keyPrefix = "mk_"

// APIKey is a pre-shared render submission key
type APIKey struct {
	Key       string     `json:"key"`
	ClientID  string     `json:"client_id"`
	Label     string     `json:"label"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Revoked   bool       `json:"revoked"`
}

// APIKeyManager holds the keys accepted for render submission
type APIKeyManager struct {
	mu   sync.RWMutex
	keys map[string]*APIKey
}

// NewAPIKeyManager creates an empty key manager
func NewAPIKeyManager() *APIKeyManager {
	return &APIKeyManager{
		keys: make(map[string]*APIKey),
	}
}

// Add registers a preconfigured key, as supplied on the command line at
// startup. The key keeps whatever form the operator chose.
func (m *APIKeyManager) Add(key, clientID string) error {
	if key == "" {
		return fmt.Errorf("empty API key")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.keys[key]; exists {
		return fmt.Errorf("API key already registered")
	}

	m.keys[key] = &APIKey{
		Key:       key,
		ClientID:  clientID,
		Label:     "preconfigured",
		CreatedAt: time.Now(),
	}
	return nil
}

// Generate mints a new random key for a client
func (m *APIKeyManager) Generate(clientID, label string, expiresAt *time.Time) (*APIKey, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate random key: %w", err)
	}

	apiKey := &APIKey{
		Key:       keyPrefix + base64.RawURLEncoding.EncodeToString(raw),
		ClientID:  clientID,
		Label:     label,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}

	m.mu.Lock()
	m.keys[apiKey.Key] = apiKey
	m.mu.Unlock()

	return apiKey, nil
}

// Verify checks a presented key and returns its record when accepted
func (m *APIKeyManager) Verify(key string) (*APIKey, error) {
	m.mu.RLock()
	apiKey, exists := m.keys[key]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("invalid API key")
	}

	if apiKey.Revoked {
		return nil, fmt.Errorf("API key has been revoked")
	}

	if apiKey.ExpiresAt != nil && time.Now().After(*apiKey.ExpiresAt) {
		return nil, fmt.Errorf("API key has expired")
	}

	return apiKey, nil
}

// Revoke invalidates a key without forgetting it, so a revoked key is
// reported as revoked rather than unknown
func (m *APIKeyManager) Revoke(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	apiKey, exists := m.keys[key]
	if !exists {
		return fmt.Errorf("API key not found")
	}

	apiKey.Revoked = true
	return nil
}

// Redact returns a loggable form of a key, keeping the prefix and the
// first few characters
func Redact(key string) string {
	trimmed := strings.TrimPrefix(key, keyPrefix)
	if len(trimmed) <= 4 {
		return keyPrefix + "****"
	}
	return keyPrefix + trimmed[:4] + "****"
}

package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/99designs/keyring"
)

const serviceName = "commitsugar"

type KeyringService struct {
	open func() (keyring.Keyring, error)
	mu   sync.Mutex
	ring keyring.Keyring
}

func NewKeyringService() *KeyringService {
	return &KeyringService{
		open: func() (keyring.Keyring, error) {
			return keyring.Open(keyring.Config{
				ServiceName:              serviceName,
				KeychainTrustApplication: true,
				LibSecretCollectionName:  serviceName,
				FileDir:                  "~/.config/" + serviceName + "/keys",
			})
		},
	}
}

// NewKeyringServiceWith wraps an already opened keyring, e.g. keyring.NewArrayKeyring in tests.
func NewKeyringServiceWith(ring keyring.Keyring) *KeyringService {
	return &KeyringService{ring: ring}
}

func (s *KeyringService) Startup() {
	if _, err := s.keyring(); err != nil {
		fmt.Println("Error opening keyring:", err)
	}
}

func (s *KeyringService) keyring() (keyring.Keyring, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ring != nil {
		return s.ring, nil
	}
	if s.open == nil {
		return nil, errors.New("keyring not configured")
	}
	ring, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	s.ring = ring
	return ring, nil
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}
	ring, err := s.keyring()
	if err != nil {
		return err
	}
	return ring.Set(keyring.Item{
		Key:         provider,
		Data:        apiKey,
		Label:       provider + " API key",
		Description: "API key for " + provider + " used by commitsugar",
	})
}

// GetApiKey returns the stored key, or "" with no error when none is stored.
func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	ring, err := s.keyring()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(provider)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	ring, err := s.keyring()
	if err != nil {
		return err
	}
	if err := ring.Remove(provider); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

func (s *KeyringService) ListApiKeys() ([]map[string]string, error) {
	ring, err := s.keyring()
	if err != nil {
		return nil, err
	}
	providers, err := ring.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(providers)

	var results []map[string]string
	for _, provider := range providers {
		results = append(results, map[string]string{
			"provider":    provider,
			"label":       provider + " API key",
			"description": "API key for " + provider + " used by commitsugar",
		})
	}
	return results, nil
}

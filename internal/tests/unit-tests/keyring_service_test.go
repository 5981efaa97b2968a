package unit_tests

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitsugar/internal/services"
)

func TestKeyringService_StoreGetDelete(t *testing.T) {
	service := services.NewKeyringServiceWith(keyring.NewArrayKeyring(nil))

	key, err := service.GetApiKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "", key, "missing key is not an error")

	require.NoError(t, service.StoreApiKey("openai", []byte("sk-123")))
	require.NoError(t, service.StoreApiKey("anthropic", []byte("sk-ant")))

	key, err = service.GetApiKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-123", key)

	list, err := service.ListApiKeys()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "anthropic", list[0]["provider"])
	assert.Equal(t, "openai", list[1]["provider"])

	require.NoError(t, service.DeleteApiKey("openai"))
	require.NoError(t, service.DeleteApiKey("openai"), "deleting twice is fine")
	key, err = service.GetApiKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "", key)
}

func TestKeyringService_Validation(t *testing.T) {
	service := services.NewKeyringServiceWith(keyring.NewArrayKeyring(nil))

	assert.Error(t, service.StoreApiKey("openai", nil))
	assert.Error(t, service.StoreApiKey("", []byte("k")))
	_, err := service.GetApiKey("")
	assert.Error(t, err)
	assert.Error(t, service.DeleteApiKey(""))
}

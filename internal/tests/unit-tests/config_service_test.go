package unit_tests

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitsugar/internal/events"
	"commitsugar/internal/models"
	"commitsugar/internal/services"
	"commitsugar/internal/tests/mocks"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// captureEvents records every emitted event until the test ends.
func captureEvents(t *testing.T) *eventRecorder {
	t.Helper()
	rec := &eventRecorder{}
	events.SetCustomEmitter(rec.emit)
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	return rec
}

type recordedEvent struct {
	Name  string
	Event events.Event
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) emit(_ context.Context, name string, evt events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Name: name, Event: evt})
}

func (r *eventRecorder) named(name string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e.Event)
		}
	}
	return out
}

func TestConfigService_Defaults(t *testing.T) {
	service := services.NewConfigService(nil, nil,
		services.WithConfigPath(""),
		services.WithGetenv(envOf(nil)),
	)

	cfg := service.Resolve(context.Background())
	assert.Equal(t, models.DefaultConfig(), cfg)
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, "o3-mini", cfg.ModelName)
	assert.Equal(t, "zh-CN", cfg.Language)
}

func TestConfigService_Layering(t *testing.T) {
	path := writeConfigFile(t, `
api_key = "file-key"
provider = "anthropic"
base_url = "https://file.example.com/"
model = "file-model"
language = "en-US"
git_backend = "cli"
`)
	settings := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return &models.AppSettings{ID: 1, ModelName: "stored-model"}, nil
		},
	}
	service := services.NewConfigService(settings, nil,
		services.WithConfigPath(path),
		services.WithGetenv(envOf(map[string]string{
			services.EnvBaseURL: "https://env.example.com",
		})),
	)

	cfg := service.Resolve(context.Background())
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, models.ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL, "environment wins")
	assert.Equal(t, "stored-model", cfg.ModelName, "stored settings beat the file")
	assert.Equal(t, models.LanguageEnUS, cfg.Language)
	assert.Equal(t, models.GitBackendCLI, cfg.GitBackend)
}

func TestConfigService_CredentialPrecedence(t *testing.T) {
	ring := services.NewKeyringServiceWith(keyring.NewArrayKeyring(nil))
	require.NoError(t, ring.StoreApiKey("openai", []byte("ring-key")))
	path := writeConfigFile(t, `api_key = "file-key"`)

	withEnv := services.NewConfigService(nil, ring,
		services.WithConfigPath(path),
		services.WithGetenv(envOf(map[string]string{services.EnvAPIKey: " env-key "})),
	)
	assert.Equal(t, "env-key", withEnv.Resolve(context.Background()).APIKey)

	withRing := services.NewConfigService(nil, ring,
		services.WithConfigPath(path),
		services.WithGetenv(envOf(nil)),
	)
	assert.Equal(t, "ring-key", withRing.Resolve(context.Background()).APIKey)

	fileOnly := services.NewConfigService(nil, services.NewKeyringServiceWith(keyring.NewArrayKeyring(nil)),
		services.WithConfigPath(path),
		services.WithGetenv(envOf(nil)),
	)
	assert.Equal(t, "file-key", fileOnly.Resolve(context.Background()).APIKey)
}

func TestConfigService_KeyringUsesResolvedProvider(t *testing.T) {
	ring := services.NewKeyringServiceWith(keyring.NewArrayKeyring(nil))
	require.NoError(t, ring.StoreApiKey("openai", []byte("openai-key")))
	require.NoError(t, ring.StoreApiKey("gemini", []byte("gemini-key")))

	service := services.NewConfigService(nil, ring,
		services.WithConfigPath(""),
		services.WithGetenv(envOf(map[string]string{services.EnvProvider: "gemini"})),
	)
	cfg := service.Resolve(context.Background())
	assert.Equal(t, models.ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-key", cfg.APIKey)
}

func TestConfigService_InvalidValuesIgnored(t *testing.T) {
	service := services.NewConfigService(nil, nil,
		services.WithConfigPath(""),
		services.WithGetenv(envOf(map[string]string{
			services.EnvLanguage:   "fr-FR",
			services.EnvProvider:   "mistral",
			services.EnvGitBackend: "svn",
			services.EnvModel:      "   ",
		})),
	)
	cfg := service.Resolve(context.Background())
	assert.Equal(t, models.DefaultLanguage, cfg.Language)
	assert.Equal(t, models.DefaultProvider, cfg.Provider)
	assert.Equal(t, models.DefaultGitBackend, cfg.GitBackend)
	assert.Equal(t, models.DefaultModelName, cfg.ModelName)
}

func TestConfigService_BrokenLayersAreSkipped(t *testing.T) {
	rec := captureEvents(t)
	path := writeConfigFile(t, `this is = = not toml`)
	settings := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return nil, errors.New("database is locked")
		},
	}
	service := services.NewConfigService(settings, nil,
		services.WithConfigPath(path),
		services.WithGetenv(envOf(map[string]string{services.EnvAPIKey: "k"})),
	)

	cfg := service.Resolve(context.Background())
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, models.DefaultModelName, cfg.ModelName)

	logs := rec.named(events.CommitEventLog)
	require.Len(t, logs, 2)
	for _, evt := range logs {
		assert.Equal(t, events.EventWarn, evt.Type)
	}
}

func TestConfigService_MissingFileIsSilent(t *testing.T) {
	rec := captureEvents(t)
	service := services.NewConfigService(nil, nil,
		services.WithConfigPath(filepath.Join(t.TempDir(), "absent.toml")),
		services.WithGetenv(envOf(nil)),
	)
	service.Resolve(context.Background())
	assert.Empty(t, rec.named(events.CommitEventLog))
}

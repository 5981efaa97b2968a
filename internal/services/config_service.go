package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"commitsugar/internal/events"
	"commitsugar/internal/models"
)

const (
	EnvAPIKey     = "COMMITSUGAR_API_KEY"
	EnvBaseURL    = "COMMITSUGAR_BASE_URL"
	EnvModel      = "COMMITSUGAR_MODEL"
	EnvLanguage   = "COMMITSUGAR_LANGUAGE"
	EnvProvider   = "COMMITSUGAR_PROVIDER"
	EnvGitBackend = "COMMITSUGAR_GIT_BACKEND"
)

// SettingsReader is the slice of AppSettingsService the resolver needs.
type SettingsReader interface {
	Get(ctx context.Context) (*models.AppSettings, error)
}

// CredentialStore looks up a provider's API key; "" means none stored.
type CredentialStore interface {
	GetApiKey(provider string) (string, error)
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIKey     string `toml:"api_key"`
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	ModelName  string `toml:"model"`
	Language   string `toml:"language"`
	GitBackend string `toml:"git_backend"`
}

// ConfigService resolves the generation config. Precedence, highest first:
// environment, persisted settings, config.toml, defaults. The credential comes
// from the environment, then the keyring, then config.toml.
type ConfigService struct {
	settings    SettingsReader
	credentials CredentialStore
	configPath  string
	getenv      func(string) string
}

type ConfigOption func(*ConfigService)

// WithConfigPath overrides the config.toml location. Empty disables the file layer.
func WithConfigPath(path string) ConfigOption {
	return func(c *ConfigService) { c.configPath = path }
}

// WithGetenv overrides environment lookup.
func WithGetenv(getenv func(string) string) ConfigOption {
	return func(c *ConfigService) { c.getenv = getenv }
}

func NewConfigService(settings SettingsReader, credentials CredentialStore, opts ...ConfigOption) *ConfigService {
	c := &ConfigService{
		settings:    settings,
		credentials: credentials,
		configPath:  DefaultConfigPath(),
		getenv:      os.Getenv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultConfigPath returns <UserConfigDir>/commitsugar/config.toml, or "" when
// the user config dir is unknown.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, serviceName, "config.toml")
}

// Resolve never fails. Layers that cannot be read are logged and skipped, and a
// missing credential is returned as "" for the caller to reject.
func (c *ConfigService) Resolve(ctx context.Context) models.Config {
	cfg := models.DefaultConfig()
	var fileKey string

	if file, err := c.loadFile(); err != nil {
		emitLog(ctx, events.NewWarn(fmt.Sprintf("config: ignoring %s: %v", c.configPath, err)))
	} else if file != nil {
		fileKey = strings.TrimSpace(file.APIKey)
		overlay(&cfg, file.Provider, file.BaseURL, file.ModelName, file.Language, file.GitBackend)
	}

	if c.settings != nil {
		stored, err := c.settings.Get(ctx)
		if err != nil {
			emitLog(ctx, events.NewWarn(fmt.Sprintf("config: ignoring stored settings: %v", err)))
		} else if stored != nil {
			overlay(&cfg, stored.Provider, stored.BaseURL, stored.ModelName, stored.Language, stored.GitBackend)
		}
	}

	overlay(&cfg,
		c.getenv(EnvProvider),
		c.getenv(EnvBaseURL),
		c.getenv(EnvModel),
		c.getenv(EnvLanguage),
		c.getenv(EnvGitBackend),
	)

	cfg.APIKey = c.resolveCredential(ctx, cfg.Provider, fileKey)
	return cfg
}

func (c *ConfigService) resolveCredential(ctx context.Context, provider, fileKey string) string {
	if key := strings.TrimSpace(c.getenv(EnvAPIKey)); key != "" {
		return key
	}
	if c.credentials != nil {
		key, err := c.credentials.GetApiKey(provider)
		if err != nil {
			emitLog(ctx, events.NewWarn(fmt.Sprintf("config: keyring lookup for %s failed: %v", provider, err)))
		} else if key = strings.TrimSpace(key); key != "" {
			return key
		}
	}
	return fileKey
}

func (c *ConfigService) loadFile() (*fileConfig, error) {
	if c.configPath == "" {
		return nil, nil
	}
	var file fileConfig
	if _, err := toml.DecodeFile(c.configPath, &file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

// overlay applies non-blank, valid values on top of cfg.
func overlay(cfg *models.Config, provider, baseURL, modelName, language, backend string) {
	if v := strings.TrimSpace(provider); v != "" && models.IsSupportedProvider(v) {
		cfg.Provider = v
	}
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(modelName); v != "" {
		cfg.ModelName = v
	}
	if v := strings.TrimSpace(language); v != "" && models.IsSupportedLanguage(v) {
		cfg.Language = v
	}
	if v := strings.TrimSpace(backend); v != "" && models.IsSupportedGitBackend(v) {
		cfg.GitBackend = v
	}
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"commitsugar/internal/models"
	"commitsugar/internal/repositories"
)

// SettingsUpdate carries the fields to change. Nil leaves a field untouched and
// an empty string clears it back to the lower configuration layers.
type SettingsUpdate struct {
	Provider   *string `json:"provider,omitempty"`
	BaseURL    *string `json:"baseUrl,omitempty"`
	ModelName  *string `json:"modelName,omitempty"`
	Language   *string `json:"language,omitempty"`
	GitBackend *string `json:"gitBackend,omitempty"`
}

type AppSettingsService interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, update SettingsUpdate) (*models.AppSettings, error)
	Startup(ctx context.Context)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
	context     context.Context
}

func (s *appSettingsService) Startup(ctx context.Context) {
	s.context = ctx
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository) AppSettingsService {
	return &appSettingsService{appSettings: appSettings}
}

func (s *appSettingsService) Get(ctx context.Context) (*models.AppSettings, error) {
	return s.appSettings.Get(ctx)
}

func (s *appSettingsService) Update(ctx context.Context, update SettingsUpdate) (*models.AppSettings, error) {
	provider := trimmed(update.Provider)
	if provider != nil && *provider != "" && !models.IsSupportedProvider(*provider) {
		return nil, errors.New("provider must be 'openai', 'anthropic', or 'gemini'")
	}
	language := trimmed(update.Language)
	if language != nil && *language != "" && !models.IsSupportedLanguage(*language) {
		return nil, errors.New("language must be 'zh-CN' or 'en-US'")
	}
	backend := trimmed(update.GitBackend)
	if backend != nil && *backend != "" && !models.IsSupportedGitBackend(*backend) {
		return nil, errors.New("git backend must be 'gogit' or 'cli'")
	}
	baseURL := trimmed(update.BaseURL)
	if baseURL != nil && *baseURL != "" && !strings.HasPrefix(*baseURL, "http://") && !strings.HasPrefix(*baseURL, "https://") {
		return nil, errors.New("base URL must start with http:// or https://")
	}

	current, err := s.appSettings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if provider != nil {
		current.Provider = *provider
	}
	if baseURL != nil {
		current.BaseURL = strings.TrimRight(*baseURL, "/")
	}
	if model := trimmed(update.ModelName); model != nil {
		current.ModelName = *model
	}
	if language != nil {
		current.Language = *language
	}
	if backend != nil {
		current.GitBackend = *backend
	}
	current.UpdatedAt = time.Now()

	if err := s.appSettings.Update(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	return &out
}

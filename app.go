package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"commitsugar/internal/models"
	"commitsugar/internal/services"
	"commitsugar/internal/utils"
)

// App struct
type App struct {
	ctx         context.Context
	AppSettings services.AppSettingsService
	Keyring     *services.KeyringService
	Commits     *services.CommitMessageService
	dbClose     func() error
}

// NewApp creates a new App application struct
func NewApp(settings services.AppSettingsService, keyring *services.KeyringService, commits *services.CommitMessageService) *App {
	return &App{AppSettings: settings, Keyring: keyring, Commits: commits}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.Commits != nil {
		a.Commits.Abort()
	}

	// Close database connection pool
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// SelectDirectory opens a native directory picker dialog and returns the
// enclosing repository root when there is one.
func (a *App) SelectDirectory() (string, error) {
	dir, err := runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select Repository",
	})
	if err != nil {
		return "", err
	}
	if root, ok := utils.FindGitRepoRoot(dir); ok {
		return root, nil
	}
	return dir, nil
}

// GenerateCommitMessage streams a draft for the repository at repoPath. Drafts
// reach the frontend as events:commit:message events; the returned result
// carries the final message.
func (a *App) GenerateCommitMessage(repoPath string) models.GenerationResult {
	if a.Commits == nil {
		return models.GenerationResult{Status: models.GenerationRejected, Reason: "commit message service not available"}
	}
	return a.Commits.Generate(a.ctx, services.GenerateRequest{
		RepoPath: repoPath,
		Sink:     services.NewEventSink(a.ctx),
	})
}

// AbortCommitMessage cancels the running generation, if any.
func (a *App) AbortCommitMessage() {
	if a.Commits != nil {
		a.Commits.Abort()
	}
}

func (a *App) IsGeneratingCommit() bool {
	return a.Commits != nil && a.Commits.IsGenerating()
}

// GetAppSettings returns the current application settings
func (a *App) GetAppSettings() (*models.AppSettings, error) {
	if a.AppSettings == nil {
		return nil, fmt.Errorf("app settings service not available")
	}
	return a.AppSettings.Get(a.ctx)
}

// UpdateAppSettings applies the non-nil fields of update.
func (a *App) UpdateAppSettings(update services.SettingsUpdate) (*models.AppSettings, error) {
	if a.AppSettings == nil {
		return nil, fmt.Errorf("app settings service not available")
	}
	settings, err := a.AppSettings.Update(a.ctx, update)
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to update settings: %v", err))
		return nil, err
	}
	return settings, nil
}

// StoreApiKey saves the credential for provider in the OS keyring.
func (a *App) StoreApiKey(provider, apiKey string) error {
	if a.Keyring == nil {
		return fmt.Errorf("keyring service not available")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	return a.Keyring.StoreApiKey(provider, []byte(apiKey))
}

func (a *App) DeleteApiKey(provider string) error {
	if a.Keyring == nil {
		return fmt.Errorf("keyring service not available")
	}
	return a.Keyring.DeleteApiKey(provider)
}

func (a *App) ListApiKeys() ([]map[string]string, error) {
	if a.Keyring == nil {
		return nil, fmt.Errorf("keyring service not available")
	}
	return a.Keyring.ListApiKeys()
}

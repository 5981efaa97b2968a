package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"commitsugar/internal/models"
)

// claudeMaxTokens caps Anthropic replies; the API requires an explicit limit.
const claudeMaxTokens = 1024

// NewChatModel builds the streaming chat model for cfg.Provider. BaseURL is
// honoured for every provider unless it is still the OpenAI default.
func NewChatModel(ctx context.Context, cfg models.Config) (model.BaseChatModel, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key for %s is not configured", cfg.Provider)
	}
	modelName := strings.TrimSpace(cfg.ModelName)
	if modelName == "" {
		modelName = models.DefaultModelName
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	temperature := Temperature

	var (
		chat      model.BaseChatModel
		createErr error
	)
	switch cfg.Provider {
	case models.ProviderOpenAI, "":
		if baseURL == "" {
			baseURL = models.DefaultBaseURL
		}
		chat, createErr = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      apiKey,
			BaseURL:     baseURL,
			Model:       modelName,
			Temperature: &temperature,
		})
	case models.ProviderAnthropic:
		conf := &claude.Config{
			APIKey:      apiKey,
			Model:       modelName,
			MaxTokens:   claudeMaxTokens,
			Temperature: &temperature,
		}
		if customBaseURL(baseURL) {
			conf.BaseURL = &baseURL
		}
		chat, createErr = claude.NewChatModel(ctx, conf)
	case models.ProviderGemini:
		clientConf := &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if customBaseURL(baseURL) {
			clientConf.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}
		cli, err := genai.NewClient(ctx, clientConf)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		chat, createErr = gemini.NewChatModel(ctx, &gemini.Config{
			Client: cli,
			Model:  modelName,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	if createErr != nil {
		return nil, fmt.Errorf("failed to create %s chat model: %w", cfg.Provider, createErr)
	}
	return chat, nil
}

func customBaseURL(baseURL string) bool {
	return baseURL != "" && baseURL != models.DefaultBaseURL
}

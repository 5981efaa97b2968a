package models

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	LanguageZhCN = "zh-CN"
	LanguageEnUS = "en-US"

	GitBackendGoGit = "gogit"
	GitBackendCLI   = "cli"

	DefaultProvider   = ProviderOpenAI
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModelName  = "o3-mini"
	DefaultLanguage   = LanguageZhCN
	DefaultGitBackend = GitBackendGoGit
)

// Config is an immutable snapshot of the settings used by one generation attempt.
type Config struct {
	APIKey     string `json:"-"`
	Provider   string `json:"provider"`
	BaseURL    string `json:"baseUrl"`
	ModelName  string `json:"modelName"`
	Language   string `json:"language"`
	GitBackend string `json:"gitBackend"`
}

// DefaultConfig returns the compiled-in defaults. The credential is always empty.
func DefaultConfig() Config {
	return Config{
		Provider:   DefaultProvider,
		BaseURL:    DefaultBaseURL,
		ModelName:  DefaultModelName,
		Language:   DefaultLanguage,
		GitBackend: DefaultGitBackend,
	}
}

func IsSupportedLanguage(lang string) bool {
	return lang == LanguageZhCN || lang == LanguageEnUS
}

func IsSupportedProvider(provider string) bool {
	switch provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return true
	default:
		return false
	}
}

func IsSupportedGitBackend(backend string) bool {
	return backend == GitBackendGoGit || backend == GitBackendCLI
}

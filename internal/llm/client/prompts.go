package client

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"

	"commitsugar/internal/models"
)

const (
	// MaxDiffChars bounds the change text sent to the model, in characters.
	MaxDiffChars = 5000
	// TruncationMarker, leading blank line included, follows a change text
	// cut at MaxDiffChars.
	TruncationMarker = "\n\n[Diff truncated due to size]"

	Temperature float32 = 0.7

	diffPlaceholder = "{{diff}}"
)

// Request is the input of one generation.
type Request struct {
	ChangeText string
	Language   string
}

// TruncateDiff keeps the first MaxDiffChars characters and appends the marker.
// Shorter texts are returned unchanged.
func TruncateDiff(text string) string {
	if utf8.RuneCountInString(text) <= MaxDiffChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxDiffChars]) + TruncationMarker
}

// BuildMessages renders the system instruction for the language and the user
// prompt carrying the (possibly truncated) change text.
func BuildMessages(req Request) ([]*schema.Message, error) {
	system, err := loadPrompt(systemPromptName(req.Language))
	if err != nil {
		return nil, err
	}
	user, err := loadPrompt("user.txt")
	if err != nil {
		return nil, err
	}
	user = strings.Replace(user, diffPlaceholder, TruncateDiff(req.ChangeText), 1)

	return []*schema.Message{
		schema.SystemMessage(strings.TrimSpace(system)),
		schema.UserMessage(user),
	}, nil
}

func systemPromptName(language string) string {
	if !models.IsSupportedLanguage(language) {
		language = models.DefaultLanguage
	}
	return "system_" + language + ".txt"
}

func loadPrompt(name string) (string, error) {
	data, err := embeddedPrompts.ReadFile("prompts/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
	}
	return string(data), nil
}

package client

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"commitsugar/internal/models"
)

func TestExtractCommitMessage(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "feat: add login\n", "feat: add login"},
		{"surrounding whitespace", "  \n fix: typo \n\n", "fix: typo"},
		{"fenced", "```\nfeat: add login\n```", "feat: add login"},
		{"fenced with language", "```text\nfeat: add login\n\nbody line\n```\n", "feat: add login\n\nbody line"},
		{"long fence", "````\nchore: bump\n````", "chore: bump"},
		{"nested fences", "```\n```git\nrefactor: split\n```\n```", "refactor: split"},
		{"lone opener mid-stream", "```git", ""},
		{"opener with partial line", "```fix: ty", ""},
		{"inline fence", "```fix: typo```", "fix: typo"},
		{"inline fence with newline", "```feat: add login```\n", "feat: add login"},
		{"inline fence padded", "``` chore: bump ````", "chore: bump"},
		{"closer on content line", "```\nfeat: x```", "feat: x"},
		{"backticks only", "``````", ""},
		{"opener then partial", "```\nfeat: ad", "feat: ad"},
		{"open fence only closes later", "```\nfeat: x\n``", "feat: x\n``"},
		{"inline backticks kept", "fix: handle `nil` map", "fix: handle `nil` map"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractCommitMessage(tc.raw)
			if got != tc.want {
				t.Fatalf("ExtractCommitMessage(%q) = %q, want %q", tc.raw, got, tc.want)
			}
			if again := ExtractCommitMessage(got); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestTruncateDiff_ShortTextUnchanged(t *testing.T) {
	text := strings.Repeat("a", MaxDiffChars)
	if got := TruncateDiff(text); got != text {
		t.Fatalf("text of exactly %d chars must not change", MaxDiffChars)
	}
}

func TestTruncateDiff_LongTextCut(t *testing.T) {
	text := strings.Repeat("a", MaxDiffChars) + "overflow"
	got := TruncateDiff(text)
	want := strings.Repeat("a", MaxDiffChars) + TruncationMarker
	if got != want {
		t.Fatalf("unexpected truncation: got suffix %q", got[len(got)-40:])
	}
}

func TestTruncateDiff_CountsCharactersNotBytes(t *testing.T) {
	text := strings.Repeat("变", MaxDiffChars+1)
	got := TruncateDiff(text)
	if !strings.HasPrefix(got, strings.Repeat("变", MaxDiffChars)+"\n\n[Diff truncated due to size]") {
		t.Fatalf("expected %d whole characters before the marker", MaxDiffChars)
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("expected truncation marker, got %q", got[len(got)-40:])
	}
}

func TestBuildMessages(t *testing.T) {
	msgs, err := BuildMessages(Request{ChangeText: "diff --git a/x b/x", Language: models.LanguageEnUS})
	if err != nil {
		t.Fatalf("BuildMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
	if msgs[0].Role != schema.System || msgs[1].Role != schema.User {
		t.Fatalf("unexpected roles: %s, %s", msgs[0].Role, msgs[1].Role)
	}
	if !strings.Contains(msgs[0].Content, "English") {
		t.Fatalf("en-US system prompt should ask for English")
	}
	if !strings.Contains(msgs[1].Content, "diff --git a/x b/x") {
		t.Fatalf("user prompt should embed the change text")
	}
	if strings.Contains(msgs[1].Content, diffPlaceholder) {
		t.Fatalf("placeholder left in user prompt")
	}
}

func TestBuildMessages_UnknownLanguageFallsBack(t *testing.T) {
	msgs, err := BuildMessages(Request{ChangeText: "x", Language: "fr-FR"})
	if err != nil {
		t.Fatalf("BuildMessages: %v", err)
	}
	zh, _ := loadPrompt("system_zh-CN.txt")
	if msgs[0].Content != strings.TrimSpace(zh) {
		t.Fatalf("unknown language should use the zh-CN system prompt")
	}
}

func TestNewChatModel_RequiresAPIKey(t *testing.T) {
	cfg := models.DefaultConfig()
	if _, err := NewChatModel(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for empty API key")
	}
}

func TestNewChatModel_UnsupportedProvider(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.APIKey = "k"
	cfg.Provider = "mistral"
	_, err := NewChatModel(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "unsupported provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestNewChatModel_OpenAI(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = "http://localhost:1234/v1/"
	chat, err := NewChatModel(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewChatModel: %v", err)
	}
	if chat == nil {
		t.Fatalf("expected chat model")
	}
}

package client

import (
	"regexp"
	"strings"
)

var (
	fenceOpener = regexp.MustCompile("^`{3,}[^\n]*\n")
	fenceInline = regexp.MustCompile("^`{3,}([^\n]*?[^`\n])`{3,}$")
	fenceOnly   = regexp.MustCompile("^`{3,}[^\n]*$")
	fenceCloser = regexp.MustCompile("`{3,}$")
)

// ExtractCommitMessage strips surrounding whitespace and code-fence wrappers
// from model output. It is safe to call on partial output and idempotent.
func ExtractCommitMessage(raw string) string {
	text := strings.TrimSpace(raw)
	for {
		next := stripFence(text)
		if next == text {
			return text
		}
		text = next
	}
}

func stripFence(text string) string {
	if m := fenceInline.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if fenceOnly.MatchString(text) {
		// An opener with no closer yet, as seen mid-stream.
		return ""
	}
	text = fenceOpener.ReplaceAllString(text, "")
	text = fenceCloser.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

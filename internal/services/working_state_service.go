package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"commitsugar/internal/events"
	"commitsugar/internal/models"
	"commitsugar/internal/utils"
)

const unreadablePlaceholder = "+[Binary file or read error]"

// RepositoryOpener hands out repository handles; GitService satisfies it.
type RepositoryOpener interface {
	OpenRepository(path string, backend string) (GitRepository, error)
}

// WorkingStateService turns the pending changes of a repository into one diff
// text. It never fails: an empty string means there is nothing to describe.
type WorkingStateService struct {
	repos    RepositoryOpener
	readFile func(name string) ([]byte, error)
}

func NewWorkingStateService(repos RepositoryOpener) *WorkingStateService {
	return &WorkingStateService{repos: repos, readFile: os.ReadFile}
}

// Collect returns the tracked diff when there is one. Otherwise untracked files
// are rendered as synthetic new-file diffs, in the order the repository lists them.
func (s *WorkingStateService) Collect(ctx context.Context, repoPath string, backend string) string {
	if s == nil || s.repos == nil {
		return ""
	}
	repo, err := s.repos.OpenRepository(repoPath, backend)
	if err != nil || repo == nil {
		emitLog(ctx, events.NewWarn(fmt.Sprintf("collect: no repository for %s: %v", repoPath, err)))
		return ""
	}

	tracked, err := repo.Diff(ctx, false)
	if err != nil {
		emitLog(ctx, events.NewWarn(fmt.Sprintf("collect: tracked diff failed: %v", err)))
		return ""
	}
	if tracked != "" {
		return tracked
	}

	changes, err := repo.Changes(ctx)
	if err != nil {
		emitLog(ctx, events.NewWarn(fmt.Sprintf("collect: status failed: %v", err)))
		return ""
	}

	var b strings.Builder
	for _, change := range changes {
		if change.Status != models.StatusUntracked {
			continue
		}
		content, readErr := s.readUntracked(repo.Root(), change.Path)
		if readErr != nil {
			emitLog(ctx, events.NewWarn(fmt.Sprintf("collect: %s: %v", change.Path, readErr)))
		}
		b.WriteString(untrackedFileDiff(change.Path, content, readErr))
	}
	return b.String()
}

func (s *WorkingStateService) readUntracked(root, path string) ([]byte, error) {
	data, err := s.readFile(filepath.Join(root, filepath.FromSlash(path)))
	if err != nil {
		return nil, err
	}
	if utils.LooksBinary(data) {
		return nil, fmt.Errorf("binary file")
	}
	return data, nil
}

// untrackedFileDiff renders one untracked file as a new-file diff block,
// followed by a blank separator line. Unreadable files keep their header and get
// a placeholder hunk instead of their content.
func untrackedFileDiff(path string, content []byte, readErr error) string {
	var b strings.Builder
	text := ""
	if readErr == nil {
		text = string(content)
	}
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	b.WriteString("new file mode 100644\n")
	fmt.Fprintf(&b, "index 0000000..%s\n", contentHash(text))
	b.WriteString("--- /dev/null\n")
	fmt.Fprintf(&b, "+++ b/%s\n", path)

	if readErr != nil {
		b.WriteString("@@ -0,0 +1 @@\n")
		b.WriteString(unreadablePlaceholder + "\n")
	} else {
		for _, line := range strings.Split(text, "\n") {
			b.WriteString("+" + line + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// contentHash is a 31-multiplier rolling hash shown as 7 hex digits. It only
// makes synthetic headers look like real ones; it is not a git object id.
func contentHash(text string) string {
	var h uint32
	for _, r := range text {
		h = h*31 + uint32(r)
	}
	return fmt.Sprintf("%07x", h)[:7]
}

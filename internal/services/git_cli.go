package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"commitsugar/internal/models"
)

// cliRepository shells out to the git binary, so diffs are byte-for-byte
// what the user's git would print.
type cliRepository struct {
	root string
}

func openCLIRepository(ctx context.Context, path string) (*cliRepository, error) {
	out, err := runGit(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, errors.Join(ErrRepositoryNotFound, err))
	}
	root, err := filepath.Abs(strings.TrimSpace(string(out)))
	if err != nil {
		return nil, err
	}
	return &cliRepository{root: root}, nil
}

func (r *cliRepository) Root() string {
	return r.root
}

func (r *cliRepository) Diff(ctx context.Context, stagedOnly bool) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if stagedOnly {
		out, err := runGit(ctx, r.root, append(args, "--cached")...)
		if err != nil {
			return "", fmt.Errorf("failed to diff index: %w", err)
		}
		return string(out), nil
	}

	if r.hasHead(ctx) {
		out, err := runGit(ctx, r.root, append(args, "HEAD")...)
		if err != nil {
			return "", fmt.Errorf("failed to diff against HEAD: %w", err)
		}
		return string(out), nil
	}

	// Unborn branch: index against the empty tree, then worktree against index.
	staged, err := runGit(ctx, r.root, append(args, "--cached")...)
	if err != nil {
		return "", fmt.Errorf("failed to diff index: %w", err)
	}
	unstaged, err := runGit(ctx, r.root, args...)
	if err != nil {
		return "", fmt.Errorf("failed to diff worktree: %w", err)
	}
	return string(staged) + string(unstaged), nil
}

func (r *cliRepository) hasHead(ctx context.Context) bool {
	_, err := runGit(ctx, r.root, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

func (r *cliRepository) Changes(ctx context.Context) ([]models.ChangeRecord, error) {
	out, err := runGit(ctx, r.root, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}
	return parsePorcelainZ(out), nil
}

// parsePorcelainZ parses `git status --porcelain=v1 -z`, keeping git's order.
// Rename and copy entries carry the original path as an extra NUL field.
func parsePorcelainZ(out []byte) []models.ChangeRecord {
	fields := bytes.Split(out, []byte{0})
	records := make([]models.ChangeRecord, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if len(entry) < 4 {
			continue
		}
		x, y := entry[0], entry[1]
		path := string(entry[3:])
		if x == 'R' || x == 'C' || y == 'R' || y == 'C' {
			i++
		}
		kind, ok := porcelainKind(x, y)
		if !ok {
			continue
		}
		records = append(records, models.ChangeRecord{Path: path, Status: kind})
	}
	return records
}

func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = minimalEnv()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

func minimalEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_PAGER=cat",
		"LC_ALL=C",
	}
	if home := os.Getenv("HOME"); home != "" {
		env = append(env, "HOME="+home)
	} else if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			env = append(env, "HOME="+profile)
		}
	}
	return env
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"

	"commitsugar/internal/models"
)

// ErrRepositoryNotFound means no repository handle is available for a path.
var ErrRepositoryNotFound = errors.New("no git repository found")

// GitRepository is a handle onto one working tree.
type GitRepository interface {
	// Root is the absolute path of the working tree.
	Root() string
	// Diff returns the unified diff of tracked changes against HEAD. With
	// stagedOnly it covers the index only, otherwise index and worktree.
	// Untracked files never appear.
	Diff(ctx context.Context, stagedOnly bool) (string, error)
	// Changes snapshots the working-tree change records in a stable order.
	Changes(ctx context.Context) ([]models.ChangeRecord, error)
}

type GitService struct {
	context context.Context
}

func (g *GitService) Startup(ctx context.Context) {
	g.context = ctx
}

func NewGitService() *GitService {
	return &GitService{}
}

// PlainInit initializes a new git repo at given path
func (g *GitService) Init(path string) (*git.Repository, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Open an existing repo, searching parent directories for .git
func (g *GitService) Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// OpenRepository resolves the repository containing path with the given backend.
func (g *GitService) OpenRepository(path string, backend string) (GitRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("repository path cannot be empty: %w", ErrRepositoryNotFound)
	}

	switch backend {
	case models.GitBackendCLI:
		repo, err := openCLIRepository(g.ctx(), path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case models.GitBackendGoGit, "":
		repo, err := g.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open repository at %s: %w", path, errors.Join(ErrRepositoryNotFound, err))
		}
		handle, err := newGoGitRepository(repo)
		if err != nil {
			return nil, err
		}
		return handle, nil
	default:
		return nil, fmt.Errorf("unsupported git backend: %s", backend)
	}
}

func (g *GitService) ctx() context.Context {
	if g == nil || g.context == nil {
		return context.Background()
	}
	return g.context
}

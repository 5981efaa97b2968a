package integration_tests

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitsugar/internal/models"
	"commitsugar/internal/services"
)

var testAuthor = &object.Signature{
	Name:  "Test",
	Email: "test@example.com",
}

// backends lists the repository backends available on this machine.
func backends(t *testing.T) []string {
	t.Helper()
	out := []string{models.GitBackendGoGit}
	if _, err := exec.LookPath("git"); err == nil {
		out = append(out, models.GitBackendCLI)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// newRepo creates a repository with test.txt committed.
func newRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	gs := services.NewGitService()
	repo, err := gs.Init(dir)
	require.NoError(t, err)

	writeFile(t, dir, "test.txt", "hello world\n")
	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("test.txt")
	require.NoError(t, err)
	_, err = w.Commit("first commit", &git.CommitOptions{Author: testAuthor})
	require.NoError(t, err)
	return dir, repo
}

func open(t *testing.T, dir, backend string) services.GitRepository {
	t.Helper()
	handle, err := services.NewGitService().OpenRepository(dir, backend)
	require.NoError(t, err)
	return handle
}

func TestRepository_CleanTree(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			dir, _ := newRepo(t)
			repo := open(t, dir, backend)

			diff, err := repo.Diff(context.Background(), false)
			require.NoError(t, err)
			assert.Equal(t, "", diff)

			changes, err := repo.Changes(context.Background())
			require.NoError(t, err)
			assert.Empty(t, changes)
		})
	}
}

func TestRepository_ModifiedFileDiff(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			dir, _ := newRepo(t)
			writeFile(t, dir, "test.txt", "hello there\nnew line\n")
			repo := open(t, dir, backend)

			diff, err := repo.Diff(context.Background(), false)
			require.NoError(t, err)
			assert.Contains(t, diff, "diff --git a/test.txt b/test.txt")
			assert.Contains(t, diff, "-hello world")
			assert.Contains(t, diff, "+hello there")
			assert.Contains(t, diff, "+new line")

			staged, err := repo.Diff(context.Background(), true)
			require.NoError(t, err)
			assert.Equal(t, "", staged, "nothing is staged yet")

			changes, err := repo.Changes(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []models.ChangeRecord{{Path: "test.txt", Status: models.StatusModified}}, changes)
		})
	}
}

func TestRepository_StagedAndDeletedFiles(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			dir, repo := newRepo(t)
			writeFile(t, dir, "docs/guide.md", "# Guide\n")
			w, err := repo.Worktree()
			require.NoError(t, err)
			_, err = w.Add("docs/guide.md")
			require.NoError(t, err)
			require.NoError(t, os.Remove(filepath.Join(dir, "test.txt")))

			handle := open(t, dir, backend)
			diff, err := handle.Diff(context.Background(), false)
			require.NoError(t, err)
			assert.Contains(t, diff, "diff --git a/docs/guide.md b/docs/guide.md")
			assert.Contains(t, diff, "new file mode 100644")
			assert.Contains(t, diff, "+# Guide")
			assert.Contains(t, diff, "deleted file mode 100644")
			assert.Contains(t, diff, "-hello world")

			staged, err := handle.Diff(context.Background(), true)
			require.NoError(t, err)
			assert.Contains(t, staged, "+# Guide")
			assert.NotContains(t, staged, "test.txt")

			changes, err := handle.Changes(context.Background())
			require.NoError(t, err)
			assert.ElementsMatch(t, []models.ChangeRecord{
				{Path: "docs/guide.md", Status: models.StatusIndexAdded},
				{Path: "test.txt", Status: models.StatusDeleted},
			}, changes)
		})
	}
}

// unstage drops a path from the index and leaves the file on disk.
func unstage(t *testing.T, repo *git.Repository, path string) {
	t.Helper()
	idx, err := repo.Storer.Index()
	require.NoError(t, err)
	_, err = idx.Remove(path)
	require.NoError(t, err)
	require.NoError(t, repo.Storer.SetIndex(idx))
}

func TestRepository_CachedRemovalIsStagedDeletion(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			dir, repo := newRepo(t)
			unstage(t, repo, "test.txt")
			handle := open(t, dir, backend)

			for _, stagedOnly := range []bool{false, true} {
				diff, err := handle.Diff(context.Background(), stagedOnly)
				require.NoError(t, err)
				assert.Contains(t, diff, "diff --git a/test.txt b/test.txt")
				assert.Contains(t, diff, "deleted file mode 100644")
				assert.Contains(t, diff, "-hello world")
				assert.NotContains(t, diff, "new file mode")
			}

			changes, err := handle.Changes(context.Background())
			require.NoError(t, err)
			assert.ElementsMatch(t, []models.ChangeRecord{
				{Path: "test.txt", Status: models.StatusIndexDeleted},
				{Path: "test.txt", Status: models.StatusUntracked},
			}, changes)

			collected := services.NewWorkingStateService(services.NewGitService()).Collect(context.Background(), dir, backend)
			assert.Contains(t, collected, "deleted file mode 100644")
			assert.NotContains(t, collected, "new file mode")
		})
	}
}

func TestRepository_UntrackedFilesExcludedFromDiff(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			dir, _ := newRepo(t)
			writeFile(t, dir, "b.txt", "b\n")
			writeFile(t, dir, "a.txt", "a\n")
			repo := open(t, dir, backend)

			diff, err := repo.Diff(context.Background(), false)
			require.NoError(t, err)
			assert.Equal(t, "", diff)

			changes, err := repo.Changes(context.Background())
			require.NoError(t, err)
			assert.ElementsMatch(t, []models.ChangeRecord{
				{Path: "a.txt", Status: models.StatusUntracked},
				{Path: "b.txt", Status: models.StatusUntracked},
			}, changes)
		})
	}
}

func TestRepository_UnbornBranch(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			repo, err := services.NewGitService().Init(dir)
			require.NoError(t, err)
			writeFile(t, dir, "main.go", "package main\n")
			w, err := repo.Worktree()
			require.NoError(t, err)
			_, err = w.Add("main.go")
			require.NoError(t, err)

			diff, err := open(t, dir, backend).Diff(context.Background(), false)
			require.NoError(t, err)
			assert.Contains(t, diff, "new file mode 100644")
			assert.Contains(t, diff, "+package main")
		})
	}
}

func TestOpenRepository_FromSubdirectory(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			dir, _ := newRepo(t)
			sub := filepath.Join(dir, "nested", "deeper")
			require.NoError(t, os.MkdirAll(sub, 0o755))

			repo := open(t, sub, backend)
			want, err := filepath.EvalSymlinks(dir)
			require.NoError(t, err)
			got, err := filepath.EvalSymlinks(repo.Root())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestOpenRepository_NotARepository(t *testing.T) {
	for _, backend := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			_, err := services.NewGitService().OpenRepository(t.TempDir(), backend)
			require.Error(t, err)
			assert.True(t, errors.Is(err, services.ErrRepositoryNotFound))
		})
	}
}

func TestOpenRepository_UnknownBackend(t *testing.T) {
	dir, _ := newRepo(t)
	_, err := services.NewGitService().OpenRepository(dir, "svn")
	assert.Error(t, err)
}

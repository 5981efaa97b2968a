package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	gitdiff "github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"

	"commitsugar/internal/models"
	"commitsugar/internal/utils"
)

// goGitRepository serves diffs and status from go-git without a git binary.
type goGitRepository struct {
	repo *git.Repository
	root string
}

func newGoGitRepository(repo *git.Repository) (*goGitRepository, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo cannot be nil")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to load worktree: %w", err)
	}
	return &goGitRepository{repo: repo, root: wt.Filesystem.Root()}, nil
}

func (r *goGitRepository) Root() string {
	return r.root
}

func (r *goGitRepository) status() (git.Status, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to load worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}
	return status, nil
}

// sortedPaths gives go-git's status map a deterministic order.
func sortedPaths(status git.Status) []string {
	paths := make([]string, 0, len(status))
	for p, st := range status {
		if st == nil {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *goGitRepository) Changes(ctx context.Context) ([]models.ChangeRecord, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}
	head, err := r.headTree()
	if err != nil {
		return nil, err
	}
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	records := make([]models.ChangeRecord, 0, len(status))
	for _, p := range sortedPaths(status) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := status[p]
		if isUntracked(st) {
			removed, err := stagedRemoval(head, idx, p)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s at HEAD: %w", p, err)
			}
			if removed != nil {
				records = append(records,
					models.ChangeRecord{Path: p, Status: models.StatusIndexDeleted},
					models.ChangeRecord{Path: p, Status: models.StatusUntracked},
				)
				continue
			}
		}
		kind, ok := describeStatus(*st)
		if !ok {
			continue
		}
		records = append(records, models.ChangeRecord{Path: p, Status: kind})
	}
	return records, nil
}

// isUntracked reports go-git's "??" code. go-git also uses it for a path that
// was removed from the index but is still on disk.
func isUntracked(st *git.FileStatus) bool {
	return st.Staging == git.Untracked || st.Worktree == git.Untracked
}

// stagedRemoval returns the HEAD blob of a path that is committed but missing
// from the index, as left by `git rm --cached`. It returns nil otherwise.
func stagedRemoval(head *object.Tree, idx *index.Index, p string) (*blobFile, error) {
	_, err := idx.Entry(p)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, index.ErrEntryNotFound) {
		return nil, err
	}
	return treeBlob(head, p)
}

func (r *goGitRepository) Diff(ctx context.Context, stagedOnly bool) (string, error) {
	status, err := r.status()
	if err != nil {
		return "", err
	}
	head, err := r.headTree()
	if err != nil {
		return "", err
	}
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return "", fmt.Errorf("failed to read index: %w", err)
	}

	var patches []fdiff.FilePatch
	for _, p := range sortedPaths(status) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		st := status[p]
		if isUntracked(st) {
			removed, err := stagedRemoval(head, idx, p)
			if err != nil {
				return "", fmt.Errorf("failed to read %s at HEAD: %w", p, err)
			}
			if fp := newFilePatch(removed, nil); fp != nil {
				patches = append(patches, fp)
			}
			continue
		}
		if st.Staging == git.Unmodified && (stagedOnly || st.Worktree == git.Unmodified) {
			continue
		}

		from, err := treeBlob(head, p)
		if err != nil {
			return "", fmt.Errorf("failed to read %s at HEAD: %w", p, err)
		}
		var to *blobFile
		if stagedOnly {
			to, err = r.indexBlob(idx, p)
		} else {
			to, err = r.worktreeBlob(p)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", p, err)
		}
		if fp := newFilePatch(from, to); fp != nil {
			patches = append(patches, fp)
		}
	}
	if len(patches) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	if err := fdiff.NewUnifiedEncoder(&buf, fdiff.DefaultContextLines).Encode(worktreePatch(patches)); err != nil {
		return "", fmt.Errorf("failed to encode patch: %w", err)
	}
	return buf.String(), nil
}

// headTree returns nil on an unborn branch so every tracked file diffs as new.
func (r *goGitRepository) headTree() (*object.Tree, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD commit: %w", err)
	}
	return commit.Tree()
}

func treeBlob(tree *object.Tree, p string) (*blobFile, error) {
	if tree == nil {
		return nil, nil
	}
	file, err := tree.File(p)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, nil
		}
		return nil, err
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return newBlobFile(p, file.Hash, file.Mode, data), nil
}

func (r *goGitRepository) indexBlob(idx *index.Index, p string) (*blobFile, error) {
	entry, err := idx.Entry(p)
	if err != nil {
		if errors.Is(err, index.ErrEntryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	blob, err := r.repo.BlobObject(entry.Hash)
	if err != nil {
		return nil, err
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return newBlobFile(p, entry.Hash, entry.Mode, data), nil
}

func (r *goGitRepository) worktreeBlob(p string) (*blobFile, error) {
	full := filepath.Join(r.root, filepath.FromSlash(p))
	info, err := os.Lstat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var data []byte
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(full)
		if err != nil {
			return nil, err
		}
		data = []byte(target)
	} else if data, err = os.ReadFile(full); err != nil {
		return nil, err
	}
	mode, err := filemode.NewFromOSFileMode(info.Mode())
	if err != nil {
		return nil, err
	}
	return newBlobFile(p, plumbing.ComputeHash(plumbing.BlobObject, data), mode, data), nil
}

// blobFile is one side of a file patch.
type blobFile struct {
	path    string
	hash    plumbing.Hash
	mode    filemode.FileMode
	content string
	binary  bool
}

func newBlobFile(p string, hash plumbing.Hash, mode filemode.FileMode, data []byte) *blobFile {
	return &blobFile{
		path:    p,
		hash:    hash,
		mode:    mode,
		content: string(data),
		binary:  utils.LooksBinary(data),
	}
}

func (f *blobFile) Hash() plumbing.Hash { return f.hash }
func (f *blobFile) Mode() filemode.FileMode { return f.mode }
func (f *blobFile) Path() string { return f.path }

type textChunk struct {
	content string
	op      fdiff.Operation
}

func (c *textChunk) Content() string { return c.content }
func (c *textChunk) Type() fdiff.Operation { return c.op }

type filePatch struct {
	from, to fdiff.File
	binary   bool
	chunks   []fdiff.Chunk
}

func (p *filePatch) IsBinary() bool { return p.binary }
func (p *filePatch) Files() (from, to fdiff.File) { return p.from, p.to }
func (p *filePatch) Chunks() []fdiff.Chunk { return p.chunks }

type worktreePatch []fdiff.FilePatch

func (p worktreePatch) FilePatches() []fdiff.FilePatch { return p }
func (p worktreePatch) Message() string { return "" }

// newFilePatch returns nil when both sides are absent or identical.
func newFilePatch(from, to *blobFile) fdiff.FilePatch {
	if from == nil && to == nil {
		return nil
	}
	if from != nil && to != nil && from.hash == to.hash && from.mode == to.mode {
		return nil
	}

	// Files() must hand back untyped nils for the absent side.
	fp := &filePatch{}
	var src, dst string
	if from != nil {
		fp.from = from
		src = from.content
		fp.binary = fp.binary || from.binary
	}
	if to != nil {
		fp.to = to
		dst = to.content
		fp.binary = fp.binary || to.binary
	}
	if fp.binary {
		return fp
	}

	for _, d := range gitdiff.Do(src, dst) {
		var op fdiff.Operation
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = fdiff.Equal
		case diffmatchpatch.DiffDelete:
			op = fdiff.Delete
		case diffmatchpatch.DiffInsert:
			op = fdiff.Add
		}
		fp.chunks = append(fp.chunks, &textChunk{content: d.Text, op: op})
	}
	return fp
}

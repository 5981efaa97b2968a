package utils

import (
	"os"
	"path/filepath"
)

func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func HasGitRepo(path string) bool {
	gitPath := path + string(os.PathSeparator) + ".git"
	_, err := os.Stat(gitPath)
	return err == nil
}

// FindGitRepoRoot walks up from start until a directory holding .git is found.
func FindGitRepoRoot(start string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		if HasGitRepo(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

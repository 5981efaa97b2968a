package services

import (
	"github.com/go-git/go-git/v5"

	"commitsugar/internal/models"
)

// porcelainKind maps a git porcelain XY pair (X = index, Y = worktree) to a
// status kind. Worktree changes win over index changes for the same path.
func porcelainKind(x, y byte) (models.StatusKind, bool) {
	switch string([]byte{x, y}) {
	case "??":
		return models.StatusUntracked, true
	case "!!":
		return models.StatusIgnored, true
	case "DD":
		return models.StatusBothDeleted, true
	case "AU":
		return models.StatusAddedByUs, true
	case "UD":
		return models.StatusDeletedByThem, true
	case "UA":
		return models.StatusAddedByThem, true
	case "DU":
		return models.StatusDeletedByUs, true
	case "AA":
		return models.StatusBothAdded, true
	case "UU":
		return models.StatusBothModified, true
	}

	switch y {
	case 'M':
		return models.StatusModified, true
	case 'D':
		return models.StatusDeleted, true
	case 'T':
		return models.StatusTypeChanged, true
	case 'A':
		return models.StatusIntentToAdd, true
	case 'R':
		return models.StatusIntentToRename, true
	}

	switch x {
	case 'M':
		return models.StatusIndexModified, true
	case 'A':
		return models.StatusIndexAdded, true
	case 'D':
		return models.StatusIndexDeleted, true
	case 'R':
		return models.StatusIndexRenamed, true
	case 'C':
		return models.StatusIndexCopied, true
	case 'T':
		return models.StatusTypeChanged, true
	case 'U':
		return models.StatusBothModified, true
	}
	return "", false
}

func describeStatus(st git.FileStatus) (models.StatusKind, bool) {
	return porcelainKind(byte(st.Staging), byte(st.Worktree))
}

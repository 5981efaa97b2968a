package models

// StatusKind classifies one working-tree change the way git porcelain does.
type StatusKind string

const (
	StatusIndexModified  StatusKind = "index-modified"
	StatusIndexAdded     StatusKind = "index-added"
	StatusIndexDeleted   StatusKind = "index-deleted"
	StatusIndexRenamed   StatusKind = "index-renamed"
	StatusIndexCopied    StatusKind = "index-copied"
	StatusModified       StatusKind = "modified"
	StatusDeleted        StatusKind = "deleted"
	StatusUntracked      StatusKind = "untracked"
	StatusIgnored        StatusKind = "ignored"
	StatusIntentToAdd    StatusKind = "intent-to-add"
	StatusIntentToRename StatusKind = "intent-to-rename"
	StatusTypeChanged    StatusKind = "type-changed"

	// merge conflicts
	StatusAddedByUs     StatusKind = "added-by-us"
	StatusAddedByThem   StatusKind = "added-by-them"
	StatusDeletedByUs   StatusKind = "deleted-by-us"
	StatusDeletedByThem StatusKind = "deleted-by-them"
	StatusBothAdded     StatusKind = "both-added"
	StatusBothDeleted   StatusKind = "both-deleted"
	StatusBothModified  StatusKind = "both-modified"
)

// ChangeRecord is one entry of working-tree state reported by a repository.
type ChangeRecord struct {
	Path   string     `json:"path"`
	Status StatusKind `json:"status"`
}

func (k StatusKind) IsConflict() bool {
	switch k {
	case StatusAddedByUs, StatusAddedByThem, StatusDeletedByUs, StatusDeletedByThem,
		StatusBothAdded, StatusBothDeleted, StatusBothModified:
		return true
	default:
		return false
	}
}

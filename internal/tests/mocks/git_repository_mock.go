package mocks

import (
	"context"

	"commitsugar/internal/models"
	"commitsugar/internal/services"
)

type RepositoryOpenerMock struct {
	OpenRepositoryFunc func(path string, backend string) (services.GitRepository, error)
}

func (m *RepositoryOpenerMock) OpenRepository(path string, backend string) (services.GitRepository, error) {
	if m.OpenRepositoryFunc != nil {
		return m.OpenRepositoryFunc(path, backend)
	}
	return nil, services.ErrRepositoryNotFound
}

type GitRepositoryMock struct {
	RootPath    string
	DiffFunc    func(ctx context.Context, stagedOnly bool) (string, error)
	ChangesFunc func(ctx context.Context) ([]models.ChangeRecord, error)
}

func (m *GitRepositoryMock) Root() string {
	return m.RootPath
}

func (m *GitRepositoryMock) Diff(ctx context.Context, stagedOnly bool) (string, error) {
	if m.DiffFunc != nil {
		return m.DiffFunc(ctx, stagedOnly)
	}
	return "", nil
}

func (m *GitRepositoryMock) Changes(ctx context.Context) ([]models.ChangeRecord, error) {
	if m.ChangesFunc != nil {
		return m.ChangesFunc(ctx)
	}
	return nil, nil
}

package main

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"commitsugar/internal/database"
	"commitsugar/internal/repositories"
	"commitsugar/internal/services"
	"commitsugar/internal/utils"
)

// stack is the set of services one CLI invocation needs.
type stack struct {
	db       *gorm.DB
	dbPath   string
	settings services.AppSettingsService
	keyring  *services.KeyringService
	config   *services.ConfigService
	commits  *services.CommitMessageService
	close    func()
}

// openStack can be replaced by tests.
var openStack = defaultOpenStack

func defaultOpenStack() (*stack, error) {
	// A missing .env is normal outside a checkout.
	_ = utils.LoadEnv()

	dbPath, err := database.UserDBPath()
	if err != nil {
		return nil, err
	}
	db, err := database.Init(database.Config{Path: dbPath, LogLevel: logger.Error})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	git := services.NewGitService()
	keyring := services.NewKeyringService()
	settings := services.NewAppSettingsService(repositories.NewAppSettingsRepository(db))
	config := services.NewConfigService(settings, keyring)
	return &stack{
		db:       db,
		dbPath:   dbPath,
		settings: settings,
		keyring:  keyring,
		config:   config,
		commits:  services.NewCommitMessageService(config, services.NewWorkingStateService(git), nil),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

func (s *stack) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

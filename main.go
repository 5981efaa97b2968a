package main

import (
	"context"
	"embed"
	"fmt"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"commitsugar/internal/database"
	"commitsugar/internal/events"
	"commitsugar/internal/repositories"
	"commitsugar/internal/services"
	"commitsugar/internal/utils"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := utils.LoadEnv(); err != nil {
		fmt.Println("Warning: no .env loaded:", err)
	}

	db, err := database.Init(database.Config{
		LogLevel: logger.Info,
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}

	//Create each service
	gitService := services.NewGitService()
	keyringService := services.NewKeyringService()
	appSettings := services.NewAppSettingsService(repositories.NewAppSettingsRepository(db))
	configService := services.NewConfigService(appSettings, keyringService)
	workingState := services.NewWorkingStateService(gitService)
	commits := services.NewCommitMessageService(configService, workingState, nil)

	app := NewApp(appSettings, keyringService, commits)
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	events.EnableRuntimeEmitter()

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "CommitSugar",
		Width:  720,
		Height: 520,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "CommitSugar",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
			appSettings.Startup(ctx)
			gitService.Startup(ctx)
			keyringService.Startup()
			commits.Startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}

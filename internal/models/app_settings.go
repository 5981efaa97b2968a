package models

import "time"

// AppSettings is the persisted, user-editable part of the configuration.
// Blank columns mean "not set here" so lower configuration layers apply.
type AppSettings struct {
	ID         uint   `gorm:"primaryKey"` // single-row table (ID=1)
	Version    int    `gorm:"not null;default:1"`
	Provider   string `gorm:"size:32"`  // "openai" | "anthropic" | "gemini"
	BaseURL    string `gorm:"size:512"`
	ModelName  string `gorm:"size:128"`
	Language   string `gorm:"size:16"` // "zh-CN" | "en-US"
	GitBackend string `gorm:"size:16"` // "gogit" | "cli"
	UpdatedAt  time.Time
}

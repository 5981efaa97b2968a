//go:build prod

package database

import "log"

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
func GetDefaultDBPath() string {
	dbPath, err := UserDBPath()
	if err != nil {
		log.Printf("Warning: %v. Using fallback.", err)
		return "commitsugar.db"
	}
	return dbPath
}

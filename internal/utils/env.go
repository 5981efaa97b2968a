package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads .env from the working directory, falling back to the project
// root during development. Variables already set in the environment win.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	root, err := FindProjectRoot()
	if err != nil {
		return err
	}
	envPath := filepath.Join(root, ".env")
	return godotenv.Load(envPath)
}

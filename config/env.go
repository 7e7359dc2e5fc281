package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the file named by ENV_PATH, or .env. A
// missing file is skipped; variables already set in the process win.
func LoadDotEnv() error {
	envPath := getEnv("ENV_PATH", ".env")

	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No .env file, skipping", "path", envPath)
			return nil
		}
		return err
	}

	slog.Debug("Loaded environment file", "path", envPath)
	return nil
}

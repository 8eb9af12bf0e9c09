package utils

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv loads the given dotenv files (".env" when none are given) without
// overriding variables already present in the environment.
func LoadEnv(logger *zap.Logger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No .env file found, using process environment")
			return
		}
		logger.Warn("Failed to load .env file", zap.Error(err))
		return
	}
	logger.Info("ENV file loaded successfully")
}

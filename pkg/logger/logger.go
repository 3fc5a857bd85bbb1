// Package logger constructs the application-wide zap logger.
package logger

import (
	"log"

	"go.uber.org/zap"
)

const (
	envLocal = "local"
	envDev   = "development"
)

// New returns a zap logger configured for the given environment:
// human-readable console output for local/development, JSON for
// everything else.
func New(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)

	switch env {
	case envLocal, envDev:
		logger, err = zap.NewDevelopment()
	default:
		logger, err = zap.NewProduction()
	}

	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}

	return logger
}

package logger

import (
	"quizbank/internal/config"

	"go.uber.org/zap"
)

// New builds the service logger: JSON production output in production,
// human-readable development output everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

// Package logging builds the application's zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fitmeal/mealplan-backend/config"
)

// New returns a JSON logger in production and a colored console logger
// everywhere else. Test and CI runs log at info to keep output short.
func New(env config.Environment) (*zap.Logger, error) {
	switch env {
	case config.Production:
		return zap.NewProduction()
	case config.Test, config.CI:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		return cfg.Build()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

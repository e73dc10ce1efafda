package main

import (
	"strings"

	"go.uber.org/zap"
)

// newLogger builds the sugared logger for the given APP_ENV value and
// installs it as the zap global so package-level helpers (queryOne/queryMany)
// can log without threading a logger through every call.
func newLogger(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger.Sugar(), nil
}

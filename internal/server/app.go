package server

import (
	"fmt"
	"time"

	"github.com/bnema/simple-api/internal/config"
	"github.com/bnema/simple-api/pkg/logger"
	"github.com/bnema/simple-api/pkg/version"
)

// App holds what the HTTP application needs at request time.
type App struct {
	Config *config.Config
	Logger *logger.Logger
	Now    func() time.Time
}

// NewServerApp builds the application state from a loaded config.
func NewServerApp(cfg *config.Config, l *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server app requires a config")
	}
	if l == nil {
		l = logger.GetLogger()
	}

	a := &App{
		Config: cfg,
		Logger: l,
		Now:    time.Now,
	}
	l.Debug("Server app initialized", "service", cfg.General.ServiceName, "version", version.Version())
	return a, nil
}

// ServiceName returns the name reported by the time endpoint.
func (a *App) ServiceName() string {
	return a.Config.General.ServiceName
}

package httpserve

import (
	"context"
	"net/http"

	"github.com/bnema/simple-api/internal/config"
	"github.com/bnema/simple-api/internal/launcher"
	"github.com/bnema/simple-api/internal/server"
	"github.com/bnema/simple-api/pkg/logger"
)

// AppTarget is the name the HTTP application is registered under.
const AppTarget = launcher.DefaultTarget

// Register adds the HTTP application to reg. The server app and its router
// are built when the launcher resolves the target, before the port is bound.
func Register(reg *launcher.Registry, cfg *config.Config, l *logger.Logger) error {
	return reg.Register(AppTarget, func(ctx context.Context) (http.Handler, error) {
		a, err := server.NewServerApp(cfg, l)
		if err != nil {
			return nil, err
		}
		return NewRouter(a), nil
	})
}

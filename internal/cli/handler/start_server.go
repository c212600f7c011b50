package handler

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/simple-api/internal/cli"
	"github.com/bnema/simple-api/internal/config"
	"github.com/bnema/simple-api/internal/httpserve"
	"github.com/bnema/simple-api/internal/launcher"
)

// ServerOptions override parts of the launch for tests.
type ServerOptions struct {
	Target string
	Lookup config.LookupFunc
	Listen func(network, address string) (net.Listener, error)
	// Ready, when set, receives the launcher once it is bound.
	Ready func(*launcher.Launcher)
}

// StartServer registers the HTTP application and runs it until SIGINT or
// SIGTERM. The returned error carries the exit code of the failed phase.
func StartServer(ctx context.Context, a *cli.App, opts ServerOptions) error {
	if a.Config == nil {
		if err := a.LoadConfig(); err != nil {
			return stopped(a, &launcher.StartupError{Phase: launcher.PhaseConfig, Err: err})
		}
	}

	reg := launcher.NewRegistry()
	if err := httpserve.Register(reg, a.Config, a.Logger); err != nil {
		return stopped(a, &launcher.StartupError{Phase: launcher.PhaseApplication, Err: err})
	}

	l := launcher.New(reg, a.Logger, launcher.Options{
		Target:        opts.Target,
		Lookup:        opts.Lookup,
		Listen:        opts.Listen,
		ShutdownGrace: a.Config.Http.ShutdownGrace,
		ReadTimeout:   a.Config.Http.ReadTimeout,
		WriteTimeout:  a.Config.Http.WriteTimeout,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Ready != nil {
		go func() {
			select {
			case <-l.Ready():
				opts.Ready(l)
			case <-ctx.Done():
			}
		}()
	}

	if err := l.Run(ctx); err != nil {
		return stopped(a, err)
	}
	return nil
}

func stopped(a *cli.App, err error) error {
	a.Logger.Error("Server stopped", "error", err, "exit_code", launcher.ExitCode(err))
	return err
}

package cli

import (
	"io"
	"os"

	"github.com/bnema/simple-api/internal/config"
	"github.com/bnema/simple-api/pkg/logger"
)

// App is the state shared by every command.
type App struct {
	// ConfigPath is set by the --config flag before any command runs.
	ConfigPath string
	Config     *config.Config
	Logger     *logger.Logger
	Out        io.Writer
}

func NewClientApp(l *logger.Logger) *App {
	if l == nil {
		l = logger.GetLogger()
	}
	return &App{Logger: l, Out: os.Stdout}
}

// LoadConfig reads the config file and applies its log level unless the
// environment already chose one.
func (a *App) LoadConfig() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	if os.Getenv(logger.LevelEnv) == "" && os.Getenv("ENV") != "dev" {
		a.Logger.SetLogLevel(cfg.General.LogLevel)
	}
	return nil
}

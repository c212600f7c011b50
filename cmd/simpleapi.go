package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/simple-api/internal/cli"
	clicmd "github.com/bnema/simple-api/internal/cli/cmd"
	"github.com/bnema/simple-api/internal/launcher"
	"github.com/bnema/simple-api/pkg/logger"
	"github.com/bnema/simple-api/pkg/version"
	"github.com/fatih/color"

	_ "github.com/joho/godotenv/autoload"
)

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := cli.NewClientApp(logger.GetLogger())
	a.Out = stdout

	root := clicmd.NewRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	code := launcher.ExitCode(err)
	if err != nil {
		var se *launcher.StartupError
		// startup errors are logged by the serve handler
		if !errors.As(err, &se) {
			fmt.Fprintln(stderr, color.RedString("Error:"), err)
		}
	}
	return code
}

// ExecuteCLI is the entrypoint of the simple-api binary.
func ExecuteCLI(build, commit, date string) {
	version.Set(build, commit, date)
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

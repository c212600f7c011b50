package launcher

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfig      = 2
	ExitApplication = 3
	ExitBind        = 4
)

// Phase is the launch step a startup error happened in.
type Phase string

const (
	PhaseConfig      Phase = "config"
	PhaseApplication Phase = "application"
	PhaseBind        Phase = "bind"
	PhaseServe       Phase = "serve"
)

// StartupError is a fatal launch failure.
type StartupError struct {
	Phase Phase
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for the phase.
func (e *StartupError) ExitCode() int {
	switch e.Phase {
	case PhaseConfig:
		return ExitConfig
	case PhaseApplication:
		return ExitApplication
	case PhaseBind:
		return ExitBind
	default:
		return ExitFailure
	}
}

// ExitCode maps any error returned by the CLI to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var se *StartupError
	if errors.As(err, &se) {
		return se.ExitCode()
	}
	return ExitFailure
}

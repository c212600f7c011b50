package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-connections/nat"
)

const (
	// PortEnv is the environment variable selecting the listening port.
	PortEnv = "PORT"
	// DefaultPort is used when PORT is unset or empty.
	DefaultPort = 8000
)

// ErrInvalidPort is returned when PORT holds something that is not a port number.
var ErrInvalidPort = errors.New("invalid port")

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ResolvePort reads PORT through lookup. Unset or empty yields DefaultPort;
// any value outside 1..65535 is an error, never a silent fallback.
func ResolvePort(lookup LookupFunc) (int, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	raw, ok := lookup(PortEnv)
	if !ok || raw == "" {
		return DefaultPort, nil
	}

	port, err := nat.ParsePort(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidPort, PortEnv, raw)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %s=%q is out of range 1-65535", ErrInvalidPort, PortEnv, raw)
	}

	return port, nil
}

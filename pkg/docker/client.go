package docker

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/client"
)

// Config selects the engine endpoint. An empty Sock uses DOCKER_HOST and
// the other standard docker environment variables.
type Config struct {
	Sock string
}

// NewClient initializes a Docker Engine API client.
func NewClient(config Config) (*client.Client, error) {
	opts := []client.Opt{client.WithAPIVersionNegotiation()}

	if config.Sock != "" {
		if _, err := os.Stat(config.Sock); err != nil {
			return nil, fmt.Errorf("docker socket %s: %w", config.Sock, err)
		}
		opts = append(opts, client.WithHost("unix://"+config.Sock))
	} else {
		opts = append(opts, client.FromEnv)
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Docker client: %w", err)
	}

	log.Debug("Docker client initialized", "host", cli.DaemonHost())
	return cli, nil
}

// CheckConnection pings the daemon so build failures are not blamed on the engine being down.
func CheckConnection(ctx context.Context, cli client.APIClient) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := cli.Ping(ctx); err != nil {
		return fmt.Errorf("cannot connect to Docker daemon: %w", err)
	}
	return nil
}

package launcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/simple-api/internal/config"
	"github.com/bnema/simple-api/pkg/logger"
)

// BindHost is the address every launch listens on.
const BindHost = "0.0.0.0"

// State of a launcher. The only transitions are NotStarted -> Running ->
// Terminated and NotStarted -> Terminated when startup fails.
type State int32

const (
	NotStarted State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case Running:
		return "RUNNING"
	case Terminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// ErrAlreadyStarted is returned by a second call to Run.
var ErrAlreadyStarted = errors.New("launcher already started")

// Options configure a Launcher.
type Options struct {
	// Target names the application object, DefaultTarget when empty.
	Target string
	// Lookup reads the environment, os.LookupEnv when nil.
	Lookup config.LookupFunc
	// Listen opens the listening socket, net.Listen when nil.
	Listen func(network, address string) (net.Listener, error)

	ShutdownGrace time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// Launcher resolves the port and the application object, then serves it.
type Launcher struct {
	registry *Registry
	opts     Options
	log      *logger.Logger

	started atomic.Bool
	state   atomic.Int32
	ready   chan struct{}

	mu   sync.Mutex
	addr net.Addr
}

func New(registry *Registry, l *logger.Logger, opts Options) *Launcher {
	if l == nil {
		l = logger.GetLogger()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	if opts.Listen == nil {
		opts.Listen = net.Listen
	}
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = 10 * time.Second
	}
	return &Launcher{
		registry: registry,
		opts:     opts,
		log:      l,
		ready:    make(chan struct{}),
	}
}

// State returns the current state.
func (l *Launcher) State() State {
	return State(l.state.Load())
}

// Ready is closed once the socket is bound and the launcher is Running.
func (l *Launcher) Ready() <-chan struct{} {
	return l.ready
}

// Addr returns the bound address, nil before Running.
func (l *Launcher) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addr
}

// Run launches the application and blocks until ctx is cancelled or serving
// fails. Nothing is bound unless the port, the target and the application
// initialization all succeed. A nil return means an external, graceful stop.
func (l *Launcher) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer l.state.Store(int32(Terminated))

	port, err := config.ResolvePort(l.opts.Lookup)
	if err != nil {
		return &StartupError{Phase: PhaseConfig, Err: err}
	}

	handler, target, err := l.initApplication(ctx)
	if err != nil {
		return &StartupError{Phase: PhaseApplication, Err: err}
	}

	address := net.JoinHostPort(BindHost, strconv.Itoa(port))
	ln, err := l.opts.Listen("tcp", address)
	if err != nil {
		return &StartupError{Phase: PhaseBind, Err: fmt.Errorf("listen on %s: %w", address, err)}
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       l.opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      l.opts.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	l.mu.Lock()
	l.addr = ln.Addr()
	l.mu.Unlock()
	l.state.Store(int32(Running))
	close(l.ready)
	l.log.Info("Server is listening", "address", address, "app", target.String())

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return &StartupError{Phase: PhaseServe, Err: err}
	case <-ctx.Done():
	}

	l.log.Info("Received shutdown signal, shutting down server", "grace", l.opts.ShutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), l.opts.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.log.Error("Graceful shutdown did not complete, closing connections", "error", err)
		_ = srv.Close()
	}
	<-serveErr

	l.log.Info("Shutdown complete")
	return nil
}

func (l *Launcher) initApplication(ctx context.Context) (http.Handler, Target, error) {
	target, err := ParseTarget(l.opts.Target)
	if err != nil {
		return nil, Target{}, err
	}

	factory, err := l.registry.Lookup(target)
	if err != nil {
		return nil, target, err
	}

	l.log.Debug("Initializing application", "app", target.String())
	handler, err := factory(ctx)
	if err != nil {
		return nil, target, fmt.Errorf("initialize %s: %w", target, err)
	}
	if handler == nil {
		return nil, target, fmt.Errorf("initialize %s: factory returned no handler", target)
	}
	return handler, target, nil
}

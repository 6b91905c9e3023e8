package observability

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownFunc is a cleanup hook run during graceful shutdown
type ShutdownFunc func(context.Context) error

// ShutdownManager drains HTTP servers and runs cleanup hooks on SIGINT/SIGTERM
type ShutdownManager struct {
	logger  *Logger
	servers []*http.Server
	funcs   []ShutdownFunc
	timeout time.Duration
	mu      sync.Mutex
}

// NewShutdownManager creates a shutdown manager for the given servers
func NewShutdownManager(logger *Logger, timeout time.Duration, servers ...*http.Server) *ShutdownManager {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ShutdownManager{
		logger:  logger,
		servers: servers,
		timeout: timeout,
	}
}

// Register adds a cleanup hook, run after the servers have drained
func (sm *ShutdownManager) Register(fn ShutdownFunc) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.funcs = append(sm.funcs, fn)
}

// Wait blocks until a termination signal arrives, then drains servers and
// runs the registered hooks within the timeout.
func (sm *ShutdownManager) Wait() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	sm.logger.Infof("received signal %s, starting graceful shutdown", sig)

	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()

	for _, srv := range sm.servers {
		if err := srv.Shutdown(ctx); err != nil {
			sm.logger.WithError(err).Error("HTTP server shutdown error")
		}
	}

	sm.mu.Lock()
	funcs := sm.funcs
	sm.mu.Unlock()
	for _, fn := range funcs {
		if err := fn(ctx); err != nil {
			sm.logger.WithError(err).Error("shutdown hook failed")
		}
	}
	sm.logger.Info("shutdown complete")
}

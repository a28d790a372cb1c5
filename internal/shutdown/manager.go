package shutdown

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hsv-range-finder/internal/logger"
)

const defaultTimeout = 10 * time.Second

type Shutdownable interface {
	Shutdown()
}

type registered struct {
	name      string
	component Shutdownable
}

// Manager releases registered components in reverse registration order,
// once, whether triggered by a signal or by the window closing.
type Manager struct {
	components []registered
	logger     logger.Logger
	timeout    time.Duration
	onComplete []func()
	dispatch   func(func())

	mu   sync.Mutex
	done chan struct{}
}

// NewManager returns a manager whose signal-triggered shutdown is handed to
// dispatch, so it runs on the same goroutine as the components it stops.
// A nil dispatch runs it on the signal goroutine.
func NewManager(log logger.Logger, dispatch func(func())) *Manager {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}

	return &Manager{
		logger:   log,
		timeout:  defaultTimeout,
		dispatch: dispatch,
		done:     make(chan struct{}),
	}
}

// SetTimeout bounds how long a single component may take to shut down.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d > 0 {
		m.timeout = d
	}
}

func (m *Manager) Register(name string, component Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, registered{name: name, component: component})
}

// OnComplete registers fn to run after every component has shut down.
func (m *Manager) OnComplete(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onComplete = append(m.onComplete, fn)
}

func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			m.signalled(sig)
		case <-m.done:
		}
		signal.Stop(sigChan)
	}()
}

func (m *Manager) signalled(sig os.Signal) {
	m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
		"signal": sig.String(),
	})
	m.dispatch(m.Shutdown)
}

func (m *Manager) Shutdown() {
	m.mu.Lock()

	select {
	case <-m.done:
		m.mu.Unlock()
		return
	default:
		close(m.done)
	}

	components := m.components
	hooks := m.onComplete
	timeout := m.timeout
	m.mu.Unlock()

	m.logger.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(components),
	})

	for i := len(components) - 1; i >= 0; i-- {
		if err := runWithTimeout(components[i].component, timeout); err != nil {
			m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
				"component": components[i].name,
				"timeout":   timeout,
			})
			continue
		}
		m.logger.Debug("ShutdownManager", "component stopped", map[string]interface{}{
			"component": components[i].name,
		})
	}

	m.logger.Info("ShutdownManager", "shutdown sequence completed", nil)

	for _, fn := range hooks {
		fn()
	}
}

// runWithTimeout waits for component on a helper goroutine. The caller stays
// blocked until it returns or times out, so nothing else runs on the
// caller's loop in between.
func runWithTimeout(component Shutdownable, timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		component.Shutdown()
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown exceeded %s", timeout)
	}
}

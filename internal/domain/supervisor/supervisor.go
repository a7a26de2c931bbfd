package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledhaus/matrixd/internal/domain/program"
	"github.com/ledhaus/matrixd/internal/domain/store"
	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/infrastructure/monitoring"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

// DefaultGracePeriod is how long a terminated program gets to exit before
// it is killed.
const DefaultGracePeriod = 5 * time.Second

// LiveChannel is the loopback control channel to the active display program.
type LiveChannel interface {
	SetTheme(ctx context.Context, theme string) error
	TriggerAnimation(ctx context.Context, target string) error
	PushConfig(ctx context.Context, cfg map[string]interface{}) error
	Status(ctx context.Context) (*types.ControlStatus, error)
}

// Publisher receives supervisor state change events.
type Publisher interface {
	Publish(event types.Event)
}

// running is the occupied supervisor slot.
type running struct {
	desc       *program.Descriptor
	proc       Process
	instanceID string
	startedAt  time.Time
	config     map[string]interface{}
}

// Manager owns the single display program slot: at most one child process
// at any time, every transition serialized through one mutex. Starting a
// program always stops the previous one first; a failed start leaves the
// slot Idle.
type Manager struct {
	mu       sync.Mutex
	current  *running // nil = Idle
	registry *program.Registry
	store    *store.Store
	launcher Launcher
	live     LiveChannel
	events   Publisher
	metrics  *monitoring.Metrics
	log      *logging.Logger

	grace       time.Duration
	controlPort int
}

// NewManager creates a supervisor over the given registry, store and launcher.
func NewManager(registry *program.Registry, st *store.Store, launcher Launcher, log *logging.Logger) *Manager {
	return &Manager{
		registry: registry,
		store:    st,
		launcher: launcher,
		log:      log,
		grace:    DefaultGracePeriod,
	}
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithLive attaches the loopback control channel client.
func (m *Manager) WithLive(live LiveChannel) *Manager {
	m.live = live
	return m
}

// WithEvents attaches an event publisher.
func (m *Manager) WithEvents(events Publisher) *Manager {
	m.events = events
	return m
}

// WithGrace overrides the stop grace period.
func (m *Manager) WithGrace(grace time.Duration) *Manager {
	m.grace = grace
	return m
}

// WithControlPort sets the loopback port passed to live-capable programs.
func (m *Manager) WithControlPort(port int) *Manager {
	m.controlPort = port
	return m
}

// Start launches a program, stopping whatever currently occupies the slot
// first. Overrides win over persisted values, which win over schema defaults.
// It does not wait for the child to initialize.
func (m *Manager) Start(id string, overrides map[string]interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(id, overrides)
}

func (m *Manager) startLocked(id string, overrides map[string]interface{}) (string, error) {
	desc, ok := m.registry.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProgram, id)
	}

	m.stopLocked()

	effective := program.Merge(program.Merge(desc.Defaults(), m.store.Get(id)), overrides)

	args := append([]string{}, desc.Args...)
	args = append(args, desc.Flags(effective)...)
	if desc.LiveControl && m.controlPort > 0 {
		args = append(args, fmt.Sprintf("--control-port=%d", m.controlPort))
	}

	proc, err := m.launcher.Launch(desc.Command, args)
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordLaunchFailure(id)
		}
		m.log.Error("Failed to launch program",
			zap.String("program", id),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %s: %v", ErrLaunchFailure, id, err)
	}

	m.current = &running{
		desc:       desc,
		proc:       proc,
		instanceID: uuid.New().String(),
		startedAt:  time.Now(),
		config:     effective,
	}

	if m.metrics != nil {
		m.metrics.RecordStart(id)
	}
	m.publish(types.Event{Type: types.EventProgramStarted, Program: id})
	m.log.Info("Started program",
		zap.String("program", id),
		zap.Int("pid", proc.PID()),
		zap.String("instance", m.current.instanceID),
	)
	return fmt.Sprintf("Started %s", desc.Name), nil
}

// Stop ends the running program, if any. Graceful terminate first, forced
// kill after the grace period. The slot is Idle afterward no matter what.
func (m *Manager) Stop() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return "No program running"
	}
	name := m.current.desc.Name
	m.stopLocked()
	return fmt.Sprintf("Stopped %s", name)
}

func (m *Manager) stopLocked() {
	r := m.current
	if r == nil {
		return
	}
	m.current = nil

	mode := "graceful"
	if err := r.proc.Terminate(); err != nil {
		// Best-effort cleanup: log, escalate, stay Idle.
		m.log.Warn("Failed to signal program, killing",
			zap.String("program", r.desc.ID),
			zap.Error(err),
		)
		if killErr := r.proc.Kill(); killErr != nil {
			m.log.Warn("Failed to kill program", zap.Error(killErr))
		}
		mode = "killed"
	} else {
		select {
		case <-r.proc.Done():
		case <-time.After(m.grace):
			m.log.Warn("Program did not exit in grace period, killing",
				zap.String("program", r.desc.ID),
				zap.Duration("grace", m.grace),
			)
			if killErr := r.proc.Kill(); killErr != nil {
				m.log.Warn("Failed to kill program", zap.Error(killErr))
			}
			mode = "killed"
		}
	}

	if m.metrics != nil {
		m.metrics.RecordStop(r.desc.ID, mode)
	}
	m.publish(types.Event{Type: types.EventProgramStopped, Program: r.desc.ID})
	m.log.Info("Stopped program",
		zap.String("program", r.desc.ID),
		zap.String("mode", mode),
	)
}

// UpdateConfig merges a partial update into the persisted configuration and,
// when the target program is active, restarts it so the change takes effect.
// Configuration changes always flow through a restart, never an in-place
// mutation of the child.
func (m *Manager) UpdateConfig(id string, partial map[string]interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	desc, ok := m.registry.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProgram, id)
	}

	// Coerce schema keys to their declared types; unknown keys pass through
	// to storage untouched and are dropped at the flag boundary.
	update := make(map[string]interface{}, len(partial))
	for k, v := range partial {
		if key, known := desc.KeyByName(k); known {
			coerced, err := key.Coerce(v)
			if err != nil {
				return "", fmt.Errorf("invalid value for %q: %w", k, err)
			}
			update[k] = coerced
			continue
		}
		update[k] = v
	}

	persistErr := m.store.Update(id, update)
	if persistErr != nil {
		// The in-memory set already holds the change; a restart below still
		// picks it up. Reported to the caller either way.
		m.log.Error("Failed to persist config", zap.String("program", id), zap.Error(persistErr))
	}

	if m.current != nil && m.current.desc.ID == id {
		m.stopLocked()
		if _, err := m.startLocked(id, nil); err != nil {
			return "", err
		}
	}

	m.publish(types.Event{Type: types.EventConfigUpdated, Program: id, Data: update})

	if persistErr != nil {
		return "", fmt.Errorf("%w: %v", ErrConfigPersist, persistErr)
	}
	return "Configuration updated", nil
}

// Config returns the effective stored configuration for a program: schema
// defaults overlaid with persisted values.
func (m *Manager) Config(id string) (map[string]interface{}, error) {
	desc, ok := m.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, id)
	}
	return program.Merge(desc.Defaults(), m.store.Get(id)), nil
}

// SetDefault persists the program auto-started on boot.
func (m *Manager) SetDefault(id string) (string, error) {
	if _, ok := m.registry.Get(id); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProgram, id)
	}
	if err := m.store.SetDefaultProgram(id); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfigPersist, err)
	}
	m.publish(types.Event{Type: types.EventDefaultChanged, Program: id})
	return fmt.Sprintf("Default project set to %s", id), nil
}

// AutoStart launches the persisted default program, if one is set.
func (m *Manager) AutoStart() error {
	id := m.store.DefaultProgram()
	if id == "" {
		return nil
	}
	m.log.Info("Auto-starting default program", zap.String("program", id))
	_, err := m.Start(id, nil)
	return err
}

// Status reports the slot state. Pure read apart from reaping a child that
// exited on its own.
func (m *Manager) Status() types.SupervisorStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reapLocked()

	status := types.SupervisorStatus{
		Running:           m.current != nil,
		DefaultProgram:    m.store.DefaultProgram(),
		AvailablePrograms: m.registry.Names(),
	}
	if m.current != nil {
		id := m.current.desc.ID
		name := m.current.desc.Name
		instance := m.current.instanceID
		started := m.current.startedAt
		status.CurrentProgram = &id
		status.CurrentProgramName = &name
		status.InstanceID = &instance
		status.StartedAt = &started
	}
	return status
}

// ActiveConfig returns the effective configuration the running program was
// launched with, or nil when Idle.
func (m *Manager) ActiveConfig() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	cfg := make(map[string]interface{}, len(m.current.config))
	for k, v := range m.current.config {
		cfg[k] = v
	}
	return cfg
}

// reapLocked clears the slot when the child exited on its own.
func (m *Manager) reapLocked() {
	if m.current == nil {
		return
	}
	select {
	case <-m.current.proc.Done():
		r := m.current
		m.current = nil
		if m.metrics != nil {
			m.metrics.RecordStop(r.desc.ID, "exited")
		}
		m.publish(types.Event{Type: types.EventProgramStopped, Program: r.desc.ID})
		m.log.Warn("Program exited on its own", zap.String("program", r.desc.ID))
	default:
	}
}

// Shutdown stops any running program. Called on daemon exit.
func (m *Manager) Shutdown() {
	m.log.Info("Supervisor shutting down")
	m.Stop()
}

func (m *Manager) publish(event types.Event) {
	if m.events == nil {
		return
	}
	event.Timestamp = time.Now()
	m.events.Publish(event)
}

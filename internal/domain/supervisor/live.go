package supervisor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ledhaus/matrixd/internal/shared/types"
)

// liveTarget returns the active program's ID when it supports the loopback
// channel, or an error otherwise.
func (m *Manager) liveTarget() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reapLocked()
	if m.current == nil {
		return "", fmt.Errorf("%w: no program running", ErrLiveUnreachable)
	}
	if !m.current.desc.LiveControl || m.live == nil {
		return "", fmt.Errorf("%w: %s does not support live control", ErrLiveUnreachable, m.current.desc.ID)
	}
	return m.current.desc.ID, nil
}

func (m *Manager) recordLive(op string, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	if m.metrics != nil {
		m.metrics.RecordLivePush(op, status)
	}
}

// LiveTheme switches the active program's theme over the loopback channel.
// Fire-and-forget: failure degrades to an ErrLiveUnreachable, never fatal.
func (m *Manager) LiveTheme(ctx context.Context, theme string) error {
	id, err := m.liveTarget()
	if err != nil {
		return err
	}
	err = m.live.SetTheme(ctx, theme)
	m.recordLive("set_theme", err)
	if err != nil {
		m.log.Warn("Live theme push failed", zap.String("program", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrLiveUnreachable, err)
	}
	return nil
}

// LiveAnimation triggers a transition on the active program.
func (m *Manager) LiveAnimation(ctx context.Context, target string) error {
	id, err := m.liveTarget()
	if err != nil {
		return err
	}
	err = m.live.TriggerAnimation(ctx, target)
	m.recordLive("trigger_animation", err)
	if err != nil {
		m.log.Warn("Live animation trigger failed", zap.String("program", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrLiveUnreachable, err)
	}
	return nil
}

// LiveConfig persists a partial update for the active program, then pushes
// it over the loopback channel. A failed push is partial success: the stored
// configuration is updated, the live program was not reached.
func (m *Manager) LiveConfig(ctx context.Context, partial map[string]interface{}) error {
	id, err := m.liveTarget()
	if err != nil {
		return err
	}

	if err := m.store.Update(id, partial); err != nil {
		m.log.Error("Failed to persist live config", zap.String("program", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrConfigPersist, err)
	}

	err = m.live.PushConfig(ctx, partial)
	m.recordLive("push_config", err)
	if err != nil {
		m.log.Warn("Live config push failed, stored config only",
			zap.String("program", id),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrLiveUnreachable, err)
	}
	return nil
}

// LiveStatus queries the active program's state over the loopback channel.
func (m *Manager) LiveStatus(ctx context.Context) (*types.ControlStatus, error) {
	_, err := m.liveTarget()
	if err != nil {
		return nil, err
	}
	status, err := m.live.Status(ctx)
	m.recordLive("get_status", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLiveUnreachable, err)
	}
	return status, nil
}

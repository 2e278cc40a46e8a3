// internal/service/workflow/monitor.go

package workflow

import (
	"context"
	"sync/atomic"
	"time"

	"resonance/internal/domain/optimization"
	"resonance/internal/logger"
)

// Monitor polls the store and streams workflow changes to watchers
type Monitor struct {
	store    Store
	interval time.Duration
	logger   *logger.Logger
}

// NewMonitor creates a monitor polling at interval
func NewMonitor(store Store, interval time.Duration, log *logger.Logger) *Monitor {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Monitor{
		store:    store,
		interval: interval,
		logger:   log,
	}
}

// Session is one running watch. The active flag is checked before every emitted update.
type Session struct {
	id     string
	active atomic.Bool
	done   chan struct{}
}

// Stop clears the active flag; the watch loop exits before its next update
func (s *Session) Stop() {
	s.active.Store(false)
}

// Active reports whether the session still emits updates
func (s *Session) Active() bool {
	return s.active.Load()
}

// Done is closed when the watch loop has exited
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Watch starts a session for workflow id. emit receives the record whenever
// its status, progress or warnings change, and once more when it is terminal.
func (m *Monitor) Watch(ctx context.Context, id string, emit func(optimization.Workflow) error) *Session {
	s := &Session{id: id, done: make(chan struct{})}
	s.active.Store(true)

	go m.loop(ctx, s, emit)
	return s
}

func (m *Monitor) loop(ctx context.Context, s *Session, emit func(optimization.Workflow) error) {
	defer close(s.done)
	defer s.active.Store(false)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var last *optimization.Workflow
	for {
		if !s.active.Load() {
			return
		}

		result, err := m.store.Get(ctx, s.id)
		if err != nil {
			m.logger.Debug("Stopping workflow watch", "workflow_id", s.id, "error", err)
			return
		}
		wf := result.Workflow

		if last == nil || changed(*last, wf) {
			if !s.active.Load() {
				return
			}
			if err := emit(wf); err != nil {
				m.logger.Debug("Workflow watcher went away", "workflow_id", s.id, "error", err)
				return
			}
			last = &wf
		}

		if wf.Status.Terminal() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func changed(prev, next optimization.Workflow) bool {
	return prev.Status != next.Status ||
		prev.Progress != next.Progress ||
		prev.CurrentStep != next.CurrentStep ||
		len(prev.Warnings) != len(next.Warnings)
}

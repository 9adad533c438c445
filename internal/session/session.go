// Package session provides batch-ingestion lifecycle bookkeeping: one
// active session at a time, accumulating per-row classification logs and
// errors, with derived metrics and an overall quality gate.
package session

import (
	"sync"
	"time"

	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/logging"
	"github.com/venuelog/sheetsync/internal/models"
	"github.com/venuelog/sheetsync/internal/uuid"
)

// State is the session lifecycle state. Every mutating call checks it
// explicitly; there is no implicit nil-session behavior.
type State int

const (
	StateNoSession State = iota
	StateActive
	StateSealed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNoSession:
		return "no_session"
	case StateActive:
		return "active"
	case StateSealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// successThreshold is the confidence a match must strictly exceed to count
// as a success in metrics and validation.
const successThreshold = 0.7

// Manager owns the single active session and the sealed history.
type Manager struct {
	mu      sync.Mutex
	state   State
	current *models.SyncSession
	history []*models.SyncSession
	now     func() time.Time
}

// NewManager creates a Manager using the wall clock.
func NewManager() *Manager {
	return NewManagerWithClock(time.Now)
}

// NewManagerWithClock creates a Manager with an explicit clock.
func NewManagerWithClock(clock func() time.Time) *Manager {
	return &Manager{state: StateNoSession, now: clock}
}

// Start begins a new session with a fresh identity and zeroed counters.
// An unfinished active session is discarded, not archived.
func (m *Manager) Start() *models.SyncSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateActive {
		logging.Warn("discarding unfinished session", map[string]interface{}{
			"session_id": m.current.ID.String(),
		})
	}

	m.current = &models.SyncSession{
		ID:        models.UUID(uuid.New()),
		StartTime: m.now(),
	}
	m.state = StateActive

	logging.Info("session started", map[string]interface{}{
		"session_id": m.current.ID.String(),
	})
	return m.current
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the active session, or nil when none is active.
func (m *Manager) Current() *models.SyncSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return nil
	}
	return m.current
}

// SetTotalEvents records how many data rows the batch contains.
// No-op unless a session is active.
func (m *Manager) SetTotalEvents(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return
	}
	m.current.TotalEvents = n
}

// IncrementProcessed counts one successfully processed row.
// No-op unless a session is active.
func (m *Manager) IncrementProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return
	}
	m.current.ProcessedEvents++
}

// AddColorMatch appends a classification log to the active session.
// No-op unless a session is active.
func (m *Manager) AddColorMatch(entry *models.ColorMatchLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive || entry == nil {
		return
	}
	m.current.Matches = append(m.current.Matches, entry)
}

// AddError records a batch-level error. No-op unless a session is active.
func (m *Manager) AddError(err error) {
	m.addError(err, 0)
}

// AddRowError records an error scoped to one sheet line.
// No-op unless a session is active.
func (m *Manager) AddRowError(line int, err error) {
	m.addError(err, line)
}

func (m *Manager) addError(err error, line int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive || err == nil {
		return
	}
	m.current.Errors = append(m.current.Errors, models.SessionError{
		Message:   err.Error(),
		Line:      line,
		Timestamp: m.now(),
	})
}

// End seals the active session and appends it to the history.
// No-op unless a session is active.
func (m *Manager) End() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return
	}

	end := m.now()
	m.current.EndTime = &end
	m.history = append(m.history, m.current)
	m.state = StateSealed

	logging.Info("session sealed", map[string]interface{}{
		"session_id": m.current.ID.String(),
		"processed":  m.current.ProcessedEvents,
		"matches":    len(m.current.Matches),
		"errors":     len(m.current.Errors),
	})
}

// Metrics computes a read-only snapshot of the active session. Requesting
// metrics without an active session is a caller ordering error and fails
// with NO_ACTIVE_SESSION.
func (m *Manager) Metrics() (*models.SyncMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return nil, errors.New(errors.ErrNoActiveSession, "no active session")
	}

	metrics := &models.SyncMetrics{
		ErrorFrequency: make(map[string]int),
	}

	if n := len(m.current.Matches); n > 0 {
		success := 0
		for _, match := range m.current.Matches {
			if match.Final.Confidence > successThreshold {
				success++
			}
		}
		metrics.ColorMatchSuccessRate = float64(success) / float64(n)
	}

	if m.current.ProcessedEvents > 0 {
		elapsed := m.now().Sub(m.current.StartTime)
		metrics.AverageProcessingTime = elapsed / time.Duration(m.current.ProcessedEvents)
	}

	for _, e := range m.current.Errors {
		metrics.ErrorFrequency[e.Message]++
	}

	return metrics, nil
}

// Validate is the session-level integrity gate. It fails without an active
// session, answers false when no matches were recorded, and otherwise
// requires at least 90% of recorded matches to clear the confidence
// threshold. The boundary is integer-exact: 9 of 10 passes.
func (m *Manager) Validate() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return false, errors.New(errors.ErrNoActiveSession, "no active session")
	}

	total := len(m.current.Matches)
	if total == 0 {
		return false, nil
	}

	success := 0
	for _, match := range m.current.Matches {
		if match.Final.Confidence > successThreshold {
			success++
		}
	}

	return success*10 >= total*9, nil
}

// History returns the sealed sessions in completion order.
func (m *Manager) History() []*models.SyncSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.SyncSession, len(m.history))
	copy(out, m.history)
	return out
}

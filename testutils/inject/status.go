package inject

import "sync"

// StatusSink records every status it is given.
type StatusSink struct {
	mu       sync.Mutex
	statuses []string
}

// SetStatus records status.
func (s *StatusSink) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

// Statuses returns every recorded status in order.
func (s *StatusSink) Statuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statuses...)
}

// Last returns the latest status, or "".
func (s *StatusSink) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statuses) == 0 {
		return ""
	}
	return s.statuses[len(s.statuses)-1]
}

// Trigger records enable and disable calls.
type Trigger struct {
	mu      sync.Mutex
	history []bool
}

// SetEnabled records enabled.
func (t *Trigger) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, enabled)
}

// History returns every recorded call in order.
func (t *Trigger) History() []bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]bool(nil), t.history...)
}

// Enabled reports the current state. A trigger starts enabled.
func (t *Trigger) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history) == 0 || t.history[len(t.history)-1]
}

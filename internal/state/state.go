// Package state keeps a thread-safe record of the navigation session: the
// latest frame, a trail of past camera positions and a log of navigation
// events.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/camera"
)

// EventType represents the type of navigation event.
type EventType string

const (
	EventMoveStarted   EventType = "MOVE_STARTED"
	EventMidpoint      EventType = "MIDPOINT"
	EventMoveComplete  EventType = "MOVE_COMPLETE"
	EventMoveCancelled EventType = "MOVE_CANCELLED"
	EventSnap          EventType = "SNAP"
	EventModeChanged   EventType = "MODE_CHANGED"
)

// Event represents a change in the navigation state.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SimTime   time.Time `json:"sim_time"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Zoom      float64   `json:"zoom"`
	Mode      string    `json:"mode,omitempty"`
	OldMode   string    `json:"old_mode,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Frame summarizes one rendered frame.
type Frame struct {
	Timestamp time.Time
	SimTime   time.Time
	JulianDay float64
	Mode      string
	View      camera.Parameters
	Moving    bool
	Duration  time.Duration
}

// HistoryEntry is one point on the camera trail.
type HistoryEntry struct {
	Timestamp time.Time
	Camera    camera.Parameters
}

// Manager handles shared navigation state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	current   Frame
	hasFrame  bool
	frames    uint64
	totalTime time.Duration

	// Camera trail
	history         []HistoryEntry
	maxHistoryLen   int
	historyInterval time.Duration

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	HistoryInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120, // One minute of trail at 2 samples/s
		MaxEvents:       50,
		HistoryInterval: 500 * time.Millisecond,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		historyInterval: cfg.HistoryInterval,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
	}
}

// Update records a rendered frame. Mode switches and the start and end of
// camera motion are detected against the previous frame.
func (m *Manager) Update(f Frame) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.detectEvents(f)

	m.current = f
	m.hasFrame = true
	m.frames++
	m.totalTime += f.Duration

	if len(m.history) == 0 || f.Timestamp.Sub(m.history[len(m.history)-1].Timestamp) >= m.historyInterval {
		m.history = append(m.history, HistoryEntry{Timestamp: f.Timestamp, Camera: f.View})
		if len(m.history) > m.maxHistoryLen {
			m.history = m.history[1:]
		}
	}
}

// detectEvents compares a new frame with the previous one and generates
// events.
func (m *Manager) detectEvents(f Frame) {
	if !m.hasFrame {
		return
	}
	prev := m.current

	if prev.Mode != f.Mode {
		e := eventAt(EventModeChanged, f)
		e.OldMode = prev.Mode
		m.addEvent(e)
	}
	switch {
	case !prev.Moving && f.Moving:
		m.addEvent(eventAt(EventMoveStarted, f))
	case prev.Moving && !f.Moving:
		m.addEvent(eventAt(EventMoveComplete, f))
	}
}

func eventAt(t EventType, f Frame) Event {
	return Event{
		Type:      t,
		Timestamp: f.Timestamp,
		SimTime:   f.SimTime,
		Lat:       f.View.Lat,
		Lng:       f.View.Lng,
		Zoom:      f.View.Zoom,
		Mode:      f.Mode,
	}
}

// Record adds an event that cannot be derived from frame-to-frame changes,
// such as a slew midpoint or an instant snap.
func (m *Manager) Record(e Event) {
	if m == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Frame        Frame
	Frames       uint64
	AvgFrameTime time.Duration
	History      []HistoryEntry
	Events       []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]HistoryEntry, len(m.history))
	copy(hist, m.history)

	var avg time.Duration
	if m.frames > 0 {
		avg = m.totalTime / time.Duration(m.frames)
	}

	return Snapshot{
		Frame:        m.current,
		Frames:       m.frames,
		AvgFrameTime: avg,
		History:      hist,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasFrame returns true once at least one frame has been recorded.
func (m *Manager) HasFrame() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasFrame
}

// DistanceTravelled returns the summed great-circle distance in degrees
// along the camera trail.
func (m *Manager) DistanceTravelled() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total float64
	for i := 1; i < len(m.history); i++ {
		a, b := m.history[i-1].Camera, m.history[i].Camera
		total += astro.AngularSeparation(a.Lng, a.Lat, b.Lng, b.Lat)
	}
	return total
}

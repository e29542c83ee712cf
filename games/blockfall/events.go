package blockfall

import (
	"fmt"
	"time"
)

// EventType classifies a notification raised during a step.
type EventType uint8

const (
	EventPowerUpSpawned EventType = iota + 1
	EventPowerUpTriggered
	EventLinesCleared
	EventLevelUp
	EventFeverStarted
	EventGameOver
)

var eventNames = map[EventType]string{
	EventPowerUpSpawned:   "powerup_spawned",
	EventPowerUpTriggered: "powerup_triggered",
	EventLinesCleared:     "lines_cleared",
	EventLevelUp:          "level_up",
	EventFeverStarted:     "fever_started",
	EventGameOver:         "game_over",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is a transient notification for sound, effects and toasts.
// Fields that do not apply to the event type are left zero.
type Event struct {
	Type    EventType     `json:"type"`
	At      time.Duration `json:"at"`
	PowerUp PowerUp       `json:"powerUp,omitempty"`
	Cell    Point         `json:"cell"`
	Cause   Cause         `json:"cause,omitempty"`
	Lines   int           `json:"lines,omitempty"`
	Level   int           `json:"level,omitempty"`
	Score   int           `json:"score,omitempty"`
}

func (s *Session) emit(e Event) {
	e.At = s.now
	s.events = append(s.events, e)
}

// DrainEvents returns the events raised since the last call and forgets them.
func (s *Session) DrainEvents() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := s.events
	s.events = nil
	return out
}

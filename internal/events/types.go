package events

import (
	"time"
)

// Event is the base interface for all arena events
type Event interface {
	// Type returns the event type as a string for filtering and logging
	Type() string
	// Timestamp returns when the event occurred
	Timestamp() time.Time
	// TournamentID returns the ID of the tournament this event belongs to
	TournamentID() string
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	EventType  string    `json:"type"`
	Time       time.Time `json:"timestamp"`
	Tournament string    `json:"tournament_id"`
}

// Type implements Event interface
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp implements Event interface
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// TournamentID implements Event interface
func (e BaseEvent) TournamentID() string {
	return e.Tournament
}

func newBase(eventType, tournamentID string) BaseEvent {
	return BaseEvent{
		EventType:  eventType,
		Time:       time.Now(),
		Tournament: tournamentID,
	}
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber represents an entity that can receive events
type Subscriber interface {
	// ID returns a unique identifier for this subscriber
	ID() string
	// HandleEvent processes an event
	HandleEvent(Event)
	// InterestedIn returns true if the subscriber wants to receive this event type
	InterestedIn(eventType string) bool
}

// Lifecycle is implemented by subscribers holding a resource for the
// duration of a tournament, such as an open transcript file
type Lifecycle interface {
	Open() error
	Close() error
}

// Publisher delivers events and forwards the tournament lifecycle to its subscribers
type Publisher interface {
	Lifecycle
	Publish(Event)
}

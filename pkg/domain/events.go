package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAnswer EventType = "answer"
	EventReject EventType = "reject"
	EventSeed   EventType = "seed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// AnswerEvent is emitted after an answer was accepted and its cascade applied.
type AnswerEvent struct {
	EventBase
	NodeID   string   `json:"node_id"`
	Option   string   `json:"option"`
	Previous string   `json:"previous,omitempty"`
	Cleared  []string `json:"cleared,omitempty"`
}

// RejectEvent is emitted when an answer is refused. The store is unchanged.
type RejectEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Option string `json:"option"`
	Err    error  `json:"-"`
}

// SeedEvent is emitted after an engine was re-seeded from persisted answers.
type SeedEvent struct {
	EventBase
	Restored int      `json:"restored"`
	Dropped  []string `json:"dropped,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnAnswer func(context.Context, *AnswerEvent)
	OnReject func(context.Context, *RejectEvent)
	OnSeed   func(context.Context, *SeedEvent)
}

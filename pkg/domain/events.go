package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBuildStart EventType = "build_start"
	EventBuildDone  EventType = "build_done"
	EventNodeBuilt  EventType = "node_built"
	EventNodeFailed EventType = "node_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Source    string    `json:"source,omitempty"`
}

// BuildEvent marks the start or the end of a resolution pass.
type BuildEvent struct {
	EventBase
	Nodes    int           `json:"nodes"`
	Seed     int64         `json:"seed"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// NodeEvent reports the construction of a single node.
type NodeEvent struct {
	EventBase
	Node     string        `json:"node"`
	Spec     SpecKind      `json:"spec"`
	Target   string        `json:"target,omitempty"`
	Kind     ValueKind     `json:"kind"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Hooks defines callbacks for builder observability. Nil fields are skipped.
type Hooks struct {
	OnBuildStart func(context.Context, *BuildEvent)
	OnBuildDone  func(context.Context, *BuildEvent)
	OnNodeBuilt  func(context.Context, *NodeEvent)
	OnNodeFailed func(context.Context, *NodeEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnBuildStart: chain(h.OnBuildStart, other.OnBuildStart),
		OnBuildDone:  chain(h.OnBuildDone, other.OnBuildDone),
		OnNodeBuilt:  chain(h.OnNodeBuilt, other.OnNodeBuilt),
		OnNodeFailed: chain(h.OnNodeFailed, other.OnNodeFailed),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

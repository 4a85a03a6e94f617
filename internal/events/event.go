// Package events carries audit events describing membership and lifecycle
// changes to downstream consumers.
package events

import (
	"context"
	"sync"
	"time"
)

const (
	TypeGroupCreated      = "group.created"
	TypeGroupDeleted      = "group.deleted"
	TypeMemberAdded       = "membership.added"
	TypeMemberRemoved     = "membership.removed"
	TypeMemberRoleChanged = "membership.role_changed"
	TypeUserRegistered    = "user.registered"
	TypeUserDeleted       = "user.deleted"
)

type Event struct {
	Type       string    `json:"type"`
	ActorID    string    `json:"actor_id,omitempty"`
	GroupID    string    `json:"group_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Role       string    `json:"role,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events after the originating unit of work commits.
// Delivery is best effort; callers do not roll back on failure.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error {
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	r.Events = append(r.Events, event)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.Events))
	for _, event := range r.Events {
		types = append(types, event.Type)
	}
	return types
}

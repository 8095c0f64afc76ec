package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransitionEvent is emitted after a transition commits. It is ephemeral:
// delivery to the dispatcher is best-effort and at-least-once consumers must
// tolerate duplicates.
type TransitionEvent struct {
	EventID       uuid.UUID
	UserID        int64
	Target        TargetRef
	TargetOwnerID int64
	From          State
	To            State
	ReactionID    int64
	LikeDelta     int
	DislikeDelta  int
	OccurredAt    time.Time
}

// Dispatcher receives transition events for side effects (notifications,
// experience points). Publish must not block the caller.
type Dispatcher interface {
	Publish(event TransitionEvent)
}

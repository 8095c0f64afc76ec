package dispatch

import (
	"context"
	"log/slog"

	"github.com/mhellwig/forumpulse/internal/domain"
)

// LogNotifier writes transition events to the structured log. It stands in
// for a real notification backend and doubles as an audit trail.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, event domain.TransitionEvent) error {
	slog.Info("Reaction transition",
		"event_id", event.EventID.String(),
		"user_id", event.UserID,
		"target", event.Target.String(),
		"owner_id", event.TargetOwnerID,
		"from", event.From.String(),
		"to", event.To.String(),
		"like_delta", event.LikeDelta,
		"dislike_delta", event.DislikeDelta)
	return nil
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mhellwig/forumpulse/internal/domain"
	"github.com/mhellwig/forumpulse/internal/metrics"
)

// Service is the application layer. It orchestrates all reaction use cases.
type Service struct {
	reactions  domain.ReactionRepository
	targets    domain.TargetRepository
	cache      domain.ReactionCache
	dispatcher domain.Dispatcher
	clock      clockwork.Clock
}

// NewService creates the application layer service.
// dispatcher may be nil if side effects are not configured.
func NewService(reactions domain.ReactionRepository, targets domain.TargetRepository, cache domain.ReactionCache, dispatcher domain.Dispatcher, clock clockwork.Clock) *Service {
	return &Service{
		reactions:  reactions,
		targets:    targets,
		cache:      cache,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Apply executes a reaction action for a user against a target. It verifies
// the target exists, commits the transition against the authoritative store,
// patches the cache, and publishes a transition event.
//
// Cache and dispatch failures never surface to the caller: the store has
// already committed, so the cache degrades to re-hydration and the event is
// dropped.
func (s *Service) Apply(ctx context.Context, userID int64, target domain.TargetRef, action domain.Action) (*domain.TransitionResult, error) {
	// Cheap existence check before opening a transaction. The counter update
	// inside the transaction re-verifies, so a concurrent delete is still safe.
	tgt, err := s.targets.GetTarget(ctx, target)
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(action), outcomeOf(err)).Inc()
		return nil, err
	}

	result, err := s.reactions.ApplyTransition(ctx, userID, target, action)
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(action), outcomeOf(err)).Inc()
		return nil, err
	}
	metrics.TransitionsTotal.WithLabelValues(string(action), "applied").Inc()

	s.patchCache(ctx, userID, target, result)

	if s.dispatcher != nil {
		s.dispatcher.Publish(domain.TransitionEvent{
			EventID:       uuid.New(),
			UserID:        userID,
			Target:        target,
			TargetOwnerID: tgt.OwnerUserID,
			From:          result.From,
			To:            result.To,
			ReactionID:    result.ReactionID,
			LikeDelta:     result.LikeDelta,
			DislikeDelta:  result.DislikeDelta,
			OccurredAt:    s.clock.Now(),
		})
	}

	return result, nil
}

// patchCache applies the committed transition to the membership sets. If the
// incremental patch fails, the target's cache entries are dropped so the next
// read re-hydrates from the store.
func (s *Service) patchCache(ctx context.Context, userID int64, target domain.TargetRef, result *domain.TransitionResult) {
	if err := s.cache.ApplyTransition(ctx, userID, target, result.From, result.To); err != nil {
		slog.Warn("Cache patch failed, invalidating target", "target", target.String(), "error", err)
		if invErr := s.cache.Invalidate(ctx, target); invErr != nil {
			slog.Error("Cache invalidation failed, entries may be stale until TTL expiry", "target", target.String(), "error", invErr)
		}
	}
}

// Status reports whether the user has liked or disliked the target. Cache
// errors fall back to the authoritative store.
func (s *Service) Status(ctx context.Context, userID int64, target domain.TargetRef) (domain.ReactionStatus, error) {
	liked, likedErr := s.cache.IsLiked(ctx, userID, target)
	disliked, dislikedErr := s.cache.IsDisliked(ctx, userID, target)
	if likedErr == nil && dislikedErr == nil {
		return domain.ReactionStatus{Liked: liked, Disliked: disliked}, nil
	}

	metrics.CacheFallbacksTotal.WithLabelValues("status").Inc()
	reaction, err := s.reactions.GetReaction(ctx, userID, target)
	if err != nil {
		return domain.ReactionStatus{}, fmt.Errorf("failed to read reaction status: %w", err)
	}
	if reaction == nil {
		return domain.ReactionStatus{}, nil
	}
	return domain.ReactionStatus{
		Liked:    reaction.Kind == domain.KindLike,
		Disliked: reaction.Kind == domain.KindDislike,
	}, nil
}

// Counts returns the like and dislike counts for a target. Cache errors fall
// back to the authoritative counters. A missing target is ErrTargetNotFound.
func (s *Service) Counts(ctx context.Context, target domain.TargetRef) (likes, dislikes int64, err error) {
	// The cache cannot distinguish "zero reactions" from "target was deleted",
	// so verify existence against the store first.
	tgt, err := s.targets.GetTarget(ctx, target)
	if err != nil {
		return 0, 0, err
	}

	likes, likesErr := s.cache.LikeCount(ctx, target)
	dislikes, dislikesErr := s.cache.DislikeCount(ctx, target)
	if likesErr == nil && dislikesErr == nil {
		return likes, dislikes, nil
	}

	metrics.CacheFallbacksTotal.WithLabelValues("counts").Inc()
	return int64(tgt.LikeCount), int64(tgt.DislikeCount), nil
}

// BatchStatus resolves the user's reaction status for many targets of one
// type in a single store query, bypassing the cache. Targets without a
// reaction map to the zero status.
func (s *Service) BatchStatus(ctx context.Context, userID int64, targetType domain.TargetType, targetIDs []int64) (map[int64]domain.ReactionStatus, error) {
	statuses := make(map[int64]domain.ReactionStatus, len(targetIDs))
	for _, id := range targetIDs {
		statuses[id] = domain.ReactionStatus{}
	}
	if len(targetIDs) == 0 {
		return statuses, nil
	}

	reactions, err := s.reactions.ListReactionsForUser(ctx, userID, targetType, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve batch reaction status: %w", err)
	}

	for _, r := range reactions {
		statuses[r.Target.ID] = domain.ReactionStatus{
			Liked:    r.Kind == domain.KindLike,
			Disliked: r.Kind == domain.KindDislike,
		}
	}
	return statuses, nil
}

// WarmTarget hydrates the cache for a target ahead of expected traffic.
// Best-effort.
func (s *Service) WarmTarget(ctx context.Context, target domain.TargetRef) error {
	return s.cache.Warm(ctx, target)
}

// WarmTargets hydrates the cache for a page of targets. Failures are logged
// per target; the returned count is how many warmed successfully.
func (s *Service) WarmTargets(ctx context.Context, targetType domain.TargetType, targetIDs []int64) int {
	warmed := 0
	for _, id := range targetIDs {
		target := domain.TargetRef{Type: targetType, ID: id}
		if err := s.cache.Warm(ctx, target); err != nil {
			slog.Warn("Cache warmup failed", "target", target.String(), "error", err)
			continue
		}
		warmed++
	}
	return warmed
}

func outcomeOf(err error) string {
	if domain.IsBusinessError(err) {
		return "rejected"
	}
	return "error"
}

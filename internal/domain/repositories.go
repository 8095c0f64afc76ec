package domain

import "context"

// TransitionResult reports a committed transition.
type TransitionResult struct {
	From         State
	To           State
	ReactionID   int64
	LikeDelta    int
	DislikeDelta int
}

// ReactionRepository is the authoritative store accessor for reaction rows
// and per-target counters.
type ReactionRepository interface {
	// ApplyTransition performs the row read, transition resolution, row
	// mutation, and relative counter update inside a single transaction.
	ApplyTransition(ctx context.Context, userID int64, target TargetRef, action Action) (*TransitionResult, error)

	// GetReaction returns the reaction row for (userID, target), or nil when
	// the user has not reacted.
	GetReaction(ctx context.Context, userID int64, target TargetRef) (*Reaction, error)

	// ListReactionsForTarget returns every reaction row for a target. Backs
	// cache hydration.
	ListReactionsForTarget(ctx context.Context, target TargetRef) ([]Reaction, error)

	// ListReactionsForUser returns the user's reaction rows across the given
	// targets of one type. Backs the batch status path.
	ListReactionsForUser(ctx context.Context, userID int64, targetType TargetType, targetIDs []int64) ([]Reaction, error)
}

// TargetRepository reads the entities reactions attach to.
type TargetRepository interface {
	// GetTarget returns the target row with its authoritative counters, or
	// ErrTargetNotFound.
	GetTarget(ctx context.Context, ref TargetRef) (*Target, error)
}

// ReactionCache is the cache coherence layer over the membership sets.
// Implementations must hydrate lazily and guard against stampedes; callers
// treat every error as "fall back to the store".
type ReactionCache interface {
	IsLiked(ctx context.Context, userID int64, target TargetRef) (bool, error)
	IsDisliked(ctx context.Context, userID int64, target TargetRef) (bool, error)
	LikeCount(ctx context.Context, target TargetRef) (int64, error)
	DislikeCount(ctx context.Context, target TargetRef) (int64, error)

	// ApplyTransition incrementally patches the membership sets for a
	// committed transition. Only hydrated sides are touched.
	ApplyTransition(ctx context.Context, userID int64, target TargetRef, from, to State) error

	// Invalidate drops all cache entries for the target, forcing
	// re-hydration on the next read.
	Invalidate(ctx context.Context, target TargetRef) error

	// Warm hydrates the target if it is not already hydrated. Best-effort.
	Warm(ctx context.Context, target TargetRef) error
}

package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mhellwig/forumpulse/internal/domain"
	"github.com/mhellwig/forumpulse/internal/metrics"
)

// ReactionLister is the slice of the authoritative store the cache hydrates
// from.
type ReactionLister interface {
	ListReactionsForTarget(ctx context.Context, target domain.TargetRef) ([]domain.Reaction, error)
}

// ReactionCache implements domain.ReactionCache on Redis sets.
type ReactionCache struct {
	rdb   *goredis.Client
	store ReactionLister
	ttl   time.Duration
	locks *keyedMutex
}

func NewReactionCache(rdb *goredis.Client, store ReactionLister, ttl time.Duration) *ReactionCache {
	return &ReactionCache{
		rdb:   rdb,
		store: store,
		ttl:   ttl,
		locks: newKeyedMutex(),
	}
}

const syncedSuffix = ":synced"

func likeKey(t domain.TargetRef) string {
	return fmt.Sprintf("%s:likes:%d", t.Type, t.ID)
}

func dislikeKey(t domain.TargetRef) string {
	return fmt.Sprintf("%s:dislikes:%d", t.Type, t.ID)
}

// sideState classifies one side (likes or dislikes) of a target's cache.
type sideState int

const (
	// sideAbsent: neither set nor sentinel exists; the side needs hydration.
	sideAbsent sideState = iota
	// sideSet: a membership set exists.
	sideSet
	// sideEmptyVerified: the store was checked and this side has no members.
	sideEmptyVerified
)

func (s sideState) hydrated() bool {
	return s != sideAbsent
}

func classifySide(setExists, sentinelExists bool) sideState {
	switch {
	case setExists:
		return sideSet
	case sentinelExists:
		return sideEmptyVerified
	default:
		return sideAbsent
	}
}

// hydrationState performs the batched existence check across the four keys
// of a target (set and sentinel per side) in a single pipeline round trip.
func (c *ReactionCache) hydrationState(ctx context.Context, target domain.TargetRef) (likeSide, dislikeSide sideState, err error) {
	lk, dk := likeKey(target), dislikeKey(target)

	pipe := c.rdb.Pipeline()
	cmds := []*goredis.IntCmd{
		pipe.Exists(ctx, lk),
		pipe.Exists(ctx, lk+syncedSuffix),
		pipe.Exists(ctx, dk),
		pipe.Exists(ctx, dk+syncedSuffix),
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return sideAbsent, sideAbsent, fmt.Errorf("existence check pipeline failed: %w", err)
	}

	likeSide = classifySide(cmds[0].Val() == 1, cmds[1].Val() == 1)
	dislikeSide = classifySide(cmds[2].Val() == 1, cmds[3].Val() == 1)
	return likeSide, dislikeSide, nil
}

// ensureHydrated makes sure both sides of the target are present in the
// cache, hydrating from the store when either is absent.
func (c *ReactionCache) ensureHydrated(ctx context.Context, target domain.TargetRef) error {
	likeSide, dislikeSide, err := c.hydrationState(ctx, target)
	if err != nil {
		return err
	}
	if likeSide.hydrated() && dislikeSide.hydrated() {
		return nil
	}
	return c.hydrate(ctx, target)
}

// hydrate rebuilds both membership sets of a target from the store under the
// per-target lock. Callers that queued on the lock while another hydration
// was in flight find the cache warm on the re-check and return immediately.
func (c *ReactionCache) hydrate(ctx context.Context, target domain.TargetRef) error {
	unlock := c.locks.Lock(target.String())
	defer unlock()

	likeSide, dislikeSide, err := c.hydrationState(ctx, target)
	if err != nil {
		return err
	}
	if likeSide.hydrated() && dislikeSide.hydrated() {
		metrics.CacheHydrationSkips.Inc()
		return nil
	}

	reactions, err := c.store.ListReactionsForTarget(ctx, target)
	if err != nil {
		return fmt.Errorf("hydration store query failed: %w", err)
	}

	var likers, dislikers []any
	for _, reaction := range reactions {
		member := strconv.FormatInt(reaction.UserID, 10)
		switch reaction.Kind {
		case domain.KindLike:
			likers = append(likers, member)
		case domain.KindDislike:
			dislikers = append(dislikers, member)
		}
	}

	lk, dk := likeKey(target), dislikeKey(target)

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, lk, lk+syncedSuffix, dk, dk+syncedSuffix)
	writeSide(ctx, pipe, lk, likers, c.ttl)
	writeSide(ctx, pipe, dk, dislikers, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("hydration pipeline failed: %w", err)
	}

	metrics.CacheHydrationsTotal.Inc()
	return nil
}

// writeSide queues either the membership set or, for a side with zero
// members, the empty-verified sentinel. The sentinel is the penetration
// guard: without it every subsequent miss would re-query the store.
func writeSide(ctx context.Context, pipe goredis.Pipeliner, setKey string, members []any, ttl time.Duration) {
	if len(members) == 0 {
		pipe.Set(ctx, setKey+syncedSuffix, "1", ttl)
		metrics.EmptySentinelsWritten.Inc()
		return
	}
	pipe.SAdd(ctx, setKey, members...)
	pipe.Expire(ctx, setKey, ttl)
}

func (c *ReactionCache) IsLiked(ctx context.Context, userID int64, target domain.TargetRef) (bool, error) {
	return c.isMember(ctx, likeKey(target), userID, target)
}

func (c *ReactionCache) IsDisliked(ctx context.Context, userID int64, target domain.TargetRef) (bool, error) {
	return c.isMember(ctx, dislikeKey(target), userID, target)
}

func (c *ReactionCache) isMember(ctx context.Context, setKey string, userID int64, target domain.TargetRef) (bool, error) {
	if err := c.ensureHydrated(ctx, target); err != nil {
		return false, err
	}

	// SISMEMBER on an absent key (empty-verified side) is false, which is
	// exactly the answer we want.
	member, err := c.rdb.SIsMember(ctx, setKey, strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("membership check failed: %w", err)
	}
	return member, nil
}

func (c *ReactionCache) LikeCount(ctx context.Context, target domain.TargetRef) (int64, error) {
	return c.cardinality(ctx, likeKey(target), target)
}

func (c *ReactionCache) DislikeCount(ctx context.Context, target domain.TargetRef) (int64, error) {
	return c.cardinality(ctx, dislikeKey(target), target)
}

func (c *ReactionCache) cardinality(ctx context.Context, setKey string, target domain.TargetRef) (int64, error) {
	if err := c.ensureHydrated(ctx, target); err != nil {
		return 0, err
	}

	count, err := c.rdb.SCard(ctx, setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("cardinality check failed: %w", err)
	}
	return count, nil
}

// ApplyTransition incrementally patches the membership sets for a committed
// transition. Only hydrated sides are touched; the patch is atomic.
func (c *ReactionCache) ApplyTransition(ctx context.Context, userID int64, target domain.TargetRef, from, to domain.State) error {
	return runPatchMembership(ctx, c.rdb, target, userID, from, to, c.ttl)
}

// Invalidate drops all four keys of the target, forcing re-hydration on the
// next read.
func (c *ReactionCache) Invalidate(ctx context.Context, target domain.TargetRef) error {
	lk, dk := likeKey(target), dislikeKey(target)
	if err := c.rdb.Del(ctx, lk, lk+syncedSuffix, dk, dk+syncedSuffix).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache for %s: %w", target, err)
	}
	return nil
}

// Warm hydrates the target if needed. Used to opportunistically pre-load the
// cache for a page of targets.
func (c *ReactionCache) Warm(ctx context.Context, target domain.TargetRef) error {
	return c.ensureHydrated(ctx, target)
}

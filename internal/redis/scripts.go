package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mhellwig/forumpulse/internal/domain"
)

// patchMembershipScript incrementally patches a target's membership sets for
// a committed transition. Each side is only touched when it is hydrated (its
// set or its empty-sentinel exists); an unhydrated side stays untouched and
// will be rebuilt on the next read. Promoting a sentinel to a set and
// demoting an emptied set back to a sentinel happen atomically here, so
// concurrent readers never observe a half-patched side.
//
// KEYS: [1]=like set, [2]=like sentinel, [3]=dislike set, [4]=dislike sentinel
// ARGV: [1]=user id, [2]=from state, [3]=to state, [4]=ttl seconds
var patchMembershipScript = goredis.NewScript(`
local user = ARGV[1]
local ttl = tonumber(ARGV[4])

local function add_member(set_key, sentinel_key)
	if redis.call('EXISTS', sentinel_key) == 1 then
		redis.call('DEL', sentinel_key)
		redis.call('SADD', set_key, user)
		redis.call('EXPIRE', set_key, ttl)
	elseif redis.call('EXISTS', set_key) == 1 then
		redis.call('SADD', set_key, user)
		redis.call('EXPIRE', set_key, ttl)
	end
end

local function remove_member(set_key, sentinel_key)
	if redis.call('EXISTS', set_key) == 1 then
		redis.call('SREM', set_key, user)
		if redis.call('SCARD', set_key) == 0 then
			redis.call('DEL', set_key)
			redis.call('SET', sentinel_key, '1', 'EX', ttl)
		end
	end
end

if ARGV[2] == 'liked' then
	remove_member(KEYS[1], KEYS[2])
elseif ARGV[2] == 'disliked' then
	remove_member(KEYS[3], KEYS[4])
end

if ARGV[3] == 'liked' then
	add_member(KEYS[1], KEYS[2])
elseif ARGV[3] == 'disliked' then
	add_member(KEYS[3], KEYS[4])
end

return 1
`)

func runPatchMembership(ctx context.Context, rdb *goredis.Client, target domain.TargetRef, userID int64, from, to domain.State, ttl time.Duration) error {
	lk, dk := likeKey(target), dislikeKey(target)
	keys := []string{lk, lk + syncedSuffix, dk, dk + syncedSuffix}

	err := patchMembershipScript.Run(ctx, rdb, keys,
		strconv.FormatInt(userID, 10),
		from.String(),
		to.String(),
		int64(ttl/time.Second),
	).Err()
	if err != nil {
		return fmt.Errorf("patch membership script failed: %w", err)
	}
	return nil
}

// Package redis implements the Redis-backed cache coherence layer.
//
// Per target it keeps two membership sets (liker ids, disliker ids) with a
// uniform TTL, hydrated lazily from the authoritative store behind a
// per-target lock. Targets verified to have zero members on a side get an
// empty-sentinel key instead of a set, so repeated misses do not re-query the
// store. Incremental patches after a committed transition run as a Lua script
// for atomicity.
package redis

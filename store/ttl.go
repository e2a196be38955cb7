package store

import "time"

/*
TTL results for keys without a usable remaining time.
*/
const (
	TTLNone   int64 = -1 // key exists but carries no expiry
	TTLAbsent int64 = -2 // key does not exist (or has expired)
)

/*
TTL reports the remaining seconds until a key expires.

Returns TTLAbsent for missing or already-expired keys and TTLNone for
keys with no expiry. Remaining time is truncated to whole seconds and
never negative.
*/
func (db *DB) TTL(key string) int64 {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		return TTLAbsent
	}
	if entry.ExpiresAt.IsZero() {
		return TTLNone
	}
	remaining := entry.ExpiresAt.Sub(now) / time.Second
	if remaining < 0 {
		remaining = 0
	}
	return int64(remaining)
}

/*
Expire attaches a TTL of the given number of seconds to a key and
returns the remaining seconds after the update, or TTLAbsent if the
key is missing or already expired.

Negative seconds are the dispatcher's problem; the keyspace only ever
sees validated input.
*/
func (db *DB) Expire(key string, seconds int64) int64 {
	now := time.Now()

	db.keysMu.Lock()
	defer db.keysMu.Unlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		return TTLAbsent
	}
	entry.ExpiresAt = now.Add(time.Duration(seconds) * time.Second)

	db.accessMu.Lock()
	db.touch(key, now)
	db.accessMu.Unlock()

	return seconds
}

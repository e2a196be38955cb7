package store

import "time"

/*
KeyEntry carries per-key metadata: the key itself, the value it owns,
and an optional absolute expiry.

A zero ExpiresAt means the key never expires. TTL arithmetic is done
at second granularity.
*/
type KeyEntry struct {
	Key       string
	Val       *Value
	ExpiresAt time.Time
}

/*
expired reports whether the entry's expiry instant has passed.
*/
func (e *KeyEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

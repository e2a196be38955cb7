package store

import (
	"sort"
	"time"
)

/*
Keys returns every live key, sorted ascending for deterministic
output. Expired keys are skipped, not removed; removal belongs to
PreCommand.
*/
func (db *DB) Keys() []string {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()

	keys := make([]string, 0, len(db.keys))
	for key, entry := range db.keys {
		if entry.expired(now) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

/*
Del removes a key and reports whether a live key was removed.

An expired-but-still-present key is removed too, but counts as absent.
*/
func (db *DB) Del(key string) bool {
	now := time.Now()

	db.keysMu.Lock()
	db.valsMu.Lock()
	db.accessMu.Lock()
	defer db.accessMu.Unlock()
	defer db.valsMu.Unlock()
	defer db.keysMu.Unlock()

	entry, ok := db.keys[key]
	if !ok {
		return false
	}
	wasLive := !entry.expired(now)
	db.deleteKV(key)
	return wasLive
}

/*
Flush removes every key, value, and access timestamp.
*/
func (db *DB) Flush() {
	db.keysMu.Lock()
	db.valsMu.Lock()
	db.accessMu.Lock()
	defer db.accessMu.Unlock()
	defer db.valsMu.Unlock()
	defer db.keysMu.Unlock()

	db.keys = make(map[string]*KeyEntry)
	db.lastAccess = make(map[string]time.Time)
}

/*
Len reports the number of live keys.
*/
func (db *DB) Len() int {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()

	n := 0
	for _, entry := range db.keys {
		if !entry.expired(now) {
			n++
		}
	}
	return n
}

package store

import (
	"sync"
	"time"
)

/*
DB is the concurrent keyspace.

Three reader-writer locks guard independent axes of mutability:

	keysMu   structure of the key -> entry mapping
	valsMu   contents and lifetime of the Value payloads
	accessMu the per-key last-access timestamps

Lock order is keysMu -> valsMu -> accessMu, always. No path upgrades a
shared lock in place; paths that discover deletion work under a shared
lock drop it and reacquire exclusively.

Reads of distinct keys' values proceed concurrently under shared
keysMu. Pops and set removals run under shared keysMu and contend only
on valsMu; pushes and set additions take keysMu exclusively even when
the key already exists, so they also serialize with every other
command's access to the key mapping.
*/
type DB struct {
	keysMu   sync.RWMutex
	valsMu   sync.RWMutex
	accessMu sync.RWMutex

	keys       map[string]*KeyEntry
	lastAccess map[string]time.Time
}

/*
NewDB creates an empty keyspace.
*/
func NewDB() *DB {
	return &DB{
		keys:       make(map[string]*KeyEntry),
		lastAccess: make(map[string]time.Time),
	}
}

/*
liveEntry returns the entry for key if it is present and not expired.

Preconditions: shared keysMu.
*/
func (db *DB) liveEntry(key string, now time.Time) (*KeyEntry, bool) {
	entry, ok := db.keys[key]
	if !ok || entry.expired(now) {
		return nil, false
	}
	return entry, true
}

/*
writeKV inserts or overwrites a key with a fresh value and stamps its
last-access time. Any previous value is dropped, along with any
previous expiry.

Preconditions: exclusive keysMu, valsMu, accessMu.
*/
func (db *DB) writeKV(key string, val *Value, now time.Time) *KeyEntry {
	entry := &KeyEntry{Key: key, Val: val}
	db.keys[key] = entry
	db.lastAccess[key] = now
	return entry
}

/*
deleteKV removes a key, its value, and its access timestamp.

Preconditions: exclusive keysMu, valsMu, accessMu.
*/
func (db *DB) deleteKV(key string) bool {
	entry, ok := db.keys[key]
	if !ok {
		return false
	}
	entry.Val = nil
	delete(db.keys, key)
	delete(db.lastAccess, key)
	return true
}

/*
touch stamps the last-access time of a key.

Preconditions: exclusive accessMu.
*/
func (db *DB) touch(key string, now time.Time) {
	db.lastAccess[key] = now
}

/*
PreCommand removes expired keys among those a command is about to
touch, or across the whole keyspace when allKeys is set.

The scan runs under shared keysMu; only when expired keys are found
does the pass reacquire all three locks exclusively to delete them.
Expiry is re-checked after the reacquisition because another command
may have rewritten the key in the window.

This is the only mechanism that physically removes expired keys. Read
paths additionally re-check expiry via liveEntry, so a key whose TTL
elapsed but which no command has touched is never observable.
*/
func (db *DB) PreCommand(keys []string, allKeys bool) {
	now := time.Now()

	db.keysMu.RLock()
	var expired []string
	collect := func(entry *KeyEntry) {
		if entry.expired(now) {
			expired = append(expired, entry.Key)
		}
	}
	if allKeys {
		for _, entry := range db.keys {
			collect(entry)
		}
	} else {
		for _, key := range keys {
			if entry, ok := db.keys[key]; ok {
				collect(entry)
			}
		}
	}
	db.keysMu.RUnlock()

	if len(expired) == 0 {
		return
	}

	db.keysMu.Lock()
	db.valsMu.Lock()
	db.accessMu.Lock()
	defer db.accessMu.Unlock()
	defer db.valsMu.Unlock()
	defer db.keysMu.Unlock()

	for _, key := range expired {
		if entry, ok := db.keys[key]; ok && entry.expired(now) {
			db.deleteKV(key)
		}
	}
}

/*
PostAccess stamps the last-access time of the touched keys, or of
every key present in the mapping when allKeys is set. Expiry is not
checked here.

The timestamps are recorded but not consulted anywhere yet; they exist
to permit future eviction policies.
*/
func (db *DB) PostAccess(keys []string, allKeys bool) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.accessMu.Lock()
	defer db.accessMu.Unlock()

	if allKeys {
		for key := range db.keys {
			db.touch(key, now)
		}
		return
	}
	for _, key := range keys {
		if _, ok := db.keys[key]; ok {
			db.touch(key, now)
		}
	}
}

/*
LastAccess reports the recorded last-access time of a key.
*/
func (db *DB) LastAccess(key string) (time.Time, bool) {
	db.accessMu.RLock()
	defer db.accessMu.RUnlock()
	at, ok := db.lastAccess[key]
	return at, ok
}

package store

import (
	"sort"
	"time"
)

/*
AddSet inserts members into the set at key, creating the set when the
key is absent, and returns the number of members that were not
already present.
*/
func (db *DB) AddSet(key string, members []string) (int, error) {
	now := time.Now()

	db.keysMu.Lock()
	db.valsMu.Lock()
	db.accessMu.Lock()
	defer db.accessMu.Unlock()
	defer db.valsMu.Unlock()
	defer db.keysMu.Unlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		entry = db.writeKV(key, NewSetValue(), now)
	}
	set, err := entry.Val.Set()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, member := range members {
		if _, dup := set[member]; dup {
			continue
		}
		set[member] = struct{}{}
		added++
	}
	db.touch(key, now)

	return added, nil
}

/*
RemSet removes members from the set at key and returns the number
actually removed. A set emptied by the removal is itself removed from
the keyspace, via the same release-and-reacquire path pops use.
*/
func (db *DB) RemSet(key string, members []string) (int, error) {
	removed, emptied, err := db.remSetOnce(key, members)
	if err != nil {
		return 0, err
	}
	if emptied {
		db.dropIfEmpty(key, TypeSet)
	}
	return removed, nil
}

func (db *DB) remSetOnce(key string, members []string) (removed int, emptied bool, err error) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.valsMu.Lock()
	defer db.valsMu.Unlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		return 0, false, nil
	}
	set, err := entry.Val.Set()
	if err != nil {
		return 0, false, err
	}

	for _, member := range members {
		if _, present := set[member]; present {
			delete(set, member)
			removed++
		}
	}

	db.accessMu.Lock()
	db.touch(key, now)
	db.accessMu.Unlock()

	return removed, len(set) == 0, nil
}

/*
CardSet reports the cardinality of the set at key, 0 if the key is
absent.
*/
func (db *DB) CardSet(key string) (int, error) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.valsMu.RLock()
	defer db.valsMu.RUnlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		return 0, nil
	}
	set, err := entry.Val.Set()
	if err != nil {
		return 0, err
	}
	return len(set), nil
}

/*
MembersSet returns the members of the set at key, sorted ascending
for deterministic output.
*/
func (db *DB) MembersSet(key string) ([]string, error) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.valsMu.RLock()
	defer db.valsMu.RUnlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		return nil, nil
	}
	set, err := entry.Val.Set()
	if err != nil {
		return nil, err
	}
	return sortedMembers(set), nil
}

/*
InterSet returns the sorted intersection of the sets at the given
keys. An absent key makes the intersection empty, not an error; a key
of the wrong shape still fails with ErrType.
*/
func (db *DB) InterSet(keys []string) ([]string, error) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.valsMu.RLock()
	defer db.valsMu.RUnlock()

	sets := make([]map[string]struct{}, 0, len(keys))
	for _, key := range keys {
		entry, ok := db.liveEntry(key, now)
		if !ok {
			return nil, nil
		}
		set, err := entry.Val.Set()
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if len(sets) == 0 {
		return nil, nil
	}

	var inter []string
	for member := range sets[0] {
		in := true
		for _, other := range sets[1:] {
			if _, ok := other[member]; !ok {
				in = false
				break
			}
		}
		if in {
			inter = append(inter, member)
		}
	}
	sort.Strings(inter)
	return inter, nil
}

func sortedMembers(set map[string]struct{}) []string {
	members := make([]string, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	sort.Strings(members)
	return members
}

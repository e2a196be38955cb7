package store

import "time"

/*
ListEnd selects which end of a list an operation works on.
*/
type ListEnd int

const (
	Front ListEnd = iota
	Back
)

/*
ListLen reports the length of the list at key, 0 if the key is
absent.
*/
func (db *DB) ListLen(key string) (int, error) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.valsMu.RLock()
	defer db.valsMu.RUnlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		return 0, nil
	}
	list, err := entry.Val.List()
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

/*
PushList appends vals to the chosen end of the list at key, creating
the list when the key is absent, and returns the resulting length.

Pushing at the front prepends the values one by one in argument
order, so the last value ends up first. Creation may restructure the
key mapping, so the whole operation runs under exclusive locks.
*/
func (db *DB) PushList(key string, vals []string, where ListEnd) (int, error) {
	now := time.Now()

	db.keysMu.Lock()
	db.valsMu.Lock()
	db.accessMu.Lock()
	defer db.accessMu.Unlock()
	defer db.valsMu.Unlock()
	defer db.keysMu.Unlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		entry = db.writeKV(key, NewListValue(), now)
	}
	list, err := entry.Val.List()
	if err != nil {
		return 0, err
	}

	switch where {
	case Front:
		for _, val := range vals {
			list = append([]string{val}, list...)
		}
	case Back:
		list = append(list, vals...)
	}
	entry.Val.list = list
	db.touch(key, now)

	return len(list), nil
}

/*
PopList removes and returns the element at the chosen end of the list
at key. The second return reports presence.

A list emptied by the pop is removed from the keyspace. Removal needs
exclusive keysMu, which the pop path does not hold, so the operation
releases its shared lock and reacquires all three exclusively,
re-checking that the list is still there and still empty.
*/
func (db *DB) PopList(key string, where ListEnd) (string, bool, error) {
	val, ok, emptied, err := db.popListOnce(key, where)
	if err != nil || !ok {
		return "", false, err
	}
	if emptied {
		db.dropIfEmpty(key, TypeList)
	}
	return val, true, nil
}

/*
popListOnce performs the pop under shared keysMu and exclusive valsMu
and reports whether it emptied the list.
*/
func (db *DB) popListOnce(key string, where ListEnd) (val string, ok, emptied bool, err error) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.valsMu.Lock()
	defer db.valsMu.Unlock()

	entry, live := db.liveEntry(key, now)
	if !live {
		return "", false, false, nil
	}
	list, err := entry.Val.List()
	if err != nil {
		return "", false, false, err
	}
	if len(list) == 0 {
		return "", false, false, nil
	}

	switch where {
	case Front:
		val = list[0]
		list = list[1:]
	case Back:
		val = list[len(list)-1]
		list = list[:len(list)-1]
	}
	entry.Val.list = list

	db.accessMu.Lock()
	db.touch(key, now)
	db.accessMu.Unlock()

	return val, true, len(list) == 0, nil
}

/*
RangeList returns the elements of the list at key between start and
stop inclusive. Negative indices count from the end. After
normalization start is clamped to 0 and stop to the last index; an
inverted or out-of-range window yields an empty result.
*/
func (db *DB) RangeList(key string, start, stop int) ([]string, error) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.valsMu.RLock()
	defer db.valsMu.RUnlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		return nil, nil
	}
	list, err := entry.Val.List()
	if err != nil {
		return nil, err
	}

	length := len(list)
	if start < 0 {
		start += length
	}
	if start < 0 {
		start = 0
	}
	if stop < 0 {
		stop += length
	}
	if stop >= length {
		stop = length - 1
	}
	if start >= length || start > stop {
		return nil, nil
	}

	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

/*
dropIfEmpty deletes key if it still holds an empty collection of the
given shape. Runs after a pop or remove emptied the collection; the
re-check guards against a concurrent push or add in the lock gap.
*/
func (db *DB) dropIfEmpty(key string, typ ValueType) {
	db.keysMu.Lock()
	db.valsMu.Lock()
	db.accessMu.Lock()
	defer db.accessMu.Unlock()
	defer db.valsMu.Unlock()
	defer db.keysMu.Unlock()

	entry, ok := db.keys[key]
	if !ok || entry.Val.Type() != typ {
		return
	}
	switch typ {
	case TypeList:
		if len(entry.Val.list) == 0 {
			db.deleteKV(key)
		}
	case TypeSet:
		if len(entry.Val.set) == 0 {
			db.deleteKV(key)
		}
	}
}

package store

import "time"

/*
GetStr returns the string stored at key. The second return reports
presence; a present key of a non-string shape fails with ErrType.
*/
func (db *DB) GetStr(key string) (string, bool, error) {
	now := time.Now()

	db.keysMu.RLock()
	defer db.keysMu.RUnlock()
	db.valsMu.RLock()
	defer db.valsMu.RUnlock()

	entry, ok := db.liveEntry(key, now)
	if !ok {
		return "", false, nil
	}
	s, err := entry.Val.Str()
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

/*
SetStr stores a string at key, overwriting any previous value of any
shape and clearing any previous expiry.
*/
func (db *DB) SetStr(key, val string) {
	now := time.Now()

	db.keysMu.Lock()
	db.valsMu.Lock()
	db.accessMu.Lock()
	defer db.accessMu.Unlock()
	defer db.valsMu.Unlock()
	defer db.keysMu.Unlock()

	db.writeKV(key, NewStringValue(val), now)
}

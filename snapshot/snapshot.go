package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ledis/protocol"
)

const (
	snapshotFile = "ledis.snpsht"
	backupSuffix = ".bak"
)

// TTL sentinels mirrored from the keyspace contract: -1 means no
// expiry, -2 means the key is absent.
const (
	ttlNone   int64 = -1
	ttlAbsent int64 = -2
)

var (
	// ErrNoSnapshot is returned by Restore when no snapshot file exists.
	ErrNoSnapshot = errors.New("no snapshot file")
)

/*
Store owns the on-disk snapshot file and the rename protocol around
it. Filesystem operations on the target file are serialized by an
exclusive lock; the write of the temporary file itself happens
outside it.
*/
type Store struct {
	dir    string
	fileMu sync.Mutex
}

/*
NewStore creates a snapshot store rooted at dir.
*/
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

/*
Path returns the snapshot target file path.
*/
func (s *Store) Path() string {
	return filepath.Join(s.dir, snapshotFile)
}

/*
Save writes the given log records to a fresh snapshot file and
atomically promotes it to the target name.

For each record, ttlOf probes the live keyspace for the record's key
(the first argument). Records whose key is gone are elided: every
later record that made the key absent is elided with them, so replay
still converges on the right state. Keys with a live expiry get a
synthetic EXPIRE record appended after all command records, so the
restored TTL reflects the value at save time no matter how many
EXPIREs the log saw earlier.

The temporary file is written by a separate worker goroutine; Save
blocks until the worker reports completion. Promotion renames the old
target to a .bak, renames the temp file over the target, then drops
the .bak. A failed promotion rolls the .bak back.
*/
func (s *Store) Save(recs []Record, ttlOf func(key string) int64) error {
	tmpPath := filepath.Join(s.dir, fmt.Sprintf("%s-%s%s",
		time.Now().Format("15_04_05_02_01_2006"), uuid.NewString(), ".snpsht.tmp"))

	done := make(chan error, 1)
	go func() {
		done <- writeSnapshotFile(tmpPath, recs, ttlOf)
	}()
	if err := <-done; err != nil {
		os.Remove(tmpPath)
		return err
	}

	return s.promote(tmpPath)
}

/*
writeSnapshotFile writes command records followed by the synthetic
EXPIRE records, then syncs.
*/
func writeSnapshotFile(path string, recs []Record, ttlOf func(key string) int64) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	defer f.Close()

	var expires []Record
	for _, rec := range recs {
		key := firstField(rec.Args)
		if key == "" {
			continue
		}
		ttl := ttlOf(key)
		if ttl == ttlAbsent {
			continue
		}
		if ttl != ttlNone {
			expires = append(expires, Record{
				Op:   protocol.OpExpire,
				Args: key + " " + strconv.FormatInt(ttl, 10),
			})
		}
		log.Debug().Uint16("op", uint16(rec.Op)).Str("args", rec.Args).Msg("snapshot write record")
		if err := writeRecord(f, rec); err != nil {
			return fmt.Errorf("write snapshot record: %w", err)
		}
	}
	for _, rec := range expires {
		if err := writeRecord(f, rec); err != nil {
			return fmt.Errorf("write snapshot ttl record: %w", err)
		}
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync snapshot: %w", err)
	}
	return nil
}

/*
promote installs the written temp file as the target, keeping a .bak
of the previous snapshot for the duration of the swap.
*/
func (s *Store) promote(tmpPath string) error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	target := s.Path()
	backup := target + backupSuffix

	hadPrevious := false
	if _, err := os.Stat(target); err == nil {
		if err := os.Rename(target, backup); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("back up previous snapshot: %w", err)
		}
		hadPrevious = true
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		if hadPrevious {
			// Put the previous snapshot back so a readable file survives.
			if rbErr := os.Rename(backup, target); rbErr != nil {
				return fmt.Errorf("promote snapshot: %v (rollback failed: %w)", err, rbErr)
			}
		}
		return fmt.Errorf("promote snapshot: %w", err)
	}

	if hadPrevious {
		os.Remove(backup)
	}
	log.Info().Str("path", target).Msg("snapshot saved")
	return nil
}

/*
Restore streams the records of the snapshot file through apply in
file order.

The caller supplies apply, typically replaying each record into a
fresh keyspace; keeping the replay outside this package keeps
snapshot free of store and server imports. The decoded records are returned so the
caller can rebuild its command log from them.

On any decode or apply failure the error is returned and the caller's
live state stays untouched.
*/
func (s *Store) Restore(apply func(Record) error) ([]Record, error) {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	f, err := os.Open(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var recs []Record
	for {
		rec, err := readRecord(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		log.Debug().Uint16("op", uint16(rec.Op)).Str("args", rec.Args).Msg("snapshot read record")
		if err := apply(rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	log.Info().Int("records", len(recs)).Msg("snapshot restored")
	return recs, nil
}

func firstField(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

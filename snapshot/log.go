package snapshot

import (
	"sync"

	"github.com/rs/zerolog/log"

	"ledis/protocol"
)

/*
modifying is the set of opcodes that can alter the observable
keyspace. Only these belong in the snapshot log.
*/
var modifying = map[protocol.Opcode]struct{}{
	protocol.OpSet:     {},
	protocol.OpLPush:   {},
	protocol.OpRPush:   {},
	protocol.OpLPop:    {},
	protocol.OpRPop:    {},
	protocol.OpSAdd:    {},
	protocol.OpSRem:    {},
	protocol.OpDel:     {},
	protocol.OpFlushDB: {},
}

/*
Log is the in-memory, append-only record of modifying commands
accepted since the last successful save or restore.

Its order equals the successful-execution order of those commands.
FLUSHDB truncates the log instead of appending: the flushed state is
the identity, so replaying nothing reproduces it.
*/
type Log struct {
	mu   sync.Mutex
	recs []Record
}

func NewLog() *Log {
	return &Log{}
}

/*
Offer appends a successfully executed command to the log. Commands
with non-modifying opcodes are ignored.
*/
func (l *Log) Offer(op protocol.Opcode, argLine string) {
	if _, ok := modifying[op]; !ok {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if op == protocol.OpFlushDB {
		log.Info().Msg("snapshot log truncated by flush")
		l.recs = nil
		return
	}
	log.Debug().Uint16("op", uint16(op)).Str("args", argLine).Msg("snapshot log append")
	l.recs = append(l.recs, Record{Op: op, Args: argLine})
}

/*
Records returns a copy of the current log contents.
*/
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	recs := make([]Record, len(l.recs))
	copy(recs, l.recs)
	return recs
}

/*
Replace swaps the log contents, used after a restore so the log
mirrors the replayed file.
*/
func (l *Log) Replace(recs []Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = recs
}

/*
Len reports the number of logged records.
*/
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.recs)
}

package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"ledis/protocol"
	"ledis/snapshot"
	"ledis/store"
)

/*
Session control codes returned by Gate.Apply alongside the response.
*/
const (
	SessionClose    = -1 // client asked to end the session
	SessionFailed   = 0  // command failed; response carries the error
	SessionContinue = 1  // command succeeded
)

/*
Gate is the top-level façade over the engine: it takes a raw command
line and drives parse -> dispatch -> log-append, and owns the
SAVE/RESTORE orchestration that swaps the live keyspace.

The db field is replaced wholesale by a restore, so access to the
pointer goes through gate's own lock; commands in flight keep
executing against the keyspace they started with.
*/
type Gate struct {
	mu   sync.RWMutex
	db   *store.DB
	clog *snapshot.Log
	snap *snapshot.Store
}

/*
NewGate wires a fresh keyspace, an empty command log, and a snapshot
store rooted at dir.
*/
func NewGate(dir string) *Gate {
	return &Gate{
		db:   store.NewDB(),
		clog: snapshot.NewLog(),
		snap: snapshot.NewStore(dir),
	}
}

/*
DB returns the current live keyspace.
*/
func (g *Gate) DB() *store.DB {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.db
}

/*
Apply executes one raw command line.

The returned code is SessionClose for EXIT, SessionFailed when the
response is an error, and SessionContinue otherwise. Successfully
executed modifying commands are offered to the snapshot log; the log
itself filters.

Any panic escaping a handler is captured into an error response so a
single command can never take the engine down.
*/
func (g *Gate) Apply(line string) (resp Response, code int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("line", line).Msg("command panicked")
			resp = errorResponse(fmt.Errorf("internal error: %v", r))
			code = SessionFailed
		}
	}()

	cmd, err := protocol.ParseLine(line)
	if err != nil {
		return errorResponse(err), SessionFailed
	}

	if cmd.Op == protocol.OpExit {
		log.Info().Msg("exit requested")
		return okResponse(), SessionClose
	}

	log.Info().Str("command", cmd.Name).Str("args", cmd.ArgLine()).Msg("executing")

	switch cmd.Op {
	case protocol.OpSave:
		resp = g.applyControl(cmd, g.save)
	case protocol.OpRestore:
		resp = g.applyControl(cmd, g.restore)
	default:
		resp = Execute(cmd, g.DB())
	}

	if resp.Kind == ResponseError {
		log.Error().Str("command", cmd.Name).Str("error", resp.Str).Msg("command failed")
		return resp, SessionFailed
	}

	g.clog.Offer(cmd.Op, cmd.ArgLine())
	return resp, SessionContinue
}

/*
applyControl validates a zero-argument control command and runs it.
*/
func (g *Gate) applyControl(cmd protocol.Command, run func() error) Response {
	if err := protocol.ValidateArgs(cmd); err != nil {
		return errorResponse(err)
	}
	if err := run(); err != nil {
		return errorResponse(err)
	}
	return okResponse()
}

/*
save snapshots the current command log to disk. TTLs are probed from
the keyspace that is live at save time.
*/
func (g *Gate) save() error {
	db := g.DB()
	return g.snap.Save(g.clog.Records(), db.TTL)
}

/*
restore rebuilds a keyspace by replaying the snapshot file, then
installs it as the live one and mirrors the replayed records into the
command log. A failed replay leaves the engine unchanged.
*/
func (g *Gate) restore() error {
	fresh := store.NewDB()
	recs, err := g.snap.Restore(func(rec snapshot.Record) error {
		cmd, err := protocol.Rebuild(rec.Op, rec.Args)
		if err != nil {
			return err
		}
		if resp := Execute(cmd, fresh); resp.Kind == ResponseError {
			return errors.New(resp.Str)
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.db = fresh
	g.mu.Unlock()
	g.clog.Replace(recs)
	return nil
}

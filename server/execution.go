package server

import (
	"errors"
	"strconv"

	"ledis/protocol"
	"ledis/store"
)

// ErrNegativeTTL rejects EXPIRE with a negative seconds argument.
var ErrNegativeTTL = errors.New("seconds must be non-negative")

/*
handlerFunc executes one opcode against the keyspace. Handlers run
after arity and argument-type validation, so index and Atoi calls on
validated positions cannot fail.
*/
type handlerFunc func(db *store.DB, cmd protocol.Command) Response

/*
handlers maps each data-plane opcode to its execution strategy.
SAVE, RESTORE and EXIT are control-plane commands owned by the Gate
and have no entry here.
*/
var handlers = map[protocol.Opcode]handlerFunc{
	protocol.OpSet:      handleSet,
	protocol.OpGet:      handleGet,
	protocol.OpDel:      handleDel,
	protocol.OpKeys:     handleKeys,
	protocol.OpFlushDB:  handleFlushDB,
	protocol.OpExpire:   handleExpire,
	protocol.OpTTL:      handleTTL,
	protocol.OpLPush:    pushHandler(store.Front),
	protocol.OpRPush:    pushHandler(store.Back),
	protocol.OpLPop:     popHandler(store.Front),
	protocol.OpRPop:     popHandler(store.Back),
	protocol.OpLLen:     handleLLen,
	protocol.OpLRange:   handleLRange,
	protocol.OpSAdd:     handleSAdd,
	protocol.OpSRem:     handleSRem,
	protocol.OpSCard:    handleSCard,
	protocol.OpSMembers: handleSMembers,
	protocol.OpSInter:   handleSInter,
}

/*
Execute maps a validated protocol command to keyspace operations and
wraps the outcome into a Response.

Every handler runs the pre-command expiry pass over the keys it will
touch before executing, and read-type handlers run the post-access
timestamping pass afterwards. It contains no networking logic and no
snapshot logic.
*/
func Execute(cmd protocol.Command, db *store.DB) Response {
	if err := protocol.ValidateArgs(cmd); err != nil {
		return errorResponse(err)
	}

	handler, ok := handlers[cmd.Op]
	if !ok {
		return errorResponse(protocol.ErrInvalidCommand)
	}
	return handler(db, cmd)
}

func handleSet(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	db.SetStr(key, cmd.Args[1])
	return okResponse()
}

func handleGet(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	val, ok, err := db.GetStr(key)
	if err != nil {
		return errorResponse(err)
	}
	db.PostAccess([]string{key}, false)
	if !ok {
		return nilResponse()
	}
	return stringResponse(val)
}

func handleDel(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	return boolResponse(db.Del(key))
}

func handleKeys(db *store.DB, cmd protocol.Command) Response {
	db.PreCommand(nil, true)
	keys := db.Keys()
	db.PostAccess(nil, true)
	return listResponse(keys)
}

func handleFlushDB(db *store.DB, cmd protocol.Command) Response {
	db.PreCommand(nil, true)
	db.Flush()
	return okResponse()
}

func handleExpire(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	seconds, _ := strconv.ParseInt(cmd.Args[1], 10, 64)
	if seconds < 0 {
		return errorResponse(ErrNegativeTTL)
	}
	db.PreCommand([]string{key}, false)
	return intResponse(db.Expire(key, seconds))
}

func handleTTL(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	ttl := db.TTL(key)
	db.PostAccess([]string{key}, false)
	return intResponse(ttl)
}

func pushHandler(where store.ListEnd) handlerFunc {
	return func(db *store.DB, cmd protocol.Command) Response {
		key := cmd.Args[0]
		db.PreCommand([]string{key}, false)
		length, err := db.PushList(key, cmd.Args[1:], where)
		if err != nil {
			return errorResponse(err)
		}
		return intResponse(int64(length))
	}
}

func popHandler(where store.ListEnd) handlerFunc {
	return func(db *store.DB, cmd protocol.Command) Response {
		key := cmd.Args[0]
		db.PreCommand([]string{key}, false)
		val, ok, err := db.PopList(key, where)
		if err != nil {
			return errorResponse(err)
		}
		db.PostAccess([]string{key}, false)
		if !ok {
			return nilResponse()
		}
		return stringResponse(val)
	}
}

func handleLLen(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	length, err := db.ListLen(key)
	if err != nil {
		return errorResponse(err)
	}
	db.PostAccess([]string{key}, false)
	return intResponse(int64(length))
}

func handleLRange(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	start, _ := strconv.Atoi(cmd.Args[1])
	stop, _ := strconv.Atoi(cmd.Args[2])
	db.PreCommand([]string{key}, false)
	vals, err := db.RangeList(key, start, stop)
	if err != nil {
		return errorResponse(err)
	}
	db.PostAccess([]string{key}, false)
	return listResponse(vals)
}

func handleSAdd(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	added, err := db.AddSet(key, cmd.Args[1:])
	if err != nil {
		return errorResponse(err)
	}
	return intResponse(int64(added))
}

func handleSRem(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	removed, err := db.RemSet(key, cmd.Args[1:])
	if err != nil {
		return errorResponse(err)
	}
	return intResponse(int64(removed))
}

func handleSCard(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	card, err := db.CardSet(key)
	if err != nil {
		return errorResponse(err)
	}
	db.PostAccess([]string{key}, false)
	return intResponse(int64(card))
}

func handleSMembers(db *store.DB, cmd protocol.Command) Response {
	key := cmd.Args[0]
	db.PreCommand([]string{key}, false)
	members, err := db.MembersSet(key)
	if err != nil {
		return errorResponse(err)
	}
	db.PostAccess([]string{key}, false)
	return listResponse(members)
}

func handleSInter(db *store.DB, cmd protocol.Command) Response {
	db.PreCommand(cmd.Args, false)
	inter, err := db.InterSet(cmd.Args)
	if err != nil {
		return errorResponse(err)
	}
	db.PostAccess(cmd.Args, false)
	return listResponse(inter)
}

package protocol

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrInvalidCommand = errors.New("unknown command")
	ErrArity          = errors.New("wrong number of arguments")
)

/*
Opcode identifies a command on the wire. The numeric values are part
of the snapshot file format and must not be renumbered.
*/
type Opcode uint16

const (
	OpSet Opcode = iota
	OpGet
	OpLLen
	OpLPush
	OpRPush
	OpLPop
	OpRPop
	OpLRange
	OpSAdd
	OpSRem
	OpSMembers
	OpSInter
	OpSCard
	OpDel
	OpExpire
	OpTTL
	OpKeys
	OpFlushDB
	OpExit
	OpSave
	OpRestore
)

/*
CommandSpec defines a command name, its opcode, and its expected
arguments. Variadic commands accept any number of extra string
arguments beyond the typed prefix.
*/
type CommandSpec struct {
	Name     string
	Op       Opcode
	ArgTypes []ArgType
	Variadic bool
}

/*
Registry of all supported commands.
*/
var commandSpecs = map[string]CommandSpec{
	"SET":      {Name: "SET", Op: OpSet, ArgTypes: []ArgType{argTypeString{}, argTypeString{}}},
	"GET":      {Name: "GET", Op: OpGet, ArgTypes: []ArgType{argTypeString{}}},
	"LLEN":     {Name: "LLEN", Op: OpLLen, ArgTypes: []ArgType{argTypeString{}}},
	"LPUSH":    {Name: "LPUSH", Op: OpLPush, ArgTypes: []ArgType{argTypeString{}, argTypeString{}}, Variadic: true},
	"RPUSH":    {Name: "RPUSH", Op: OpRPush, ArgTypes: []ArgType{argTypeString{}, argTypeString{}}, Variadic: true},
	"LPOP":     {Name: "LPOP", Op: OpLPop, ArgTypes: []ArgType{argTypeString{}}},
	"RPOP":     {Name: "RPOP", Op: OpRPop, ArgTypes: []ArgType{argTypeString{}}},
	"LRANGE":   {Name: "LRANGE", Op: OpLRange, ArgTypes: []ArgType{argTypeString{}, argTypeInt{}, argTypeInt{}}},
	"SADD":     {Name: "SADD", Op: OpSAdd, ArgTypes: []ArgType{argTypeString{}, argTypeString{}}, Variadic: true},
	"SREM":     {Name: "SREM", Op: OpSRem, ArgTypes: []ArgType{argTypeString{}, argTypeString{}}, Variadic: true},
	"SMEMBERS": {Name: "SMEMBERS", Op: OpSMembers, ArgTypes: []ArgType{argTypeString{}}},
	"SINTER":   {Name: "SINTER", Op: OpSInter, ArgTypes: []ArgType{argTypeString{}, argTypeString{}}, Variadic: true},
	"SCARD":    {Name: "SCARD", Op: OpSCard, ArgTypes: []ArgType{argTypeString{}}},
	"DEL":      {Name: "DEL", Op: OpDel, ArgTypes: []ArgType{argTypeString{}}},
	"EXPIRE":   {Name: "EXPIRE", Op: OpExpire, ArgTypes: []ArgType{argTypeString{}, argTypeInt{}}},
	"TTL":      {Name: "TTL", Op: OpTTL, ArgTypes: []ArgType{argTypeString{}}},
	"KEYS":     {Name: "KEYS", Op: OpKeys},
	"FLUSHDB":  {Name: "FLUSHDB", Op: OpFlushDB},
	"EXIT":     {Name: "EXIT", Op: OpExit},
	"SAVE":     {Name: "SAVE", Op: OpSave},
	"RESTORE":  {Name: "RESTORE", Op: OpRestore},
}

var specsByOp = func() map[Opcode]CommandSpec {
	byOp := make(map[Opcode]CommandSpec, len(commandSpecs))
	for _, spec := range commandSpecs {
		byOp[spec.Op] = spec
	}
	return byOp
}()

/*
Command represents a parsed client command.
*/
type Command struct {
	Op   Opcode
	Name string
	Args []string
}

/*
ArgLine reassembles the argument portion of the command, the form the
snapshot log stores.
*/
func (c Command) ArgLine() string {
	return strings.Join(c.Args, " ")
}

/*
ParseLine tokenizes a single protocol line into a Command.

Tokens are whitespace-separated; the first is the command name,
case-insensitive. Arity is not checked here; that is the
dispatcher's job via ValidateArgs.
*/
func ParseLine(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrEmptyCommand
	}

	name := strings.ToUpper(parts[0])
	spec, ok := commandSpecs[name]
	if !ok {
		return Command{}, ErrInvalidCommand
	}

	return Command{
		Op:   spec.Op,
		Name: spec.Name,
		Args: parts[1:],
	}, nil
}

/*
Rebuild reconstructs a Command from an opcode and a raw argument line,
the form snapshot records carry.
*/
func Rebuild(op Opcode, argLine string) (Command, error) {
	spec, ok := specsByOp[op]
	if !ok {
		return Command{}, ErrInvalidCommand
	}
	return Command{
		Op:   spec.Op,
		Name: spec.Name,
		Args: strings.Fields(argLine),
	}, nil
}

/*
ValidateArgs checks a command's arguments against its spec: exact
arity for fixed commands, at-least arity for variadic ones, and the
registered type validator for each positional argument.
*/
func ValidateArgs(cmd Command) error {
	spec, ok := specsByOp[cmd.Op]
	if !ok {
		return ErrInvalidCommand
	}

	if spec.Variadic {
		if len(cmd.Args) < len(spec.ArgTypes) {
			return ErrArity
		}
	} else if len(cmd.Args) != len(spec.ArgTypes) {
		return ErrArity
	}

	for i, argType := range spec.ArgTypes {
		if err := argType.Validate(cmd.Args[i]); err != nil {
			return err
		}
	}
	return nil
}

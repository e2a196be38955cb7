package store

import "errors"

// ErrType is returned when a value is projected to a shape it does not have.
var ErrType = errors.New("operation against a key holding the wrong kind of value")

/*
ValueType tags the shape of a stored value.
*/
type ValueType int

const (
	TypeString ValueType = iota
	TypeList
	TypeSet
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	default:
		return "none"
	}
}

/*
Value is the payload owned by a key. Exactly one payload field is
populated, selected by typ.

Projection (Str, List, Set) is the only way to reach a payload.
Projecting the wrong shape fails with ErrType and leaves the value
untouched.
*/
type Value struct {
	typ  ValueType
	str  string
	list []string
	set  map[string]struct{}
}

/*
NewStringValue wraps a byte string.
*/
func NewStringValue(s string) *Value {
	return &Value{typ: TypeString, str: s}
}

/*
NewListValue creates a list holding items in the given order.
*/
func NewListValue(items ...string) *Value {
	list := make([]string, len(items))
	copy(list, items)
	return &Value{typ: TypeList, list: list}
}

/*
NewSetValue creates a set from items. Duplicates collapse.
*/
func NewSetValue(items ...string) *Value {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return &Value{typ: TypeSet, set: set}
}

/*
Type reports the shape tag.
*/
func (v *Value) Type() ValueType {
	return v.typ
}

/*
Str projects the value as a string.
*/
func (v *Value) Str() (string, error) {
	if v.typ != TypeString {
		return "", ErrType
	}
	return v.str, nil
}

/*
List projects the value as a list. The returned slice is the live
payload; callers mutating it must hold the value lock exclusively.
*/
func (v *Value) List() ([]string, error) {
	if v.typ != TypeList {
		return nil, ErrType
	}
	return v.list, nil
}

/*
Set projects the value as a set. The returned map is the live
payload; callers mutating it must hold the value lock exclusively.
*/
func (v *Value) Set() (map[string]struct{}, error) {
	if v.typ != TypeSet {
		return nil, ErrType
	}
	return v.set, nil
}

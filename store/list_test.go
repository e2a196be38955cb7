package store

import (
	"reflect"
	"testing"
)

func TestPushBackOrder(t *testing.T) {
	db := NewDB()

	length, err := db.PushList("L", []string{"a", "b", "c"}, Back)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if length != 3 {
		t.Fatalf("expected length 3, got %d", length)
	}

	vals, err := db.RangeList("L", 0, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(vals, []string{"a", "b", "c"}) {
		t.Fatalf("expected [a b c], got %v", vals)
	}
}

/*
Pushing at the front prepends one value at a time in argument order,
so the last argument ends up first.
*/
func TestPushFrontOrder(t *testing.T) {
	db := NewDB()

	length, err := db.PushList("L", []string{"x", "y", "z"}, Front)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if length != 3 {
		t.Fatalf("expected length 3, got %d", length)
	}

	vals, _ := db.RangeList("L", 0, -1)
	if !reflect.DeepEqual(vals, []string{"z", "y", "x"}) {
		t.Fatalf("expected [z y x], got %v", vals)
	}
}

func TestPopBothEnds(t *testing.T) {
	db := NewDB()

	db.PushList("L", []string{"a", "b", "c"}, Back)

	val, ok, err := db.PopList("L", Front)
	if err != nil || !ok || val != "a" {
		t.Fatalf("expected front pop to return a, got %q ok=%v err=%v", val, ok, err)
	}

	val, ok, err = db.PopList("L", Back)
	if err != nil || !ok || val != "c" {
		t.Fatalf("expected back pop to return c, got %q ok=%v err=%v", val, ok, err)
	}

	length, _ := db.ListLen("L")
	if length != 1 {
		t.Fatalf("expected length 1, got %d", length)
	}
}

func TestPushThenPopRoundTrip(t *testing.T) {
	db := NewDB()

	db.PushList("L", []string{"v"}, Front)
	if val, ok, _ := db.PopList("L", Back); !ok || val != "v" {
		t.Fatalf("lpush then rpop should return the pushed value, got %q", val)
	}

	db.PushList("L", []string{"w"}, Back)
	if val, ok, _ := db.PopList("L", Front); !ok || val != "w" {
		t.Fatalf("rpush then lpop should return the pushed value, got %q", val)
	}
}

func TestPopRemovesEmptiedList(t *testing.T) {
	db := NewDB()

	db.PushList("L", []string{"a"}, Back)
	if _, ok, _ := db.PopList("L", Front); !ok {
		t.Fatalf("expected pop to return the only element")
	}

	keys := db.Keys()
	if len(keys) != 0 {
		t.Fatalf("expected emptied list key to be removed, got %v", keys)
	}
}

func TestPopAbsentKey(t *testing.T) {
	db := NewDB()

	if _, ok, err := db.PopList("missing", Front); ok || err != nil {
		t.Fatalf("expected nil result for a missing key, ok=%v err=%v", ok, err)
	}
}

func TestListLenAbsentKey(t *testing.T) {
	db := NewDB()

	length, err := db.ListLen("missing")
	if err != nil || length != 0 {
		t.Fatalf("expected 0 for a missing key, got %d err=%v", length, err)
	}
}

func TestListTypeMismatch(t *testing.T) {
	db := NewDB()

	db.SetStr("x", "1")

	if _, err := db.PushList("x", []string{"a"}, Front); err != ErrType {
		t.Fatalf("expected ErrType, got %v", err)
	}
	if _, _, err := db.PopList("x", Front); err != ErrType {
		t.Fatalf("expected ErrType, got %v", err)
	}
	if _, err := db.ListLen("x"); err != ErrType {
		t.Fatalf("expected ErrType, got %v", err)
	}
	if _, err := db.RangeList("x", 0, -1); err != ErrType {
		t.Fatalf("expected ErrType, got %v", err)
	}

	// The string must be intact after the failed operations.
	val, ok, err := db.GetStr("x")
	if err != nil || !ok || val != "1" {
		t.Fatalf("expected string unchanged, got %q ok=%v err=%v", val, ok, err)
	}
}

func TestRangeListNormalization(t *testing.T) {
	db := NewDB()
	db.PushList("L", []string{"a", "b", "c", "d", "e"}, Back)

	tests := []struct {
		name        string
		start, stop int
		want        []string
	}{
		{name: "full range", start: 0, stop: -1, want: []string{"a", "b", "c", "d", "e"}},
		{name: "inner window", start: 1, stop: 3, want: []string{"b", "c", "d"}},
		{name: "negative start", start: -2, stop: -1, want: []string{"d", "e"}},
		{name: "stop clamped to length", start: 3, stop: 100, want: []string{"d", "e"}},
		{name: "start clamped to zero", start: -100, stop: 0, want: []string{"a"}},
		{name: "start beyond length", start: 5, stop: 10, want: nil},
		{name: "inverted window", start: 3, stop: 1, want: nil},
		{name: "single element", start: 2, stop: 2, want: []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.RangeList("L", tt.start, tt.stop)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRangeListAbsentKey(t *testing.T) {
	db := NewDB()

	vals, err := db.RangeList("missing", 0, -1)
	if err != nil || vals != nil {
		t.Fatalf("expected empty result for a missing key, got %v err=%v", vals, err)
	}
}

func TestRangeListReturnsCopy(t *testing.T) {
	db := NewDB()
	db.PushList("L", []string{"a", "b"}, Back)

	vals, _ := db.RangeList("L", 0, -1)
	vals[0] = "mutated"

	fresh, _ := db.RangeList("L", 0, -1)
	if fresh[0] != "a" {
		t.Fatalf("expected stored list to be unaffected by caller mutation")
	}
}

package server

import (
	"testing"
	"time"
)

func apply(t *testing.T, g *Gate, line string) (Response, int) {
	t.Helper()
	return g.Apply(line)
}

func applyOK(t *testing.T, g *Gate, line string) Response {
	t.Helper()
	resp, code := g.Apply(line)
	if code != SessionContinue {
		t.Fatalf("%s: expected success, got code %d (%s)", line, code, resp.String())
	}
	return resp
}

func TestGateExit(t *testing.T) {
	g := NewGate(t.TempDir())

	if _, code := apply(t, g, "EXIT"); code != SessionClose {
		t.Fatalf("expected session close, got %d", code)
	}
}

func TestGateErrorResults(t *testing.T) {
	g := NewGate(t.TempDir())

	tests := []string{
		"BOGUS",
		"",
		"SET onlykey",
		"EXPIRE k notanumber",
	}
	for _, line := range tests {
		resp, code := apply(t, g, line)
		if code != SessionFailed {
			t.Fatalf("%s: expected failure code, got %d", line, code)
		}
		if resp.Kind != ResponseError {
			t.Fatalf("%s: expected error response, got %v", line, resp)
		}
	}
}

func TestGateRestoreWithoutFile(t *testing.T) {
	g := NewGate(t.TempDir())

	resp, code := apply(t, g, "RESTORE")
	if code != SessionFailed || resp.Kind != ResponseError {
		t.Fatalf("expected restore without a file to fail, got %v code=%d", resp, code)
	}
}

func TestGateSaveRestoreRoundTrip(t *testing.T) {
	g := NewGate(t.TempDir())

	applyOK(t, g, "RPUSH L a b")
	applyOK(t, g, "SET k v")
	applyOK(t, g, "SADD S x y")

	applyOK(t, g, "SAVE")
	applyOK(t, g, "FLUSHDB")

	if resp := applyOK(t, g, "KEYS"); resp.String() != "(empty list)" {
		t.Fatalf("expected empty keyspace after flush, got %s", resp.String())
	}

	applyOK(t, g, "RESTORE")

	if resp := applyOK(t, g, "LRANGE L 0 -1"); resp.String() != "1) \"a\"\n2) \"b\"" {
		t.Fatalf("expected list restored, got %s", resp.String())
	}
	if resp := applyOK(t, g, "GET k"); resp.String() != `"v"` {
		t.Fatalf("expected string restored, got %s", resp.String())
	}
	if resp := applyOK(t, g, "SMEMBERS S"); resp.String() != "1) \"x\"\n2) \"y\"" {
		t.Fatalf("expected set restored, got %s", resp.String())
	}
}

/*
A key deleted before the save stays deleted after a restore: its
records, the delete included, are elided from the file because the key
is absent at save time, while the surviving key's write replays.
*/
func TestGateRestoreReplaysDeletes(t *testing.T) {
	g := NewGate(t.TempDir())

	applyOK(t, g, "SET a 1")
	applyOK(t, g, "SET b 2")
	applyOK(t, g, "DEL a")

	applyOK(t, g, "SAVE")
	applyOK(t, g, "FLUSHDB")
	applyOK(t, g, "RESTORE")

	if resp := applyOK(t, g, "GET a"); resp.String() != "(nil)" {
		t.Fatalf("expected deleted key to stay deleted, got %s", resp.String())
	}
	if resp := applyOK(t, g, "GET b"); resp.String() != `"2"` {
		t.Fatalf("expected surviving key restored, got %s", resp.String())
	}
}

func TestGateSaveCapturesLiveTTL(t *testing.T) {
	g := NewGate(t.TempDir())

	applyOK(t, g, "SET k v")
	applyOK(t, g, "EXPIRE k 100")

	applyOK(t, g, "SAVE")
	applyOK(t, g, "FLUSHDB")
	applyOK(t, g, "RESTORE")

	resp := applyOK(t, g, "TTL k")
	if resp.Int < 98 || resp.Int > 100 {
		t.Fatalf("expected restored ttl in [98, 100], got %d", resp.Int)
	}
}

/*
A key written, expired, deleted, then re-written without an expiry
must restore without one: the delete is in the log and no synthetic
EXPIRE is emitted for the rewritten key.
*/
func TestGateRewrittenKeyRestoresWithoutTTL(t *testing.T) {
	g := NewGate(t.TempDir())

	applyOK(t, g, "SET k v1")
	applyOK(t, g, "EXPIRE k 1000")
	applyOK(t, g, "DEL k")
	applyOK(t, g, "SET k v2")

	applyOK(t, g, "SAVE")
	applyOK(t, g, "FLUSHDB")
	applyOK(t, g, "RESTORE")

	if resp := applyOK(t, g, "TTL k"); resp.Int != -1 {
		t.Fatalf("expected no ttl after restore, got %d", resp.Int)
	}
	if resp := applyOK(t, g, "GET k"); resp.String() != `"v2"` {
		t.Fatalf("expected rewritten value, got %s", resp.String())
	}
}

func TestGateFlushTruncatesLog(t *testing.T) {
	g := NewGate(t.TempDir())

	applyOK(t, g, "SET a 1")
	applyOK(t, g, "FLUSHDB")
	applyOK(t, g, "SET b 2")

	applyOK(t, g, "SAVE")
	applyOK(t, g, "FLUSHDB")
	applyOK(t, g, "RESTORE")

	if resp := applyOK(t, g, "GET a"); resp.String() != "(nil)" {
		t.Fatalf("expected pre-flush write to be gone, got %s", resp.String())
	}
	if resp := applyOK(t, g, "GET b"); resp.String() != `"2"` {
		t.Fatalf("expected post-flush write restored, got %s", resp.String())
	}
}

/*
Keys that expire between write and save are elided from the file,
so a restore does not resurrect them.
*/
func TestGateSaveSkipsExpiredKeys(t *testing.T) {
	g := NewGate(t.TempDir())

	applyOK(t, g, "SET gone v")
	applyOK(t, g, "EXPIRE gone 0")
	applyOK(t, g, "SET kept v")

	time.Sleep(10 * time.Millisecond)
	applyOK(t, g, "SAVE")
	applyOK(t, g, "FLUSHDB")
	applyOK(t, g, "RESTORE")

	if resp := applyOK(t, g, "GET gone"); resp.String() != "(nil)" {
		t.Fatalf("expected expired key to stay gone, got %s", resp.String())
	}
	if resp := applyOK(t, g, "GET kept"); resp.String() != `"v"` {
		t.Fatalf("expected live key restored, got %s", resp.String())
	}
}

func TestGateRestoreReplacesState(t *testing.T) {
	g := NewGate(t.TempDir())

	applyOK(t, g, "SET saved 1")
	applyOK(t, g, "SAVE")

	applyOK(t, g, "SET transient 2")
	applyOK(t, g, "RESTORE")

	if resp := applyOK(t, g, "GET transient"); resp.String() != "(nil)" {
		t.Fatalf("expected post-save write to vanish on restore, got %s", resp.String())
	}
	if resp := applyOK(t, g, "GET saved"); resp.String() != `"1"` {
		t.Fatalf("expected saved key back, got %s", resp.String())
	}
}

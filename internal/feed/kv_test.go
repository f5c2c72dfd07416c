package feed

import (
	"path/filepath"
	"testing"
)

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv, err := OpenKV(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() {
		_ = kv.Close()
	})

	if _, ok, err := kv.Get("identityToken"); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	if err := kv.Set("identityToken", "anon_1_x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := kv.Get("identityToken")
	if err != nil || !ok || value != "anon_1_x" {
		t.Fatalf("get = (%q, %v, %v)", value, ok, err)
	}

	// Overwrite in place, one row per key.
	if err := kv.Set("identityToken", "anon_2_y"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, _, _ = kv.Get("identityToken")
	if value != "anon_2_y" {
		t.Fatalf("after overwrite = %q", value)
	}
}

func TestSQLiteKVSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	kv, err := OpenKV(path)
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	if err := kv.Set("gameHighScores", `{"a":5}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	again, err := OpenKV(path)
	if err != nil {
		t.Fatalf("reopen kv: %v", err)
	}
	t.Cleanup(func() {
		_ = again.Close()
	})
	value, ok, err := again.Get("gameHighScores")
	if err != nil || !ok || value != `{"a":5}` {
		t.Fatalf("after reopen = (%q, %v, %v)", value, ok, err)
	}
}

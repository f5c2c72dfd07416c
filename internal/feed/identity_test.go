package feed

import (
	"errors"
	"strings"
	"testing"
)

func TestGetOrCreateMintsAndPersists(t *testing.T) {
	kv := NewMemKV()
	m := NewIdentityManager(kv, quietLogger())

	id := m.GetOrCreate()
	if id.Token == "" {
		t.Fatal("expected a minted token")
	}
	if !strings.HasPrefix(id.Token, "anon_") {
		t.Fatalf("unexpected token shape: %q", id.Token)
	}
	if id.IssuedAt.IsZero() {
		t.Fatal("expected an issuance timestamp")
	}

	stored, ok, err := kv.Get("identityToken")
	if err != nil || !ok {
		t.Fatalf("token not persisted: ok=%v err=%v", ok, err)
	}
	if stored != id.Token {
		t.Fatalf("persisted token %q != returned token %q", stored, id.Token)
	}
}

func TestGetOrCreateStableWithinProcess(t *testing.T) {
	m := NewIdentityManager(NewMemKV(), quietLogger())

	first := m.GetOrCreate()
	second := m.GetOrCreate()
	if first.Token != second.Token {
		t.Fatalf("token changed across calls: %q then %q", first.Token, second.Token)
	}
}

func TestGetOrCreateReadsPersistedToken(t *testing.T) {
	kv := NewMemKV()
	if err := kv.Set("identityToken", "anon_123_abc"); err != nil {
		t.Fatal(err)
	}

	m := NewIdentityManager(kv, quietLogger())
	if got := m.GetOrCreate().Token; got != "anon_123_abc" {
		t.Fatalf("expected persisted token, got %q", got)
	}
}

func TestReadFailureMintsNewToken(t *testing.T) {
	kv := newFailingKV()
	if err := kv.Set("identityToken", "anon_123_abc"); err != nil {
		t.Fatal(err)
	}
	kv.getErr = errors.New("disk gone")

	// A storage failure is indistinguishable from "no token stored"; the
	// previously synced token is silently orphaned.
	m := NewIdentityManager(kv, quietLogger())
	got := m.GetOrCreate().Token
	if got == "anon_123_abc" {
		t.Fatal("expected a fresh token after read failure")
	}
	if got == "" {
		t.Fatal("expected a minted token")
	}
}

func TestReconcileOverwrites(t *testing.T) {
	kv := NewMemKV()
	m := NewIdentityManager(kv, quietLogger())

	local := m.GetOrCreate()
	m.Reconcile("anon_999_server")

	if got := m.GetOrCreate().Token; got != "anon_999_server" {
		t.Fatalf("expected server token to win, got %q", got)
	}
	if local.Token == "anon_999_server" {
		t.Fatal("test requires a differing local token")
	}

	stored, ok, err := kv.Get("identityToken")
	if err != nil || !ok {
		t.Fatalf("token not persisted: ok=%v err=%v", ok, err)
	}
	if stored != "anon_999_server" {
		t.Fatalf("persisted token = %q, want server token", stored)
	}
}

func TestReconcileSameTokenIsNoop(t *testing.T) {
	m := NewIdentityManager(NewMemKV(), quietLogger())

	id := m.GetOrCreate()
	m.Reconcile(id.Token)
	if got := m.GetOrCreate(); got.Token != id.Token {
		t.Fatalf("token changed after reconciling the same value: %q", got.Token)
	}
}

func TestReconcileEmptyTokenIgnored(t *testing.T) {
	m := NewIdentityManager(NewMemKV(), quietLogger())

	id := m.GetOrCreate()
	m.Reconcile("")
	if got := m.GetOrCreate().Token; got != id.Token {
		t.Fatalf("empty reconcile changed token to %q", got)
	}
}

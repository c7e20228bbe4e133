package store

import (
	"path/filepath"
	"testing"
)

func createTestCache(t *testing.T) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "stats.db")

	cache, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return cache
}

func TestGetMiss(t *testing.T) {
	c := createTestCache(t)
	defer c.Close()

	payload, err := c.Get("alice", "deadbeef")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if payload != nil {
		t.Errorf("expected nil payload on miss, got %q", payload)
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	c := createTestCache(t)
	defer c.Close()

	want := []byte(`{"meta":{"hash":"deadbeef"}}`)
	if err := c.Put("alice", "deadbeef", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := c.Get("alice", "deadbeef")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// Same key, replaced payload.
	updated := []byte(`{"meta":{"hash":"deadbeef","rows":2}}`)
	if err := c.Put("alice", "deadbeef", updated); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}
	got, err = c.Get("alice", "deadbeef")
	if err != nil {
		t.Fatalf("Get (replaced): %v", err)
	}
	if string(got) != string(updated) {
		t.Errorf("Get after replace = %q, want %q", got, updated)
	}
}

func TestEntriesAreScopedByProfile(t *testing.T) {
	c := createTestCache(t)
	defer c.Close()

	if err := c.Put("alice", "h1", []byte("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	payload, err := c.Get("bob", "h1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if payload != nil {
		t.Errorf("bob should not see alice's entry, got %q", payload)
	}
}

func TestDeleteProfile(t *testing.T) {
	c := createTestCache(t)
	defer c.Close()

	c.Put("alice", "h1", []byte("a"))
	c.Put("alice", "h2", []byte("b"))
	c.Put("bob", "h1", []byte("c"))

	if err := c.DeleteProfile("alice"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	if payload, _ := c.Get("alice", "h1"); payload != nil {
		t.Error("alice/h1 should be gone")
	}
	if payload, _ := c.Get("alice", "h2"); payload != nil {
		t.Error("alice/h2 should be gone")
	}
	if payload, _ := c.Get("bob", "h1"); payload == nil {
		t.Error("bob/h1 should survive")
	}
}

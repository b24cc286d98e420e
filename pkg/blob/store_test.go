// ABOUTME: Tests for the blob store implementations
// ABOUTME: Exercises the memory store and an in-memory Badger instance

package blob

import "testing"

// storeImpls lists every Store implementation under test.
func storeImpls(t *testing.T) map[string]Store {
	badger, err := OpenBadger(InMemoryBadgerConfig())
	if err != nil {
		t.Fatalf("Failed to open in-memory badger: %v", err)
	}
	return map[string]Store{
		"memory": NewMemStore(),
		"badger": badger,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			if err := store.Set("greeting", "hello"); err != nil {
				t.Fatalf("Failed to set: %v", err)
			}

			val, ok, err := store.Get("greeting")
			if err != nil {
				t.Fatalf("Failed to get: %v", err)
			}
			if !ok {
				t.Fatal("Expected key to exist")
			}
			if val != "hello" {
				t.Errorf("Expected 'hello', got '%s'", val)
			}
		})
	}
}

func TestStoreMissingKey(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			_, ok, err := store.Get("absent")
			if err != nil {
				t.Fatalf("Expected missing key not to error, got %v", err)
			}
			if ok {
				t.Error("Expected key to be reported missing")
			}
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			if err := store.Set("k", "first"); err != nil {
				t.Fatalf("Failed to set: %v", err)
			}
			if err := store.Set("k", "second"); err != nil {
				t.Fatalf("Failed to overwrite: %v", err)
			}

			val, _, err := store.Get("k")
			if err != nil {
				t.Fatalf("Failed to get: %v", err)
			}
			if val != "second" {
				t.Errorf("Expected 'second', got '%s'", val)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			if err := store.Set("k", "v"); err != nil {
				t.Fatalf("Failed to set: %v", err)
			}
			if err := store.Delete("k"); err != nil {
				t.Fatalf("Failed to delete: %v", err)
			}

			_, ok, err := store.Get("k")
			if err != nil {
				t.Fatalf("Failed to get after delete: %v", err)
			}
			if ok {
				t.Error("Expected key gone after delete")
			}
		})
	}
}

func TestStoreDeleteMissingKey(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			if err := store.Delete("never-set"); err != nil {
				t.Errorf("Expected deleting a missing key to be a no-op, got %v", err)
			}
		})
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadger(DefaultBadgerConfig(dir))
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	if err := store.Set("durable", "value"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	reopened, err := OpenBadger(DefaultBadgerConfig(dir))
	if err != nil {
		t.Fatalf("Failed to reopen badger: %v", err)
	}
	defer reopened.Close()

	val, ok, err := reopened.Get("durable")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if !ok || val != "value" {
		t.Errorf("Expected persisted value, got ok=%v val='%s'", ok, val)
	}
}

func TestBadgerRequiresPath(t *testing.T) {
	if _, err := OpenBadger(BadgerConfig{}); err == nil {
		t.Error("Expected error for persistent mode without a path")
	}
}

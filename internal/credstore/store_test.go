package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seancottonau/gpioweb/internal/wifi"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "credential.yaml"))
}

// TestLoadAbsent tests that a missing file reads as "no credential"
func TestLoadAbsent(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.Load(); ok {
		t.Error("Load() on empty store reported a credential")
	}
}

// TestSaveLoadRoundTrip tests the persistence round-trip
func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   wifi.Identity
	}{
		{"name and secret", wifi.Identity{Name: "home", Secret: "secret123"}},
		{"open network", wifi.Identity{Name: "cafe-guest"}},
		{"spaces and symbols", wifi.Identity{Name: "My Home: 5GHz", Secret: "p@ss: word"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)

			if err := store.Save(tt.id); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}
			got, ok := store.Load()
			if !ok {
				t.Fatal("Load() reported no credential after Save()")
			}
			if got != tt.id {
				t.Errorf("Load() = %+v, want %+v", got, tt.id)
			}
		})
	}
}

// TestSaveOverwrites tests that a second save replaces the first credential
func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(wifi.Identity{Name: "home", Secret: "secret123"}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if err := store.Save(wifi.Identity{Name: "office", Secret: "pw"}); err != nil {
		t.Fatalf("second Save() unexpected error: %v", err)
	}

	got, ok := store.Load()
	if !ok {
		t.Fatal("Load() reported no credential")
	}
	if got.Name != "office" || got.Secret != "pw" {
		t.Errorf("Load() = %+v, want the overwriting credential", got)
	}
}

// TestClear tests that Clear erases the credential and is safe to repeat
func TestClear(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(wifi.Identity{Name: "home", Secret: "secret123"}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Error("Load() reported a credential after Clear()")
	}

	// Clearing an already empty store must not fail
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() unexpected error: %v", err)
	}
}

// TestLoadCorruptFile tests that an unparseable file degrades to "no
// credential" instead of failing the caller
func TestLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte("::: not yaml {"), 0600); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if _, ok := store.Load(); ok {
		t.Error("Load() reported a credential from a corrupt file")
	}
}

// TestLoadMissingName tests that a record without a name reads as absent
func TestLoadMissingName(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte("secret: orphaned\n"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, ok := store.Load(); ok {
		t.Error("Load() reported a credential despite missing name field")
	}
}

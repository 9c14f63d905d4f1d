package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/seancottonau/gpioweb/internal/logging"
	"github.com/seancottonau/gpioweb/internal/wifi"
)

// DefaultPath is where the daemon keeps the stored credential unless the
// configuration says otherwise.
const DefaultPath = "/var/lib/gpioweb/credential.yaml"

// Store persists a single network credential across power cycles.
type Store interface {
	// Load returns the stored credential, or ok=false when none is stored.
	// Read failures are treated as "no credential".
	Load() (id wifi.Identity, ok bool)

	// Save overwrites the stored credential.
	Save(id wifi.Identity) error

	// Clear erases the stored credential. Clearing an empty store is a no-op.
	Clear() error
}

// record is the on-disk form. Absence of the file or of the name field is
// equivalent to "no credential".
type record struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
}

// FileStore is the YAML-file-backed Store implementation.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Load implements Store.
func (s *FileStore) Load() (wifi.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Credential file unreadable, treating as absent",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return wifi.Identity{}, false
	}

	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		logging.Warn("Credential file corrupt, treating as absent",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return wifi.Identity{}, false
	}

	if rec.Name == "" {
		return wifi.Identity{}, false
	}
	return wifi.Identity{Name: rec.Name, Secret: rec.Secret}, true
}

// Save implements Store. The write is atomic: a crash mid-save leaves either
// the old credential or the new one, never a truncated file.
func (s *FileStore) Save(id wifi.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := yaml.Marshal(record{Name: id.Name, Secret: id.Secret})
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary credential file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save credential file: %w", err)
	}

	return nil
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to erase credential file: %w", err)
	}
	return nil
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/troop-events/internal/catalog"
	"github.com/pfrederiksen/troop-events/internal/event"
)

// ErrNoSnapshot is returned when no cached catalog has been saved yet.
var ErrNoSnapshot = errors.New("no saved catalog")

const catalogFile = "catalog.json"

// Storage handles persistence of event snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if dataDir == "~" || strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, strings.TrimPrefix(dataDir[1:], "/"))
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// DataDir returns the resolved data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

// getSnapshotPath returns the path to the snapshot file
func (s *Storage) getSnapshotPath(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return filepath.Join(s.dataDir, "snapshot.json")
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", name))
}

// LoadSnapshot loads a snapshot from disk. A missing file yields an empty
// snapshot, so every current event counts as new on the first run.
func (s *Storage) LoadSnapshot(name string) (*event.Snapshot, error) {
	path := s.getSnapshotPath(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	// Ensure Events map is initialized
	if snapshot.Events == nil {
		snapshot.Events = make(map[string]event.Record)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk, stamping it with now.
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot, name string, now time.Time) error {
	snapshot.UpdatedAt = now.UTC().Format(time.RFC3339)
	return writeJSON(s.getSnapshotPath(name), snapshot, "snapshot")
}

// CreateSnapshotFromRecords creates and saves a snapshot from a list of records
func (s *Storage) CreateSnapshotFromRecords(records []event.Record, name string, now time.Time) error {
	snapshot := event.CreateSnapshot(records, now.UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot, name, now)
}

// SaveCatalog caches c in the data directory.
func (s *Storage) SaveCatalog(c *catalog.Catalog) error {
	return writeJSON(filepath.Join(s.dataDir, catalogFile), c, "catalog")
}

// LoadCatalog reads the cached catalog. It returns ErrNoSnapshot when none
// has been saved.
func (s *Storage) LoadCatalog() (*catalog.Catalog, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, catalogFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	c := catalog.Empty()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return c, nil
}

func writeJSON(path string, v any, what string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", what, err)
	}

	// Write to a temp file and rename so readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}

	return nil
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

// DefaultDataDir is used when no data directory is configured
const DefaultDataDir = "~/.local/share/bvk-outages"

const snapshotFile = "snapshot.json"

// Storage handles persistence of outage snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// ExpandHome expands a leading ~/ to the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshot loads the last snapshot from disk.
// A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot() (*outage.Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return outage.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot outage.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Records == nil {
		snapshot.Records = make(map[string]*outage.Record)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk, replacing the previous one atomically
func (s *Storage) SaveSnapshot(snapshot *outage.Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := s.snapshotPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.snapshotPath()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromRecords creates and saves a snapshot from a list of records
func (s *Storage) CreateSnapshotFromRecords(records []*outage.Record) error {
	snapshot := outage.CreateSnapshot(records, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot)
}

// GetRecordByID retrieves a record by ID from the saved snapshot
func (s *Storage) GetRecordByID(id string) (*outage.Record, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if rec, exists := snapshot.Records[id]; exists {
		return rec, nil
	}

	return nil, fmt.Errorf("record not found: %s", id)
}

package hitlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
)

// Storage persists the hit log between process runs. Implementations report
// errors honestly; the degrade-to-empty policy lives in Store, not here, so
// a future embedded database can slot in without inheriting it.
type Storage interface {
	Load() (domain.HitLog, error)
	Save(domain.HitLog) error
}

// FileStorage keeps the hit log as a single JSON document on local disk.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed storage at path. The parent
// directory is created on the first Save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads and decodes the persisted document. Missing file and corrupt
// document both surface as errors; callers decide what degradation means.
func (s *FileStorage) Load() (domain.HitLog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.HitLog{}, fmt.Errorf("read hit log: %w", err)
	}

	var log domain.HitLog
	if err := json.Unmarshal(data, &log); err != nil {
		return domain.HitLog{}, fmt.Errorf("decode hit log: %w", err)
	}

	log.Normalize()
	return log, nil
}

// Save writes the document atomically: marshal, write to a temp file in the
// same directory, rename over the old one. A crash mid-write leaves the
// previous document intact instead of a truncated one.
func (s *FileStorage) Save(log domain.HitLog) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("encode hit log: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create hit log directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp hit log: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write hit log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp hit log: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace hit log: %w", err)
	}
	return nil
}

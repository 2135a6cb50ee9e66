// Package filestore persists users and check-ins as JSON arrays on the local
// filesystem. Each collection file is guarded by its own RWMutex: mutations
// hold the write lock for the whole read-modify-write cycle and replace the
// file atomically, reads hold the read lock.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	usersFile    = "users.json"
	checkInsFile = "checkins.json"
)

// Config captures the settings required to open the store.
type Config struct {
	Dir string
}

// Store owns the collection files under a single data directory.
type Store struct {
	dir      string
	users    *collection[userRecord]
	checkIns *collection[checkInRecord]
}

// Open creates the data directory when missing and returns a Store. Collection
// files are created lazily on first write.
func Open(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("filestore: empty data directory")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create data dir: %w", err)
	}

	return &Store{
		dir:      cfg.Dir,
		users:    newCollection[userRecord](filepath.Join(cfg.Dir, usersFile)),
		checkIns: newCollection[checkInRecord](filepath.Join(cfg.Dir, checkInsFile)),
	}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Ping verifies the data directory is still present and writable.
func (s *Store) Ping() error {
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("filestore: data dir not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// Users returns the credential store backed by users.json.
func (s *Store) Users() *UserRepository {
	return &UserRepository{col: s.users}
}

// CheckIns returns the check-in repository backed by checkins.json.
func (s *Store) CheckIns() *CheckInRepository {
	return &CheckInRepository{col: s.checkIns}
}

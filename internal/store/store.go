// Package store provides the durable key-value adapter used by the
// service layer: three independent keyspaces (tasks, workflows,
// projects) backed by a bbolt database, with an ephemeral in-memory
// fallback when the on-disk database cannot be opened.
package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// Keyspace names the three independent buckets the service persists into.
type Keyspace string

const (
	KeyspaceTasks     Keyspace = "tasks"
	KeyspaceWorkflows Keyspace = "workflows"
	KeyspaceProjects  Keyspace = "projects"
)

var allKeyspaces = []Keyspace{KeyspaceTasks, KeyspaceWorkflows, KeyspaceProjects}

// KV is the durable map contract every keyspace is read and written
// through. Values are opaque bytes — callers own serialization.
type KV interface {
	Put(space Keyspace, key string, value []byte) error
	Get(space Keyspace, key string) ([]byte, bool, error)
	Delete(space Keyspace, key string) error
	Iterate(space Keyspace, fn func(key string, value []byte) error) error
	SizeOnDisk() (int64, error)
	Flush() error
	Close() error
}

// Open opens a bbolt-backed KV store rooted at dir. If dir cannot be
// created or the database file cannot be opened, it logs a warning and
// falls back to an ephemeral in-memory store — read/write semantics are
// unchanged, only durability is lost.
func Open(dir string, logger *slog.Logger) KV {
	if dir == "" {
		logger.Warn("no db path configured, using ephemeral storage")
		return newMemoryStore()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("failed to create data directory, falling back to ephemeral storage", "dir", dir, "error", err)
		return newMemoryStore()
	}

	path := filepath.Join(dir, "task-queue.db")
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		logger.Warn("failed to open database, falling back to ephemeral storage", "path", path, "error", err)
		return newMemoryStore()
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, space := range allKeyspaces {
			if _, err := tx.CreateBucketIfNotExists([]byte(space)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("failed to initialize buckets, falling back to ephemeral storage", "error", err)
		_ = db.Close()
		return newMemoryStore()
	}

	logger.Info("opened durable store", "path", path)
	return &boltStore{db: db, path: path}
}

type boltStore struct {
	db   *bbolt.DB
	path string
}

func (s *boltStore) Put(space Keyspace, key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(space))
		return b.Put([]byte(key), value)
	})
}

func (s *boltStore) Get(space Keyspace, key string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(space))
		v := b.Get([]byte(key))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, out != nil, err
}

func (s *boltStore) Delete(space Keyspace, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(space))
		return b.Delete([]byte(key))
	})
}

func (s *boltStore) Iterate(space Keyspace, fn func(key string, value []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(space))
		return b.ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// SizeOnDisk reports the current database file size. bbolt has no async
// flush primitive; every Update already commits its transaction to disk,
// so Flush only forces an fsync via db.Sync rather than draining a
// queued operation.
func (s *boltStore) SizeOnDisk() (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *boltStore) Flush() error {
	return s.db.Sync()
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

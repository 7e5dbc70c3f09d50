// Package service implements the authoritative in-memory task/project/
// workflow maps, each guarded by its own reader-writer lock, backed by
// write-through persistence to a store.KV. It is the single place both
// the HTTP and MCP layers call into — neither transport holds its own
// copy of the domain state.
package service

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hivellm/taskqueue-go/internal/metrics"
	"github.com/hivellm/taskqueue-go/internal/model"
	"github.com/hivellm/taskqueue-go/internal/sidefile"
	"github.com/hivellm/taskqueue-go/internal/store"
	"github.com/hivellm/taskqueue-go/internal/taskerr"
	"github.com/hivellm/taskqueue-go/internal/vectorizer"
)

// Service owns the three entity maps and write-throughs every mutation
// to its backing store.KV. Each map has its own sync.RWMutex: a write to
// tasks never blocks a read of projects.
type Service struct {
	kv     store.KV
	logger *slog.Logger
	side   *sidefile.Writer
	vec    vectorizer.Client
	metrics *metrics.Registry

	tasksMu sync.RWMutex
	tasks   map[string]*model.Task

	projectsMu sync.RWMutex
	projects   map[string]*model.Project

	workflowsMu sync.RWMutex
	workflows   map[string]*model.Workflow
}

// Options configures a new Service. Side, Vectorizer, and Metrics are
// all optional: a nil Side/Vectorizer becomes a no-op, a nil Metrics
// disables instrumentation entirely.
type Options struct {
	Side      *sidefile.Writer
	Vectorizer vectorizer.Client
	Metrics   *metrics.Registry
}

// New constructs a Service and reconstructs its in-memory maps from kv.
// Any deserialization failure for an individual record is logged and the
// record is skipped rather than aborting boot.
func New(kv store.KV, logger *slog.Logger, opts Options) (*Service, error) {
	if opts.Vectorizer == nil {
		opts.Vectorizer = vectorizer.Noop{}
	}
	if opts.Side == nil {
		opts.Side = &sidefile.Writer{Logger: logger}
	}

	s := &Service{
		kv:       kv,
		logger:   logger,
		side:     opts.Side,
		vec:      opts.Vectorizer,
		metrics:  opts.Metrics,
		tasks:    make(map[string]*model.Task),
		projects: make(map[string]*model.Project),
		workflows: make(map[string]*model.Workflow),
	}

	if err := s.boot(); err != nil {
		return nil, err
	}
	return s, nil
}

// boot reconstructs the in-memory maps by iterating every keyspace.
func (s *Service) boot() error {
	if err := s.kv.Iterate(store.KeyspaceProjects, func(key string, value []byte) error {
		var p model.Project
		if err := json.Unmarshal(value, &p); err != nil {
			s.logger.Warn("boot: skipping malformed project record", "key", key, "error", err)
			return nil
		}
		s.projects[p.ID] = &p
		return nil
	}); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "iterating projects keyspace")
	}

	if err := s.kv.Iterate(store.KeyspaceTasks, func(key string, value []byte) error {
		var t model.Task
		if err := json.Unmarshal(value, &t); err != nil {
			s.logger.Warn("boot: skipping malformed task record", "key", key, "error", err)
			return nil
		}
		s.tasks[t.ID] = &t
		return nil
	}); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "iterating tasks keyspace")
	}

	if err := s.kv.Iterate(store.KeyspaceWorkflows, func(key string, value []byte) error {
		var w model.Workflow
		if err := json.Unmarshal(value, &w); err != nil {
			s.logger.Warn("boot: skipping malformed workflow record", "key", key, "error", err)
			return nil
		}
		s.workflows[w.ID] = &w
		return nil
	}); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "iterating workflows keyspace")
	}

	s.logger.Info("boot: reconstructed in-memory state",
		"projects", len(s.projects), "tasks", len(s.tasks), "workflows", len(s.workflows))
	return nil
}

func newID() string {
	return uuid.NewString()
}

// persistTask write-throughs t to the tasks keyspace.
func (s *Service) persistTask(t *model.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return taskerr.Wrap(taskerr.KindSerializationError, err, "marshaling task %s", t.ID)
	}
	if err := s.kv.Put(store.KeyspaceTasks, t.ID, data); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "persisting task %s", t.ID)
	}
	return nil
}

func (s *Service) persistProject(p *model.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return taskerr.Wrap(taskerr.KindSerializationError, err, "marshaling project %s", p.ID)
	}
	if err := s.kv.Put(store.KeyspaceProjects, p.ID, data); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "persisting project %s", p.ID)
	}
	return nil
}

func (s *Service) persistWorkflow(w *model.Workflow) error {
	data, err := json.Marshal(w)
	if err != nil {
		return taskerr.Wrap(taskerr.KindSerializationError, err, "marshaling workflow %s", w.ID)
	}
	if err := s.kv.Put(store.KeyspaceWorkflows, w.ID, data); err != nil {
		return taskerr.Wrap(taskerr.KindStorageError, err, "persisting workflow %s", w.ID)
	}
	return nil
}

// completedResultsLocked snapshots every task's terminal Result, for use by
// readiness checks (IsReady / GetReadyTasks). Callers must already hold
// (at least) a read lock on tasksMu.
func (s *Service) completedResultsLocked() map[string]*model.Result {
	out := make(map[string]*model.Result, len(s.tasks))
	for id, t := range s.tasks {
		if t.Result != nil {
			out[id] = t.Result
		}
	}
	return out
}

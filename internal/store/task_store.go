package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"matrix-planner/internal/model"
	"matrix-planner/internal/stats"
)

// TaskPersister is the storage binding behind a TaskStore.
type TaskPersister interface {
	LoadTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
}

// TaskStore owns the task list.
type TaskStore struct {
	persister TaskPersister
	now       func() time.Time
	log       *zap.Logger

	// commitMu orders changes from mutation through save and notify.
	commitMu sync.Mutex

	mu     sync.Mutex
	tasks  []model.Task
	lastID int64

	changes notifier[[]model.Task]
}

// NewTaskStore loads the persisted list. A nil persister keeps tasks in memory only.
func NewTaskStore(ctx context.Context, persister TaskPersister, opts ...Option) (*TaskStore, error) {
	o := buildOptions(opts)
	s := &TaskStore{
		persister: persister,
		now:       o.now,
		log:       o.log.Named("tasks"),
		tasks:     []model.Task{},
	}
	if persister == nil {
		return s, nil
	}

	tasks, err := persister.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	s.tasks = append(s.tasks, tasks...)
	for _, t := range tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.log.Debug("tasks loaded", zap.Int("count", len(tasks)))
	return s, nil
}

// Tasks returns a snapshot of the list in insertion order.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *TaskStore) Get(id int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// Subscribe registers fn to receive the list after every change.
// Listeners run one change at a time and must not mutate the store.
func (s *TaskStore) Subscribe(fn func([]model.Task)) (unsubscribe func()) {
	return s.changes.subscribe(fn)
}

// Add captures a new open task.
func (s *TaskStore) Add(title string, important, urgent bool) model.Task {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	task := model.Task{
		ID:        id,
		Title:     title,
		Important: important,
		Urgent:    urgent,
		CreatedAt: now,
	}
	s.tasks = append(s.tasks, task)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("task added", zap.Int64("id", id), zap.String("quadrant", string(task.Quadrant())))
	s.commit(snapshot)
	return task.Clone()
}

// ToggleCompleted flips the completed flag and stamps or clears the completion time.
func (s *TaskStore) ToggleCompleted(id int64) (model.Task, bool) {
	return s.update(id, "completed", func(t *model.Task) {
		t.Completed = !t.Completed
		if t.Completed {
			at := s.now()
			t.CompletedAt = &at
		} else {
			t.CompletedAt = nil
		}
	})
}

func (s *TaskStore) ToggleImportant(id int64) (model.Task, bool) {
	return s.update(id, "important", func(t *model.Task) { t.Important = !t.Important })
}

func (s *TaskStore) ToggleUrgent(id int64) (model.Task, bool) {
	return s.update(id, "urgent", func(t *model.Task) { t.Urgent = !t.Urgent })
}

// Delete removes the task and returns it.
func (s *TaskStore) Delete(id int64) (model.Task, bool) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Task{}, false
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("task deleted", zap.Int64("id", id))
	s.commit(snapshot)
	return removed, true
}

// IsToday reports whether t falls on the store clock's current calendar day.
func (s *TaskStore) IsToday(t time.Time) bool {
	return stats.IsToday(t, s.now())
}

func (s *TaskStore) update(id int64, field string, mutate func(*model.Task)) (model.Task, bool) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debug("task not found", zap.Int64("id", id), zap.String("field", field))
		return model.Task{}, false
	}
	mutate(&s.tasks[i])
	updated := s.tasks[i].Clone()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("task toggled", zap.Int64("id", id), zap.String("field", field))
	s.commit(snapshot)
	return updated, true
}

// commit saves and publishes snapshot. Callers hold commitMu.
func (s *TaskStore) commit(snapshot []model.Task) {
	if s.persister != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		err := s.persister.SaveTasks(ctx, snapshot)
		cancel()
		if err != nil {
			s.log.Error("persist tasks", zap.Error(err))
		}
	}
	s.changes.notify(snapshot)
}

func (s *TaskStore) indexLocked(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) snapshotLocked() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"matrix-planner/internal/model"
	"matrix-planner/internal/store"
)

var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidQuadrant = errors.New("invalid quadrant")
)

// TaskService wraps task actions with validation and status announcements.
type TaskService struct {
	tasks *store.TaskStore
	ui    *store.UIStore
	log   *zap.Logger
}

func NewTaskService(tasks *store.TaskStore, ui *store.UIStore, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{tasks: tasks, ui: ui, log: log.Named("task_service")}
}

// Capture adds a task and resets the quick capture draft.
func (s *TaskService) Capture(title string, important, urgent bool) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	task := s.tasks.Add(title, important, urgent)
	s.ui.ResetCaptureState()
	s.ui.ToggleQuickCapture(false)
	s.ui.AnnounceStatus(fmt.Sprintf("Added %q to %s", task.Title, task.Quadrant().Label()))
	return task, nil
}

// CaptureInQuadrant adds a task with the flags that classify into q.
func (s *TaskService) CaptureInQuadrant(title string, q model.Quadrant) (model.Task, error) {
	if !q.Valid() {
		return model.Task{}, fmt.Errorf("%w: %q", ErrInvalidQuadrant, q)
	}
	important, urgent := q.Flags()
	return s.Capture(title, important, urgent)
}

// CaptureDraft submits the draft held by the UI store.
func (s *TaskService) CaptureDraft() (model.Task, error) {
	st := s.ui.Snapshot()
	return s.Capture(st.TaskInput, st.CaptureImportant, st.CaptureUrgent)
}

// ToggleCompleted completes an open task or reopens a completed one.
func (s *TaskService) ToggleCompleted(id int64) (model.Task, error) {
	task, ok := s.tasks.ToggleCompleted(id)
	if !ok {
		return model.Task{}, s.notFound(id)
	}
	if task.Completed {
		s.ui.AnnounceStatus(fmt.Sprintf("Completed %q", task.Title))
	} else {
		s.ui.AnnounceStatus(fmt.Sprintf("Reopened %q", task.Title))
	}
	return task, nil
}

func (s *TaskService) ToggleImportant(id int64) (model.Task, error) {
	task, ok := s.tasks.ToggleImportant(id)
	if !ok {
		return model.Task{}, s.notFound(id)
	}
	s.ui.AnnounceStatus(fmt.Sprintf("%q moved to %s", task.Title, task.Quadrant().Label()))
	return task, nil
}

func (s *TaskService) ToggleUrgent(id int64) (model.Task, error) {
	task, ok := s.tasks.ToggleUrgent(id)
	if !ok {
		return model.Task{}, s.notFound(id)
	}
	s.ui.AnnounceStatus(fmt.Sprintf("%q moved to %s", task.Title, task.Quadrant().Label()))
	return task, nil
}

func (s *TaskService) Delete(id int64) (model.Task, error) {
	task, ok := s.tasks.Delete(id)
	if !ok {
		return model.Task{}, s.notFound(id)
	}
	s.ui.AnnounceStatus(fmt.Sprintf("Deleted %q", task.Title))
	return task, nil
}

func (s *TaskService) notFound(id int64) error {
	s.log.Debug("task not found", zap.Int64("id", id))
	return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
}

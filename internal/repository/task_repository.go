package repository

import (
	"context"
	"errors"

	"matrix-planner/internal/model"
)

// TasksKey is the storage key holding the task array.
const TasksKey = "coveyTasks"

// TaskRepository persists the whole task list as one JSON array.
type TaskRepository struct {
	storage *LocalStorage
}

func NewTaskRepository(storage *LocalStorage) *TaskRepository {
	return &TaskRepository{storage: storage}
}

// LoadTasks returns the stored list, or an empty list if nothing was saved yet.
func (r *TaskRepository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.storage.Get(ctx, TasksKey, &tasks)
	if errors.Is(err, ErrNotFound) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (r *TaskRepository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return r.storage.Set(ctx, TasksKey, tasks)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/and161185/zserver/internal/errs"
	"github.com/and161185/zserver/internal/model"
	"github.com/and161185/zserver/internal/repository"
	"github.com/and161185/zserver/internal/reqctx"
)

// MaxTitleLen matches the tasks.title column width.
const MaxTitleLen = 256

// TaskService defines task operations on behalf of an authenticated ctx.
type TaskService interface {
	Create(ctx context.Context, c reqctx.Ctx, data model.TaskForCreate) (model.Task, error)
	Get(ctx context.Context, c reqctx.Ctx, id int64) (model.Task, error)
	List(ctx context.Context, c reqctx.Ctx) ([]model.Task, error)
	Update(ctx context.Context, c reqctx.Ctx, id int64, data model.TaskForUpdate) (model.Task, error)
	Delete(ctx context.Context, c reqctx.Ctx, id int64) error
}

type TaskServiceImpl struct {
	tasks repository.Tasks
	mm    *model.Manager
}

// NewTaskService constructs TaskService.
func NewTaskService(tasks repository.Tasks, mm *model.Manager) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, mm: mm}
}

// Create validates the title and returns the stored task.
func (s *TaskServiceImpl) Create(ctx context.Context, c reqctx.Ctx, data model.TaskForCreate) (model.Task, error) {
	data.Title = strings.TrimSpace(data.Title)
	if err := validateTitle(data.Title); err != nil {
		return model.Task{}, err
	}
	id, err := s.tasks.Create(ctx, c, s.mm, data)
	if err != nil {
		return model.Task{}, err
	}
	return s.tasks.Get(ctx, c, s.mm, id)
}

// Get fetches a single task.
func (s *TaskServiceImpl) Get(ctx context.Context, c reqctx.Ctx, id int64) (model.Task, error) {
	if err := validateID(id); err != nil {
		return model.Task{}, err
	}
	return s.tasks.Get(ctx, c, s.mm, id)
}

// List returns all tasks.
func (s *TaskServiceImpl) List(ctx context.Context, c reqctx.Ctx) ([]model.Task, error) {
	return s.tasks.List(ctx, c, s.mm)
}

// Update applies data and returns the stored task.
func (s *TaskServiceImpl) Update(ctx context.Context, c reqctx.Ctx, id int64, data model.TaskForUpdate) (model.Task, error) {
	if err := validateID(id); err != nil {
		return model.Task{}, err
	}
	if data.Title == nil {
		return model.Task{}, fmt.Errorf("%w: nothing to update", errs.ErrValidation)
	}
	title := strings.TrimSpace(*data.Title)
	if err := validateTitle(title); err != nil {
		return model.Task{}, err
	}
	data.Title = &title
	if err := s.tasks.Update(ctx, c, s.mm, id, data); err != nil {
		return model.Task{}, err
	}
	return s.tasks.Get(ctx, c, s.mm, id)
}

// Delete removes a task.
func (s *TaskServiceImpl) Delete(ctx context.Context, c reqctx.Ctx, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, c, s.mm, id)
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", errs.ErrValidation)
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: empty title", errs.ErrValidation)
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("%w: title longer than %d", errs.ErrValidation, MaxTitleLen)
	}
	return nil
}

package model

import (
	"context"

	"github.com/and161185/zserver/internal/reqctx"
)

// Task is a row of the tasks table.
type Task struct {
	ID    int64  `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
}

// TaskForCreate is the payload of TaskBmc.Create.
type TaskForCreate struct {
	Title string `json:"title"`
}

func (d TaskForCreate) fields() fields {
	return fields{names: []string{"title"}, values: []any{d.Title}}
}

// TaskForUpdate is the payload of TaskBmc.Update. Nil fields are left unchanged.
type TaskForUpdate struct {
	Title *string `json:"title"`
}

func (d TaskForUpdate) fields() fields {
	var f fields
	if d.Title != nil {
		f.names = append(f.names, "title")
		f.values = append(f.values, *d.Title)
	}
	return f
}

var taskTable = table{name: "tasks", entity: "task", columns: []string{"id", "title"}}

// TaskBmc is the backend model controller of tasks.
type TaskBmc struct{}

func (TaskBmc) Create(ctx context.Context, c reqctx.Ctx, mm *Manager, data TaskForCreate) (int64, error) {
	return create(ctx, c, mm, taskTable, data)
}

func (TaskBmc) Get(ctx context.Context, c reqctx.Ctx, mm *Manager, id int64) (Task, error) {
	return get[Task](ctx, c, mm, taskTable, id)
}

func (TaskBmc) List(ctx context.Context, c reqctx.Ctx, mm *Manager) ([]Task, error) {
	return list[Task](ctx, c, mm, taskTable)
}

func (TaskBmc) Update(ctx context.Context, c reqctx.Ctx, mm *Manager, id int64, data TaskForUpdate) error {
	return update(ctx, c, mm, taskTable, id, data)
}

func (TaskBmc) Delete(ctx context.Context, c reqctx.Ctx, mm *Manager, id int64) error {
	return remove(ctx, c, mm, taskTable, id)
}

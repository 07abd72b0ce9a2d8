// Package repository defines the entity access interfaces consumed by services.
// The Bmc types of package model implement them.
package repository

import (
	"context"

	"github.com/and161185/zserver/internal/model"
	"github.com/and161185/zserver/internal/reqctx"
)

// Entity is the capability set shared by every entity kind E with create payload C.
type Entity[E, C any] interface {
	// Create inserts data and returns the new id.
	Create(ctx context.Context, c reqctx.Ctx, mm *model.Manager, data C) (int64, error)
	// Get loads one entity; a missing row gives *model.EntityNotFoundError.
	Get(ctx context.Context, c reqctx.Ctx, mm *model.Manager, id int64) (E, error)
	// List returns all entities ordered by id.
	List(ctx context.Context, c reqctx.Ctx, mm *model.Manager) ([]E, error)
	// Delete removes one entity; a missing row gives *model.EntityNotFoundError.
	Delete(ctx context.Context, c reqctx.Ctx, mm *model.Manager, id int64) error
}

// Tasks provides access to tasks.
type Tasks interface {
	Entity[model.Task, model.TaskForCreate]
	// Update changes the non-nil fields of data.
	Update(ctx context.Context, c reqctx.Ctx, mm *model.Manager, id int64, data model.TaskForUpdate) error
}

// Users provides access to users and their login/auth views.
type Users interface {
	Entity[model.User, model.UserForCreate]
	// FirstForLogin loads the password view by username.
	FirstForLogin(ctx context.Context, c reqctx.Ctx, mm *model.Manager, username string) (model.UserForLogin, error)
	// FirstForAuth loads the token-salt view by username.
	FirstForAuth(ctx context.Context, c reqctx.Ctx, mm *model.Manager, username string) (model.UserForAuth, error)
	// UpdatePwd replaces the stored password hash.
	UpdatePwd(ctx context.Context, c reqctx.Ctx, mm *model.Manager, id int64, pwdClear string) error
}

var (
	_ Tasks = model.TaskBmc{}
	_ Users = model.UserBmc{}
)

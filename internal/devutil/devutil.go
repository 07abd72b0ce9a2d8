// Package devutil bootstraps development and test databases.
//
// FOR-DEV-ONLY: nothing here may run against a production database.
package devutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/zserver/internal/config"
	"github.com/and161185/zserver/internal/errs"
	"github.com/and161185/zserver/internal/migrate"
	"github.com/and161185/zserver/internal/model"
	"github.com/and161185/zserver/internal/reqctx"
)

const (
	DemoUsername = "demo1"
	DemoPwd      = "welcome"
)

var (
	devOnce sync.Once
	devErr  error
)

// seams for tests
var (
	migrateUp  = migrate.Up
	newManager = model.NewManager
	users      interface {
		Create(context.Context, reqctx.Ctx, *model.Manager, model.UserForCreate) (int64, error)
	} = model.UserBmc{}
)

// InitDev migrates the dev database and seeds the demo user.
// It runs once per process; later calls return the first result.
func InitDev(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	devOnce.Do(func() {
		devErr = initDev(ctx, cfg, log)
	})
	return devErr
}

func initDev(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("FOR-DEV-ONLY - init dev db", zap.String("user", DemoUsername))

	if err := migrateUp(ctx, cfg.DatabaseDSN); err != nil {
		return fmt.Errorf("dev migrate: %w", err)
	}

	mm, err := newManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer mm.Close()

	_, err = users.Create(ctx, reqctx.Root(), mm, model.UserForCreate{Username: DemoUsername, PwdClear: DemoPwd})
	switch {
	case errors.Is(err, errs.ErrAlreadyExists):
		log.Info("FOR-DEV-ONLY - demo user already present")
	case err != nil:
		return fmt.Errorf("dev seed user: %w", err)
	}
	return nil
}

// SeedTasks creates one task per title and returns the stored rows in order.
func SeedTasks(ctx context.Context, c reqctx.Ctx, mm *model.Manager, titles []string) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(titles))
	for _, title := range titles {
		id, err := model.TaskBmc{}.Create(ctx, c, mm, model.TaskForCreate{Title: title})
		if err != nil {
			return nil, err
		}
		t, err := model.TaskBmc{}.Get(ctx, c, mm, id)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

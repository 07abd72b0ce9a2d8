// Package devtest gives integration tests a shared, migrated database.
// Only test binaries import it.
package devtest

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/and161185/zserver/internal/config"
	"github.com/and161185/zserver/internal/devutil"
	"github.com/and161185/zserver/internal/model"
)

// DSNEnv names the variable Init reads its database from.
const DSNEnv = "ZS_TEST_DSN"

var (
	once  sync.Once
	mm    *model.Manager
	mmErr error
)

// Init returns the Manager shared by integration tests, migrating and
// seeding the database on first use. Tests are skipped when ZS_TEST_DSN is unset.
func Init(t testing.TB) *model.Manager {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", DSNEnv)
	}

	once.Do(func() {
		cfg := &config.Config{}
		cfg.LoadDefaults()
		cfg.DatabaseDSN = dsn

		ctx := context.Background()
		if mmErr = devutil.InitDev(ctx, cfg, nil); mmErr != nil {
			return
		}
		mm, mmErr = model.NewManager(ctx, cfg)
	})
	if mmErr != nil {
		t.Fatalf("init test db: %v", mmErr)
	}
	return mm
}

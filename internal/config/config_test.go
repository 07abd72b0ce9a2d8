package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/and161185/zserver/internal/utils"
)

var fxKey = bytes.Repeat([]byte{0x5a}, 64)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_DefaultsAndEnvKey(t *testing.T) {
	t.Parallel()

	cfg, err := Load(nil, env(map[string]string{"ZS_TOKEN_KEY": utils.B64uEncodeBytes(fxKey)}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(cfg.TokenKey, fxKey) {
		t.Fatalf("token key not decoded")
	}
	if cfg.Addr != ":8080" || cfg.TokenDurationSec != 1800 || cfg.LoginMaxFails != 5 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.LoginWindow != 15*time.Minute {
		t.Fatalf("LoginWindow=%v", cfg.LoginWindow)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "zs.yaml")
	yml := "addr: \":7000\"\ntoken_duration_sec: 60\ndatabase_dsn: postgres://file\nlogin_window: 1m\ntoken_key: " +
		utils.B64uEncodeBytes(fxKey) + "\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(
		[]string{"-config", path, "-addr", ":9000", "-token-duration", "0.01"},
		env(map[string]string{"ZS_ADDR": ":8000", "ZS_DATABASE_DSN": "postgres://env"}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("flag should win: Addr=%q", cfg.Addr)
	}
	if cfg.DatabaseDSN != "postgres://env" {
		t.Fatalf("env should beat file: DSN=%q", cfg.DatabaseDSN)
	}
	if cfg.TokenDurationSec != 0.01 {
		t.Fatalf("fractional duration lost: %v", cfg.TokenDurationSec)
	}
	if cfg.LoginWindow != time.Minute {
		t.Fatalf("file should beat default: LoginWindow=%v", cfg.LoginWindow)
	}
}

func TestLoad_KeyErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing":   "",
		"not b64u":  "not*base64",
		"too short": utils.B64uEncodeBytes([]byte("short")),
	}
	for name, key := range cases {
		_, err := Load(nil, env(map[string]string{"ZS_TOKEN_KEY": key}))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: want ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoad_BadValues(t *testing.T) {
	t.Parallel()

	key := utils.B64uEncodeBytes(fxKey)
	if _, err := Load([]string{"-token-key", key, "-token-duration", "0"}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig on zero duration, got %v", err)
	}
	if _, err := Load([]string{"-token-key", key, "-login-window", "soon"}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig on bad window, got %v", err)
	}
	if _, err := Load([]string{"-token-key", key}, env(map[string]string{"ZS_DEV": "maybe"})); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig on bad ZS_DEV, got %v", err)
	}
	if _, err := Load([]string{"-no-such-flag"}, nil); err == nil {
		t.Fatalf("want flag parse error")
	}
	if _, err := Load([]string{"-config", "/does/not/exist.yaml", "-token-key", key}, nil); err == nil {
		t.Fatalf("want file read error")
	}
}

func TestLoad_DurationNotFinite(t *testing.T) {
	t.Parallel()

	key := utils.B64uEncodeBytes(fxKey)
	for _, d := range []string{"NaN", "Inf", "+Inf", "-Inf", "1e12"} {
		if _, err := Load([]string{"-token-key", key, "-token-duration", d}, nil); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("flag %s: want ErrInvalidConfig, got %v", d, err)
		}
		_, err := Load([]string{"-token-key", key}, env(map[string]string{"ZS_TOKEN_DURATION_SEC": d}))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("env %s: want ErrInvalidConfig, got %v", d, err)
		}
	}

	path := filepath.Join(t.TempDir(), "zs.yaml")
	if err := os.WriteFile(path, []byte("token_duration_sec: .nan\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load([]string{"-config", path, "-token-key", key}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("yaml .nan: want ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_LoginLimiterFromEnv(t *testing.T) {
	t.Parallel()

	key := utils.B64uEncodeBytes(fxKey)
	cfg, err := Load(
		[]string{"-login-block-for", "2h"},
		env(map[string]string{
			"ZS_TOKEN_KEY":       key,
			"ZS_LOGIN_WINDOW":    "30s",
			"ZS_LOGIN_MAX_FAILS": "3",
			"ZS_LOGIN_BLOCK_FOR": "1h",
		}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LoginWindow != 30*time.Second || cfg.LoginMaxFails != 3 {
		t.Fatalf("env not applied: window=%v maxFails=%d", cfg.LoginWindow, cfg.LoginMaxFails)
	}
	if cfg.LoginBlockFor != 2*time.Hour {
		t.Fatalf("flag should beat env: LoginBlockFor=%v", cfg.LoginBlockFor)
	}

	bad := []map[string]string{
		{"ZS_LOGIN_MAX_FAILS": "many"},
		{"ZS_LOGIN_MAX_FAILS": "0"},
		{"ZS_LOGIN_WINDOW": "0s"},
		{"ZS_LOGIN_BLOCK_FOR": "-1m"},
	}
	for _, m := range bad {
		m["ZS_TOKEN_KEY"] = key
		if _, err := Load(nil, env(m)); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%v: want ErrInvalidConfig, got %v", m, err)
		}
	}
}

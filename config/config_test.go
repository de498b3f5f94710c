package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platformer.yaml")
	data := []byte(`
server:
  addr: ":9000"
  tick_rate: 30
log:
  level: debug
level: levels/custom.yaml
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.TickRate != 30 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.InputBuffer != 1024 || cfg.Log.MaxSizeMB != 10 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Level != "levels/custom.yaml" {
		t.Errorf("log/level = %+v %q", cfg.Log, cfg.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PLATFORMER_ADDR":       "127.0.0.1:7000",
		"PLATFORMER_TICK_RATE":  "20",
		"PLATFORMER_LOG_LEVEL":  "WARN",
		"PLATFORMER_LEVEL":      "l.yaml",
		"PLATFORMER_STATIC_DIR": "static",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" || cfg.Server.TickRate != 20 ||
		cfg.Log.Level != "warn" || cfg.Level != "l.yaml" || cfg.Server.StaticDir != "static" {
		t.Fatalf("cfg = %+v", cfg)
	}

	env["PLATFORMER_TICK_RATE"] = "fast"
	if err := cfg.applyEnv(lookup); err == nil {
		t.Fatalf("expected error for non-numeric tick rate")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PLATFORMER_TEST_ENV_FILE=yes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PLATFORMER_TEST_ENV_FILE") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if os.Getenv("PLATFORMER_TEST_ENV_FILE") != "yes" {
		t.Fatalf("variable not loaded")
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	cfg.Server.TickRate = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if got := len(multierr.Errors(err)); got != 3 {
		t.Fatalf("errors = %d (%v), want 3", got, err)
	}
}

func TestValidateTickRateBounds(t *testing.T) {
	tests := []struct {
		rate  int
		valid bool
	}{
		{-1, false},
		{0, false},
		{1, true},
		{60, true},
		{MaxTickRate, true},
		{MaxTickRate + 1, false},
		{2_000_000_000, false},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Server.TickRate = tt.rate
		if err := cfg.Validate(); (err == nil) != tt.valid {
			t.Errorf("tick_rate %d: err = %v, want valid=%v", tt.rate, err, tt.valid)
		}
	}
}

func TestDefaultServesNoStaticFiles(t *testing.T) {
	if dir := Default().Server.StaticDir; dir != "" {
		t.Fatalf("default static_dir = %q, want empty", dir)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/kbukum/flowio/errors"
	"github.com/kbukum/flowio/scheduler"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Name != "flowio" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("Environment = %q, Debug = %v", cfg.Environment, cfg.Debug)
	}
	if cfg.Scheduler.Mode != ModeMicrotask {
		t.Errorf("Scheduler.Mode = %q", cfg.Scheduler.Mode)
	}
	if cfg.Iterator.DefaultMaxBufferSize != 4 {
		t.Errorf("DefaultMaxBufferSize = %d", cfg.Iterator.DefaultMaxBufferSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug in development", cfg.Logging.Level)
	}
}

func TestApplyDefaultsProduction(t *testing.T) {
	cfg := Config{Environment: "production"}
	cfg.ApplyDefaults()
	if cfg.Debug {
		t.Error("expected Debug false outside development")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadSchedulerMode(t *testing.T) {
	cfg := Config{Scheduler: SchedulerConfig{Mode: "threads"}}
	cfg.ApplyDefaults()
	cfg.Scheduler.Mode = "threads"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error for an unknown scheduler mode")
	}
	app, ok := apperrors.AsAppError(err)
	if !ok || app.Code != apperrors.ErrCodeInvalidConfig {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestValidateRejectsBadBufferSize(t *testing.T) {
	cfg := Config{Iterator: IteratorConfig{DefaultMaxBufferSize: -2}}
	cfg.Scheduler.ApplyDefaults()
	cfg.Logging.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a negative buffer size")
	}
}

func TestSchedulerBuild(t *testing.T) {
	cases := []struct {
		mode SchedulerMode
		want string
	}{
		{ModeMicrotask, "*scheduler.Queue"},
		{ModeImmediate, "*scheduler.Immediate"},
		{ModeManual, "*scheduler.Manual"},
	}
	for _, tc := range cases {
		c := SchedulerConfig{Mode: tc.mode}
		s, err := c.Build()
		if err != nil {
			t.Fatalf("Build(%s): %v", tc.mode, err)
		}
		switch tc.mode {
		case ModeMicrotask:
			if _, ok := s.(*scheduler.Queue); !ok {
				t.Errorf("Build(%s) = %T", tc.mode, s)
			}
		case ModeImmediate:
			if _, ok := s.(*scheduler.Immediate); !ok {
				t.Errorf("Build(%s) = %T", tc.mode, s)
			}
		case ModeManual:
			if _, ok := s.(*scheduler.Manual); !ok {
				t.Errorf("Build(%s) = %T", tc.mode, s)
			}
		}
	}
	if _, err := (&SchedulerConfig{Mode: "bogus"}).Build(); err == nil {
		t.Error("expected Build to reject an unknown mode")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "name: etl\nscheduler:\n  mode: manual\niterator:\n  default_max_buffer_size: 16\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg Config
	if err := Load("etl", &cfg, WithConfigFile(path)); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "etl" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Scheduler.Mode != ModeManual {
		t.Errorf("Scheduler.Mode = %q", cfg.Scheduler.Mode)
	}
	if cfg.Iterator.DefaultMaxBufferSize != 16 {
		t.Errorf("DefaultMaxBufferSize = %d", cfg.Iterator.DefaultMaxBufferSize)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("scheduler:\n  mode: manual\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCHEDULER_MODE", "immediate")

	var cfg Config
	if err := Load("etl", &cfg, WithConfigFile(path)); err != nil {
		t.Fatal(err)
	}
	if cfg.Scheduler.Mode != ModeImmediate {
		t.Errorf("Scheduler.Mode = %q, want env override", cfg.Scheduler.Mode)
	}
}

func TestLoadMissingFilesIsFine(t *testing.T) {
	var cfg Config
	if err := Load("nonexistent-host", &cfg, WithFileSystem(emptyFS{})); err != nil {
		t.Fatalf("expected missing files to be skipped, got %v", err)
	}
}

type emptyFS struct{}

func (emptyFS) Exists(string) bool   { return false }
func (emptyFS) LoadEnv(string) error { return nil }

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("SCHEDULER_MODE")
	want := map[string]bool{"scheduler_mode": true, "scheduler.mode": true}
	for _, v := range variants {
		delete(want, v)
	}
	if len(want) != 0 {
		t.Errorf("missing variants %v in %v", want, variants)
	}
	if got := envKeyVariants("PATH"); len(got) != 1 || got[0] != "path" {
		t.Errorf("single-part key variants = %v", got)
	}
}

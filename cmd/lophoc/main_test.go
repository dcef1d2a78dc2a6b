package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/lophoc/internal/config"
	"github.com/verte-zerg/lophoc/internal/content"
	"github.com/verte-zerg/lophoc/internal/model"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("commented template must decode: %v", err)
	}
	if cfg.Play.Model != nil {
		t.Fatalf("expected no values from commented template")
	}

	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = config.LoadConfig(path)
	if err != nil {
		t.Fatalf("uncommented template must decode: %v", err)
	}
	if cfg.Play.Model == nil || *cfg.Play.Model != content.DefaultModel {
		t.Fatalf("expected default model, got %v", cfg.Play.Model)
	}
	if cfg.Play.Offline == nil || *cfg.Play.Offline {
		t.Fatalf("expected offline=false, got %v", cfg.Play.Offline)
	}
}

func TestEnsureConfigFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[play]\ndebug = true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[play]\ndebug = true\n" {
		t.Fatalf("existing config overwritten: %q", data)
	}
}

func TestResolveSource(t *testing.T) {
	ctx := context.Background()

	src, err := resolveSource(ctx, model.Config{Model: content.DefaultModel, Offline: true, APIKey: "key"})
	if err != nil || src != nil {
		t.Fatalf("offline must use built-in items, got %v err=%v", src, err)
	}

	src, err = resolveSource(ctx, model.Config{Model: content.DefaultModel})
	if err != nil || src != nil {
		t.Fatalf("missing credential must use built-in items, got %v err=%v", src, err)
	}

	src, err = resolveSource(ctx, model.Config{Model: content.DefaultModel, ItemsFile: "items.txt", APIKey: "key"})
	if err != nil {
		t.Fatalf("items file: %v", err)
	}
	if _, ok := src.(*content.FileSource); !ok {
		t.Fatalf("expected file source, got %T", src)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(model.Config{Model: " "}); err == nil {
		t.Fatalf("expected error for blank model")
	}
	if err := validateConfig(model.Config{Model: "m", Offline: true, ItemsFile: "x"}); err == nil {
		t.Fatalf("expected error for offline with items file")
	}
	if err := validateConfig(model.Config{Model: "m"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildStatsConfig(t *testing.T) {
	statsPlayer, statsSince, statsLast, statsCurveWindow = "  An ", "2026-10-01", 3, 4
	t.Cleanup(func() {
		statsPlayer, statsSince, statsLast, statsCurveWindow = "", "", 0, defaultCurveWindow
	})
	cfg, err := buildStatsConfig()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Player != "An" || cfg.Last != 3 || cfg.CurveWindow != 4 || cfg.Since == nil {
		t.Fatalf("unexpected stats config: %+v", cfg)
	}

	statsCurveWindow = 0
	if _, err := buildStatsConfig(); err == nil {
		t.Fatalf("expected error for zero curve window")
	}
	statsCurveWindow, statsSince = 4, "01/10/2026"
	if _, err := buildStatsConfig(); err == nil {
		t.Fatalf("expected error for malformed since")
	}
}

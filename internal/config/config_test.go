package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOCALAPPDATA", "")

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	wantLog, err := expandPath(defaultGameLog)
	if err != nil {
		t.Fatalf("expandPath(defaultGameLog) returned error: %v", err)
	}
	if cfg.LogPath != wantLog {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath, wantLog)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
	if !cfg.Watch {
		t.Fatal("Watch = false, want true by default")
	}
	if cfg.StatusBind != "" {
		t.Fatalf("StatusBind = %q, want disabled", cfg.StatusBind)
	}
	if !strings.HasPrefix(cfg.HistoryPath, home) {
		t.Fatalf("HistoryPath = %q, want it under HOME %q", cfg.HistoryPath, home)
	}
}

func TestLoad_LocalAppDataLogPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	local := t.TempDir()
	t.Setenv("LOCALAPPDATA", local)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := filepath.Join(local, "Warframe", "EE.log"); cfg.LogPath != want {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath, want)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
log_path = "  ~/wf/EE.log  "
wanted_path = "~/ref/wanted.json"
status_bind = "  127.0.0.1:9999  "
poll_ms = 250
watch = false
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogPath != filepath.Join(home, "wf", "EE.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath)
	}
	if cfg.WantedPath != filepath.Join(home, "ref", "wanted.json") {
		t.Fatalf("WantedPath = %q", cfg.WantedPath)
	}
	if cfg.StatusBind != "127.0.0.1:9999" {
		t.Fatalf("StatusBind = %q, want %q", cfg.StatusBind, "127.0.0.1:9999")
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.Watch {
		t.Fatal("Watch = true, want false")
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
history_path = "   "
poll_ms = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want, err := expandPath(defaultHistoryPath)
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if cfg.HistoryPath != want {
		t.Fatalf("HistoryPath = %q, want %q", cfg.HistoryPath, want)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want default", cfg.PollInterval)
	}
}

func TestLoad_PollIntervalFloor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("poll_ms = 1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != minPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, minPollInterval)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_path = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

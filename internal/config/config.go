package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the bountyclock settings.
type Config struct {
	LogPath         string
	WantedPath      string
	TranslationPath string
	HistoryPath     string
	AppLogPath      string
	StatusBind      string
	PollInterval    time.Duration
	Watch           bool
}

const (
	defaultConfigPath      = "~/.config/bountyclock/config.toml"
	defaultGameLog         = "~/.local/share/Warframe/EE.log"
	defaultWantedPath      = "~/.config/bountyclock/wanted.json"
	defaultTranslationPath = "~/.config/bountyclock/translation.json"
	defaultHistoryPath     = "~/.local/share/bountyclock/history.db"
	defaultAppLogPath      = "~/.local/share/bountyclock/bountyclock.log"
	defaultPollInterval    = 100 * time.Millisecond
	minPollInterval        = 10 * time.Millisecond
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogPath:         defaultLogPath(),
		WantedPath:      mustExpand(defaultWantedPath),
		TranslationPath: mustExpand(defaultTranslationPath),
		HistoryPath:     mustExpand(defaultHistoryPath),
		AppLogPath:      mustExpand(defaultAppLogPath),
		PollInterval:    defaultPollInterval,
		Watch:           true,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogPath         string `toml:"log_path"`
		WantedPath      string `toml:"wanted_path"`
		TranslationPath string `toml:"translation_path"`
		HistoryPath     string `toml:"history_path"`
		AppLogPath      string `toml:"app_log_path"`
		StatusBind      string `toml:"status_bind"`
		PollMS          int    `toml:"poll_ms"`
		Watch           *bool  `toml:"watch"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	overridePath(&cfg.LogPath, raw.LogPath)
	overridePath(&cfg.WantedPath, raw.WantedPath)
	overridePath(&cfg.TranslationPath, raw.TranslationPath)
	overridePath(&cfg.HistoryPath, raw.HistoryPath)
	overridePath(&cfg.AppLogPath, raw.AppLogPath)
	cfg.StatusBind = strings.TrimSpace(raw.StatusBind)
	if raw.PollMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollMS) * time.Millisecond
		if cfg.PollInterval < minPollInterval {
			cfg.PollInterval = minPollInterval
		}
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}

	return cfg, nil
}

// defaultLogPath mirrors where the game client writes EE.log.
func defaultLogPath() string {
	if local := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); local != "" {
		return filepath.Join(local, "Warframe", "EE.log")
	}
	return mustExpand(defaultGameLog)
}

func overridePath(dst *string, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	*dst = mustExpand(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

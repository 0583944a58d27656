// Package config loads planner settings from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. PLANNER_TELEGRAM_TOKEN.
const EnvPrefix = "PLANNER_"

const maxConfigFileSize = 1 << 20

// Config keeps runtime settings.
type Config struct {
	Telegram TelegramConfig `koanf:"telegram"`
	Storage  StorageConfig  `koanf:"storage"`
	Report   ReportConfig   `koanf:"report"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	UI       UIConfig       `koanf:"ui"`
}

type TelegramConfig struct {
	Token string `koanf:"token"`
	// OwnerID is the only Telegram user the bot answers.
	OwnerID int64 `koanf:"owner_id"`
}

type StorageConfig struct {
	Path string `koanf:"path"`
}

type ReportConfig struct {
	// DailyAt is HH:MM; empty disables the daily summary.
	DailyAt string `koanf:"daily_at"`
	// WeeklyCron is a seconds-first cron spec; empty disables the weekly review.
	WeeklyCron string `koanf:"weekly_cron"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the endpoint.
	Addr string `koanf:"addr"`
	// Refresh recomputes time-windowed gauges between task changes; zero disables it.
	Refresh time.Duration `koanf:"refresh"`
}

type UIConfig struct {
	StatusClearDelay time.Duration `koanf:"status_clear_delay"`
	ModalCloseDelay  time.Duration `koanf:"modal_close_delay"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Storage: StorageConfig{Path: "matrix_planner.db"},
		Report: ReportConfig{
			DailyAt:    "08:00",
			WeeklyCron: "0 0 18 * * SUN",
		},
		Log:     LogConfig{Level: "info", Format: "console"},
		Metrics: MetricsConfig{Refresh: 15 * time.Minute},
		UI: UIConfig{
			StatusClearDelay: time.Second,
			ModalCloseDelay:  200 * time.Millisecond,
		},
	}
}

// Load layers defaults, the YAML file at path (optional) and PLANNER_* variables.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(rawbytes.Provider(content), parser); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parserFor picks the file parser by extension: YAML by default, TOML for .toml.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return tomlParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// envKey maps PLANNER_TELEGRAM_OWNER_ID to telegram.owner_id.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}

// Validate checks settings every command depends on.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, errors.New("storage.path is required"))
	}
	if c.Report.DailyAt != "" {
		if _, _, err := ParseClock(c.Report.DailyAt); err != nil {
			errs = append(errs, fmt.Errorf("report.daily_at: %w", err))
		}
	}
	if c.UI.StatusClearDelay < 0 || c.UI.ModalCloseDelay < 0 {
		errs = append(errs, errors.New("ui delays must not be negative"))
	}
	if c.Metrics.Refresh < 0 {
		errs = append(errs, errors.New("metrics.refresh must not be negative"))
	}
	return errors.Join(errs...)
}

// ValidateBot checks the extra settings the Telegram front end needs.
func (c Config) ValidateBot() error {
	var errs []error
	if strings.TrimSpace(c.Telegram.Token) == "" {
		errs = append(errs, errors.New("telegram.token is required"))
	}
	if c.Telegram.OwnerID == 0 {
		errs = append(errs, errors.New("telegram.owner_id is required"))
	}
	return errors.Join(errs...)
}

// ParseClock parses an HH:MM wall-clock time.
func ParseClock(value string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"montage/gentime"
)

// Config defines CLI configuration.
type Config struct {
	Timeline TimelineConfig `yaml:"timeline" toml:"timeline"`
	Snap     SnapConfig     `yaml:"snap" toml:"snap"`
	Log      LogConfig      `yaml:"log" toml:"log"`
	DB       DBConfig       `yaml:"db" toml:"db"`
}

type TimelineConfig struct {
	FPS                string `yaml:"fps" toml:"fps"`
	LegacySoundOverlap bool   `yaml:"legacy_sound_overlap" toml:"legacy_sound_overlap"`
}

// SnapConfig sets how far, in frames, a snap query reaches.
type SnapConfig struct {
	Tolerance int `yaml:"tolerance" toml:"tolerance"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type DBConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeline: TimelineConfig{
			FPS: gentime.DefaultRate.String(),
		},
		Snap: SnapConfig{
			Tolerance: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
		DB: DBConfig{
			Path: "montage.db",
		},
	}
}

// Load reads configuration from an optional file and environment variables.
// path wins over MONTAGE_CONFIG_PATH; files ending in .toml are TOML,
// anything else is YAML.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("MONTAGE_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if fps := os.Getenv("MONTAGE_FPS"); fps != "" {
		cfg.Timeline.FPS = fps
	}
	if tol := os.Getenv("MONTAGE_SNAP_TOLERANCE"); tol != "" {
		n, err := strconv.Atoi(tol)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MONTAGE_SNAP_TOLERANCE: %w", err)
		}
		cfg.Snap.Tolerance = n
	}
	if level := os.Getenv("MONTAGE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if dbPath := os.Getenv("MONTAGE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate checks the values that other packages parse.
func (c Config) Validate() error {
	if _, err := c.Rate(); err != nil {
		return fmt.Errorf("invalid timeline.fps: %w", err)
	}
	if c.Snap.Tolerance < 0 {
		return fmt.Errorf("invalid snap.tolerance: %d", c.Snap.Tolerance)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Rate returns the configured project frame rate.
func (c Config) Rate() (gentime.Rate, error) {
	return gentime.ParseRate(c.Timeline.FPS)
}

// LogLevel maps log.level to a slog level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log.level: %w", err)
	}
	return level, nil
}

// Logger builds a text logger writing to stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

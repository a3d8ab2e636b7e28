// Package config loads vedaos settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/prasanthkuna/vedaos/internal/clock"
	"github.com/prasanthkuna/vedaos/internal/sidereal"
)

const (
	BackendAnalytic = "analytic"
	BackendGRPC     = "grpc"

	DefaultEphemerisAddr    = "127.0.0.1:50551"
	DefaultEphemerisTimeout = 5 * time.Second
	DefaultZone             = "UTC"
	DefaultWeekStart        = "0 0 * * 1" // Monday 00:00
)

type Config struct {
	DBPath      string          `yaml:"db"`
	DefaultZone string          `yaml:"defaultZone"`
	WeekStart   string          `yaml:"weekStart"`
	Ephemeris   EphemerisConfig `yaml:"ephemeris"`
	Ayanamsha   sidereal.Model  `yaml:"ayanamsha"`
}

type EphemerisConfig struct {
	Backend string        `yaml:"backend"` // "analytic" (default) or "grpc"
	Addr    string        `yaml:"addr,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Listen  string        `yaml:"listen,omitempty"` // serve-ephemeris bind address
}

func DefaultConfig() *Config {
	return &Config{
		DBPath:      filepath.Join(ConfigDir(), "vedaos.db"),
		DefaultZone: DefaultZone,
		WeekStart:   DefaultWeekStart,
		Ephemeris: EphemerisConfig{
			Backend: BackendAnalytic,
			Addr:    DefaultEphemerisAddr,
			Timeout: DefaultEphemerisTimeout,
			Listen:  DefaultEphemerisAddr,
		},
		Ayanamsha: sidereal.DefaultModel(),
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".vedaos")
}

// ConfigPath is $VEDAOS_CONFIG when set, else ~/.vedaos/config.yaml.
func ConfigPath() string {
	if p := os.Getenv("VEDAOS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads path (ConfigPath when empty), applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if db := os.Getenv("VEDAOS_DB"); db != "" {
		cfg.DBPath = db
	}
	if backend := os.Getenv("VEDAOS_EPHEMERIS_BACKEND"); backend != "" {
		cfg.Ephemeris.Backend = backend
	}
	if addr := os.Getenv("VEDAOS_EPHEMERIS_ADDR"); addr != "" {
		cfg.Ephemeris.Addr = addr
	}
	if ms := os.Getenv("VEDAOS_EPHEMERIS_TIMEOUT_MS"); ms != "" {
		if parsed, err := strconv.Atoi(ms); err == nil {
			cfg.Ephemeris.Timeout = time.Duration(parsed) * time.Millisecond
		}
	}
	if zone := os.Getenv("VEDAOS_DEFAULT_ZONE"); zone != "" {
		cfg.DefaultZone = zone
	}

	if cfg.Ephemeris.Backend == "" {
		cfg.Ephemeris.Backend = BackendAnalytic
	}
	if cfg.Ephemeris.Timeout <= 0 {
		cfg.Ephemeris.Timeout = DefaultEphemerisTimeout
	}
	if cfg.WeekStart == "" {
		cfg.WeekStart = DefaultWeekStart
	}
	if cfg.Ayanamsha.ReferenceJD == 0 {
		cfg.Ayanamsha = sidereal.DefaultModel()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Ephemeris.Backend {
	case BackendAnalytic:
	case BackendGRPC:
		if c.Ephemeris.Addr == "" {
			return fmt.Errorf("config: grpc ephemeris backend needs an address")
		}
	default:
		return fmt.Errorf("config: unknown ephemeris backend %q", c.Ephemeris.Backend)
	}
	if _, err := clock.LoadZone(c.DefaultZone); err != nil {
		return fmt.Errorf("config: default zone: %w", err)
	}
	if _, err := cron.ParseStandard(c.WeekStart); err != nil {
		return fmt.Errorf("config: week start schedule: %w", err)
	}
	return nil
}

// WeekSchedule parses the week-start cron expression.
func (c *Config) WeekSchedule() (cron.Schedule, error) {
	return cron.ParseStandard(c.WeekStart)
}

func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

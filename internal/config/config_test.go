package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prasanthkuna/vedaos/internal/clock"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"VEDAOS_CONFIG", "VEDAOS_DB", "VEDAOS_EPHEMERIS_BACKEND", "VEDAOS_EPHEMERIS_ADDR", "VEDAOS_EPHEMERIS_TIMEOUT_MS", "VEDAOS_DEFAULT_ZONE"} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Ephemeris.Backend != BackendAnalytic {
		t.Errorf("backend = %q", cfg.Ephemeris.Backend)
	}
	if cfg.WeekStart != DefaultWeekStart || cfg.DefaultZone != "UTC" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Ayanamsha.ReferenceDegrees != 23.853 {
		t.Errorf("ayanamsha = %+v", cfg.Ayanamsha)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ephemeris.Timeout != DefaultEphemerisTimeout {
		t.Errorf("timeout = %v", cfg.Ephemeris.Timeout)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
db: /tmp/from-file.db
defaultZone: Asia/Kolkata
ephemeris:
  backend: grpc
  addr: eph.internal:50551
  timeout: 2s
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VEDAOS_DB", "/tmp/from-env.db")
	t.Setenv("VEDAOS_EPHEMERIS_TIMEOUT_MS", "750")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/from-env.db" {
		t.Errorf("db = %q", cfg.DBPath)
	}
	if cfg.DefaultZone != "Asia/Kolkata" || cfg.Ephemeris.Backend != BackendGRPC || cfg.Ephemeris.Addr != "eph.internal:50551" {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Ephemeris.Timeout != 750*time.Millisecond {
		t.Errorf("timeout = %v", cfg.Ephemeris.Timeout)
	}
	if cfg.Ayanamsha.RateArcsecPerYear != 50.29 {
		t.Errorf("ayanamsha default lost: %+v", cfg.Ayanamsha)
	}
}

func TestConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("VEDAOS_CONFIG", "/etc/vedaos.yaml")
	if ConfigPath() != "/etc/vedaos.yaml" {
		t.Errorf("path = %q", ConfigPath())
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ephemeris.Backend = "swiss"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown backend error")
	}

	cfg = DefaultConfig()
	cfg.WeekStart = "every monday"
	if err := cfg.Validate(); err == nil {
		t.Error("expected cron parse error")
	}

	cfg = DefaultConfig()
	cfg.DefaultZone = "Nowhere/Place"
	if err := cfg.Validate(); err == nil {
		t.Error("expected zone error")
	}

	cfg = DefaultConfig()
	cfg.DefaultZone = "Local"
	if err := cfg.Validate(); !errors.Is(err, clock.ErrHostZone) {
		t.Errorf("expected host zone error, got %v", err)
	}
}

func TestWeekSchedule(t *testing.T) {
	sched, err := DefaultConfig().WeekSchedule()
	if err != nil {
		t.Fatalf("WeekSchedule: %v", err)
	}
	// Wednesday 2026-06-03 -> next Monday 2026-06-08
	next := sched.Next(time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC))
	if !next.Equal(time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("next = %s", next)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.DefaultZone = "Europe/Berlin"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.DefaultZone != "Europe/Berlin" || back.Ephemeris.Timeout != cfg.Ephemeris.Timeout {
		t.Errorf("round trip = %+v", back)
	}
}

// Package cli implements the vedaos commands.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prasanthkuna/vedaos/internal/birthtime"
	"github.com/prasanthkuna/vedaos/internal/config"
	"github.com/prasanthkuna/vedaos/internal/engine"
	"github.com/prasanthkuna/vedaos/internal/profile"
)

var (
	configPath  string
	dbPath      string
	noStore     bool
	profilePath string

	flagDOB          string
	flagTob          string
	flagRectifiedTob string
	flagZone         string
	flagPlace        string
	flagLat          float64
	flagLon          float64
	flagMode         string
	flagRectified    bool

	flagCurrentZone string
	flagCurrentLat  float64
	flagCurrentLon  float64
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "vedaos",
	Short:         "Vedic astrology computation core",
	Long:          "Natal snapshots, dasha timelines, phase journeys, birth-time checks and timing windows. JSON out.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: $VEDAOS_CONFIG or ~/.vedaos/config.yaml)")
	pf.StringVarP(&dbPath, "db", "d", "", "Run store path (overrides config and $VEDAOS_DB)")
	pf.BoolVar(&noStore, "no-store", false, "Do not cache or record anything")
	pf.StringVarP(&profilePath, "profile", "p", "", "Profile file (YAML or JSON)")

	pf.StringVar(&flagDOB, "dob", "", "Date of birth, YYYY-MM-DD")
	pf.StringVar(&flagTob, "tob", "", "Local time of birth, HH:MM")
	pf.StringVar(&flagRectifiedTob, "rectified-tob", "", "Rectified local time of birth, HH:MM")
	pf.StringVar(&flagZone, "tz", "", "IANA zone of the birth place")
	pf.StringVar(&flagPlace, "place", "", "Birth place text")
	pf.Float64Var(&flagLat, "lat", 0, "Birth latitude")
	pf.Float64Var(&flagLon, "lon", 0, "Birth longitude")
	pf.StringVar(&flagMode, "mode-input", "", "Birth-time input mode: exact_time, six_window_approx, nakshatra_only, unknown")
	pf.BoolVar(&flagRectified, "rectified", false, "Rectification already completed")
	pf.StringVar(&flagCurrentZone, "current-tz", "", "IANA zone of the current city, used for windows")
	pf.Float64Var(&flagCurrentLat, "current-lat", 0, "Current city latitude")
	pf.Float64Var(&flagCurrentLon, "current-lon", 0, "Current city longitude")
}

// #region helpers

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func openEngine() (*engine.Engine, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return engine.Open(cfg, !noStore)
}

// loadProfile reads --profile when set and overlays any profile flags given
// on the command line.
func loadProfile(cmd *cobra.Command) (profile.Profile, error) {
	var p profile.Profile
	if profilePath != "" {
		loaded, err := profile.Load(profilePath)
		if err != nil {
			return profile.Profile{}, err
		}
		p = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dob") {
		p.DOB = flagDOB
	}
	if flags.Changed("tob") {
		p.TobLocal = flagTob
	}
	if flags.Changed("rectified-tob") {
		p.RectifiedTobLocal = flagRectifiedTob
	}
	if flags.Changed("tz") {
		p.Zone = flagZone
	}
	if flags.Changed("place") {
		p.Place = flagPlace
	}
	if flags.Changed("lat") {
		lat := flagLat
		p.Lat = &lat
	}
	if flags.Changed("lon") {
		lon := flagLon
		p.Lon = &lon
	}
	if flags.Changed("mode-input") {
		p.InputMode = birthtime.InputMode(flagMode)
	}
	if flags.Changed("rectified") {
		p.RectificationCompleted = flagRectified
	}
	if flags.Changed("current-tz") {
		p.CurrentZone = flagCurrentZone
	}
	if flags.Changed("current-lat") {
		lat := flagCurrentLat
		p.CurrentLat = &lat
	}
	if flags.Changed("current-lon") {
		lon := flagCurrentLon
		p.CurrentLon = &lon
	}

	if err := p.Validate(); err != nil {
		return profile.Profile{}, fmt.Errorf("profile: %w", err)
	}
	return p, nil
}

// parseInstant reads YYYY-MM-DD (midnight UTC) or RFC 3339. Blank is the zero time.
func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse instant %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// parseDay is parseInstant with bare dates read at 12:00 UTC, which falls on
// the same calendar date in every zone within twelve hours of UTC.
func parseDay(s string) (time.Time, error) {
	t, err := parseInstant(s)
	if err != nil || t.IsZero() {
		return t, err
	}
	if _, dateErr := time.Parse(time.DateOnly, strings.TrimSpace(s)); dateErr == nil {
		t = t.Add(12 * time.Hour)
	}
	return t, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

// #endregion helpers

package engine

import (
	"fmt"
	"log"

	"github.com/prasanthkuna/vedaos/internal/config"
	"github.com/prasanthkuna/vedaos/internal/ephemeris"
	"github.com/prasanthkuna/vedaos/internal/runstore"
)

// #region from-config

// Open wires an engine from cfg: the configured ephemeris backend and, when
// withStore is set, the SQLite run store at cfg.DBPath. The returned close
// function releases both.
func Open(cfg *config.Config, withStore bool) (*Engine, func() error, error) {
	eph, closeEph, err := Backend(cfg.Ephemeris)
	if err != nil {
		return nil, nil, err
	}

	sched, err := cfg.WeekSchedule()
	if err != nil {
		closeEph()
		return nil, nil, fmt.Errorf("week schedule: %w", err)
	}

	opts := Options{
		Backend:     cfg.Ephemeris.Backend,
		Model:       cfg.Ayanamsha,
		DefaultZone: cfg.DefaultZone,
		WeekStart:   sched,
	}
	if withStore {
		store, err := runstore.NewStore(cfg.DBPath)
		if err != nil {
			closeEph()
			return nil, nil, fmt.Errorf("open run store: %w", err)
		}
		opts.Store = store
	}

	closeAll := func() error {
		var first error
		if opts.Store != nil {
			first = opts.Store.Close()
		}
		if err := closeEph(); err != nil && first == nil {
			first = err
		}
		return first
	}
	return New(eph, opts), closeAll, nil
}

// Backend returns the ephemeris selected by ec and a function closing it.
func Backend(ec config.EphemerisConfig) (ephemeris.Ephemeris, func() error, error) {
	switch ec.Backend {
	case "", config.BackendAnalytic:
		return ephemeris.NewAnalytic(), func() error { return nil }, nil
	case config.BackendGRPC:
		client, err := ephemeris.NewClient(ec.Addr, ec.Timeout)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[engine] using grpc ephemeris at %s (timeout %s)", ec.Addr, ec.Timeout)
		return client, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown ephemeris backend %q", ec.Backend)
	}
}

// #endregion from-config

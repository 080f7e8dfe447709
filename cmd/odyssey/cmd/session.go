package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/odyssey/account"
	"github.com/rustyeddy/odyssey/config"
	"github.com/rustyeddy/odyssey/ledger"
	"github.com/rustyeddy/odyssey/market"
	"github.com/rustyeddy/odyssey/yahoo"
)

// session wires one CLI invocation: config, the live account restored
// from its snapshot, the market data source, and the durable journal.
type session struct {
	cfg   *config.Config
	acct  *account.Account
	src   *yahoo.Client
	clock market.Clock
	prefs account.Preferences
	rec   ledger.Recorder
}

func loadCLIConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	if _, err := os.Stat("odyssey.yaml"); err == nil {
		return config.LoadFromFile("odyssey.yaml")
	}
	return config.Default(), nil
}

func openSession() (*session, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if u := os.Getenv("ODYSSEY_MARKET_URL"); u != "" {
		cfg.Market.BaseURL = u
	}

	clock := market.Clock(market.NYSEClock{})

	acct := account.New(cfg.Account.StartingCash, clock)
	acct.SetLogger(logger)

	prefs := account.Preferences{
		Watchlist: cfg.Market.Watchlist,
		Symbol:    cfg.Market.Symbol,
	}

	// Restore the previous session when a snapshot exists. A snapshot
	// that fails validation rejects the whole load rather than partially
	// importing.
	if _, err := os.Stat(cfg.Session.SnapshotFile); err == nil {
		snap, err := account.ReadFile(cfg.Session.SnapshotFile)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		if err := acct.Restore(snap); err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		if snap.Preferences.Symbol != "" {
			prefs = snap.Preferences
		}
	}

	s := &session{
		cfg:   cfg,
		acct:  acct,
		src:   yahoo.NewClient(cfg.Market.BaseURL),
		clock: clock,
		prefs: prefs,
	}

	switch cfg.Journal.Type {
	case "sqlite":
		rec, err := ledger.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		s.rec = rec
	case "csv":
		rec, err := ledger.NewCSV(cfg.Journal.TradesFile)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		s.rec = rec
	}
	if s.rec != nil {
		acct.SetRecorder(s.rec)
	}

	return s, nil
}

// save writes the session snapshot back to disk.
func (s *session) save() error {
	snap := s.acct.Snapshot(s.prefs)
	if err := account.WriteFile(s.cfg.Session.SnapshotFile, snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *session) close() {
	if s.rec != nil {
		if err := s.rec.Close(); err != nil {
			logger.Warn().Err(err).Msg("close journal")
		}
	}
}

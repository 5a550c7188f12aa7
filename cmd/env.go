package cmd

import (
	"fmt"
	"os"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/config"
	"github.com/coder-muller/calculadora-bacen/internal/logging"
	"github.com/coder-muller/calculadora-bacen/internal/prefs"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"

	"go.uber.org/zap"
)

// env is everything a command needs, built from config and flags.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	svc    *calculator.Service
	prefs  prefs.KV
	close  func()
}

// loadEnv is the shared setup path used by all commands: config, logger,
// catalog, preference store, SGS client and calculator service. The TUI
// owns the terminal, so it only logs when a log file is configured.
func loadEnv(tui bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}

	logger := zap.NewNop()
	if !tui || cfg.Logging.OutputFile != "" {
		logger, err = logging.New(cfg.Logging, flagLogLevel)
		if err != nil {
			return nil, err
		}
	}

	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return nil, err
	}

	var opts []calculator.Option
	opts = append(opts, calculator.WithLogger(logger))
	if flagMargin != "" {
		m, err := rate.ParsePercent(flagMargin)
		if err != nil {
			return nil, fmt.Errorf("--margin: %w", err)
		}
		opts = append(opts, calculator.WithMarginOverride(m))
	}

	kv, closeKV := openPrefs(cfg, logger)

	client := sgs.NewClient(
		sgs.WithBaseURL(cfg.SGS.BaseURL),
		sgs.WithTimeout(cfg.SGSTimeout()),
		sgs.WithLogger(logger),
	)

	return &env{
		cfg:    cfg,
		logger: logger,
		svc:    calculator.New(client, kv, cat, opts...),
		prefs:  kv,
		close: func() {
			closeKV()
			_ = logger.Sync()
		},
	}, nil
}

// openPrefs opens the sqlite preference store, falling back to memory when
// --no-persist is set or the database cannot be opened.
func openPrefs(cfg config.Config, logger *zap.Logger) (prefs.KV, func()) {
	if flagNoPersist {
		return prefs.NewMemory(), func() {}
	}
	db, err := prefs.Open(cfg.PrefsPath())
	if err != nil {
		logger.Warn("preference store unavailable, margin will not be saved",
			zap.String("path", cfg.PrefsPath()), zap.Error(err))
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Preferences unavailable (%v), using defaults\n", err)
		}
		return prefs.NewMemory(), func() {}
	}
	return db, func() { _ = db.Close() }
}

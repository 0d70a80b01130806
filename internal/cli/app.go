// Package cli implements the checkride command-line interface: session
// management over the local draft database and the submission pipeline to the
// backend.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/dlebedev/checkride/internal/assetcache"
	"github.com/dlebedev/checkride/internal/blobstore"
	"github.com/dlebedev/checkride/internal/config"
	"github.com/dlebedev/checkride/internal/draft"
	"github.com/dlebedev/checkride/internal/logging"
	"github.com/dlebedev/checkride/internal/materialize"
	"github.com/dlebedev/checkride/internal/record"
	"github.com/dlebedev/checkride/internal/repositories/backenddb"
	"github.com/dlebedev/checkride/internal/repositories/localkv"
	"github.com/dlebedev/checkride/internal/session"
	"github.com/dlebedev/checkride/internal/submit"
)

// App holds the locally wired components every subcommand needs. Backend
// connections (Postgres, S3) are opened per command, only by the ones that
// talk to the backend.
type App struct {
	cfg        *config.Config
	logger     logging.Logger
	db         *sql.DB
	drafts     *draft.Store
	cache      *assetcache.Cache
	classifier *record.Classifier
}

// newApp resolves configuration as defaults, then the JSON file named by
// --config, then the config layer's own override flags taken from the raw
// command line (cobra is told to ignore flags it does not own).
func newApp(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath, os.Args[1:])
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, kv, err := localkv.InitDatabase(ctx, cfg.DraftDBPath())
	if err != nil {
		return nil, fmt.Errorf("open draft database: %w", err)
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		drafts:     draft.NewStore(kv, logger),
		cache:      assetcache.New(cfg.AssetCacheDir()),
		classifier: record.NewClassifier(record.DefaultLocator(), nil),
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) sessionDeps() session.Deps {
	return session.Deps{
		Drafts:          a.drafts,
		Scheduler:       draft.NewScheduler(a.drafts, a.logger, a.cfg.AutosaveDebounce, nil),
		Classifier:      a.classifier,
		Cache:           a.cache,
		Logger:          a.logger,
		LockPath:        a.cfg.SessionLockPath(),
		ResumeThreshold: a.cfg.ResumeThreshold,
		FreshGrace:      a.cfg.FreshStartGrace,
	}
}

// composer wires the full submission pipeline against the backend. The
// returned closer releases the Postgres connection.
func (a *App) composer(ctx context.Context) (*submit.Composer, func() error, error) {
	if a.cfg.DatabaseDSN == "" {
		return nil, nil, fmt.Errorf("database_dsn is not configured")
	}

	manager, err := backenddb.NewManager(a.cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := manager.RunMigrations(ctx); err != nil {
		_ = manager.Close()
		return nil, nil, fmt.Errorf("backend migrations: %w", err)
	}

	var uploader blobstore.Uploader = blobstore.NewS3Uploader(a.cfg)
	m := materialize.New(uploader, record.DefaultLocator(), a.cfg.UploadConcurrency)
	c := submit.NewComposer(
		m,
		manager.Submissions(),
		manager.Appointments(),
		a.drafts,
		a.cache,
		a.logger,
	)
	return c, manager.Close, nil
}

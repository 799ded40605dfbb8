// Package cli implements the mdimgup command-line interface.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leonwong282/mdimgup/internal/config"
	"github.com/leonwong282/mdimgup/internal/filex"
	"github.com/leonwong282/mdimgup/internal/history"
	"github.com/leonwong282/mdimgup/internal/imaging"
	"github.com/leonwong282/mdimgup/internal/logging"
	"github.com/leonwong282/mdimgup/internal/profile"
	"github.com/leonwong282/mdimgup/internal/secrets"
	"github.com/leonwong282/mdimgup/internal/storage"
	"github.com/leonwong282/mdimgup/internal/store"
	"github.com/leonwong282/mdimgup/internal/uploader"
)

// App wires the stores, the ledger, and the upload pipeline together
// behind the command tree.
type App struct {
	config   *config.Config
	db       *sql.DB
	profiles *profile.Store
	ledger   *history.Ledger
	uploads  *uploader.Orchestrator
	reverter *uploader.Reverter
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	dataDir, err := filex.DefaultDataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	key, err := secrets.LoadOrCreateKey(dataDir)
	if err != nil {
		return nil, err
	}

	dsn := cfg.MetadataDSN
	if dsn == "" {
		dsn = filepath.Join(dataDir, "mdimgup.db")
	}

	db, repo, err := store.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	postgres := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
	sec := secrets.NewSQLStore(db, key, postgres)

	profiles, err := profile.NewStore(ctx, repo, sec, cfg.Legacy, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	ledger, err := history.Open(ctx, repo, cfg.HistoryLimit)
	if err != nil {
		db.Close()
		return nil, err
	}

	defaults := uploader.Defaults{
		MaxWidth:        cfg.MaxWidth,
		ParallelUploads: cfg.ParallelUploads,
		UseCache:        cfg.UseCache,
		NamingPattern:   cfg.NamingPattern,
	}

	return &App{
		config:   cfg,
		db:       db,
		profiles: profiles,
		ledger:   ledger,
		uploads:  uploader.NewOrchestrator(ledger, imaging.NewImageResizer(), storage.NewClientForProfile, defaults, log),
		reverter: uploader.NewReverter(ledger, profiles, storage.NewClientForProfile, log),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	return a.rootCommand().ExecuteContext(ctx)
}

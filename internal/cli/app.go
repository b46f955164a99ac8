// Package cli implements the interactive ReceiptVault shell: receipt CRUD
// plus encrypted backup export/import against the local store.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/receiptvault/internal/backup"
	"github.com/dmitrijs2005/receiptvault/internal/config"
	"github.com/dmitrijs2005/receiptvault/internal/filex"
	"github.com/dmitrijs2005/receiptvault/internal/keystore"
	"github.com/dmitrijs2005/receiptvault/internal/logging"
	"github.com/dmitrijs2005/receiptvault/internal/repositories/records"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	repo        records.Repository
	attachments *records.AttachmentStore
	keys        *keystore.Manager
	backup      *backup.Service
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {

	ctx := context.Background()
	log := logging.NewDefault()

	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)",
		filepath.Join(cfg.DataDir, "receipts.db"), cfg.DBBusyTimeout.Milliseconds())
	db, err := records.InitDatabase(ctx, dsn)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	keys := keystore.NewManager(keystore.NewFileSecretStore(cfg.DataDir), cfg.KDFIterations)
	repo := records.NewSQLiteRepository(db, keys)
	attachments := records.NewAttachmentStore(cfg.DataDir)
	svc := backup.NewService(repo, attachments, cfg.DataDir, cfg.ExportDir, cfg.KDFIterations, log)

	return &App{
		config:      cfg,
		db:          db,
		repo:        repo,
		attachments: attachments,
		keys:        keys,
		backup:      svc,
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Command backup writes one snapshot of DATA_FILE into BACKUP_DIR and prunes
// to BACKUP_KEEP files. It is meant for hosts that schedule backups
// externally instead of through BACKUP_SCHEDULE.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/dhima/catalog-service/internal/backup"
	"github.com/dhima/catalog-service/internal/catalog"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/storage"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/dhima/catalog-service/pkg/config"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Loading a missing file would initialize it; a backup must never create data.
	if _, err := os.Stat(cfg.DataFile); errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("data file does not exist", zap.String("path", cfg.DataFile))
	}

	store := storage.NewStore(cfg.DataFile, catalog.Collections, storage.WithLogger(logger))
	if err := store.Load(context.Background()); err != nil {
		logger.Fatal("failed to load data file", zap.Error(err))
	}

	path, err := backup.NewScheduler(store, cfg.BackupDir, cfg.BackupKeep, clock.RealClock{}, logger).RunOnce()
	if err != nil {
		logger.Fatal("backup failed", zap.Error(err))
	}
	logger.Info("backup complete", zap.String("path", path))
}

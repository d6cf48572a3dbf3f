package cmd

import (
	"context"
	"fmt"

	"studyhub/core/calendar"
	"studyhub/core/config"
	"studyhub/core/database"
	"studyhub/core/logger"
	"studyhub/core/storage"
	"studyhub/core/store"
	"studyhub/feature/backup"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// env is the shared wiring every command starts from.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// setup loads configuration, builds the logger and opens the migrated store.
func setup(ctx context.Context) (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	st := store.New(db)
	if err := st.Migrate(ctx); err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logg, store: st}, nil
}

// backupTarget builds the configured export target. The storage client is nil
// for the file target.
func (e *env) backupTarget(ctx context.Context) (backup.Target, storage.Client, error) {
	if e.cfg.Backup.Target == config.BackupTargetFile {
		return backup.NewFileTarget(afero.NewOsFs(), e.cfg.Backup.Dir), nil, nil
	}

	client, err := e.storageClient()
	if err != nil {
		return nil, nil, err
	}
	if err := storage.EnsureBucket(ctx, client, e.cfg.Storage.Bucket, e.cfg.Storage.Region); err != nil {
		return nil, nil, err
	}
	return backup.NewBucketTarget(client, e.cfg.Storage.Bucket, e.cfg.Backup.BucketPrefix), client, nil
}

// storageClient connects to the backup bucket. It is nil for the file target.
func (e *env) storageClient() (storage.Client, error) {
	if e.cfg.Backup.Target != config.BackupTargetBucket {
		return nil, nil
	}
	client, err := storage.NewClient(e.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// calendarAdapter returns the Google adapter when sync is enabled. A broken calendar
// setup degrades to no sync instead of stopping the app.
func (e *env) calendarAdapter(ctx context.Context) calendar.Adapter {
	if !e.cfg.Calendar.Enabled {
		return calendar.Nop{}
	}
	g, err := calendar.NewGoogle(ctx, e.cfg.Calendar)
	if err != nil {
		e.logger.Warn("Calendar sync disabled", zap.Error(err))
		return calendar.Nop{}
	}
	e.logger.Info("Calendar sync enabled", zap.String("calendar_id", e.cfg.Calendar.CalendarID))
	return g
}
